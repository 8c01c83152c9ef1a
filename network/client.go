// Package network provides the shared HTTP client used for stream validation and manifest inspection.
package network

import (
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/constant"
	"github.com/streamplay-cli/streamplay/key"
)

// Client is the process-wide HTTP client. Request deadlines come from the caller's context.
var Client = &http.Client{
	Transport: &userAgentTransport{base: newTransport()},
}

// Timeout returns the configured validation timeout.
func Timeout() time.Duration {
	seconds := viper.GetInt(key.StreamTimeout)
	if seconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

// newTransport initializes a tuned http.Transport with pool and timeout parameters suited to manifest fetching.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 5 * time.Second
	return t
}

// userAgentTransport stamps the configured User-Agent on requests that do not carry one.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}

	ua := viper.GetString(key.StreamUserAgent)
	if ua == "" {
		ua = constant.UserAgent
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", ua)
	return t.base.RoundTrip(clone)
}
