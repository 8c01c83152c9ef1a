package stream

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/streamplay-cli/streamplay/log"
)

// Validator performs the pre-flight request that decides whether a stream may be played.
type Validator struct {
	client *http.Client
}

// NewValidator builds a Validator using client, or http.DefaultClient when nil.
func NewValidator(client *http.Client) *Validator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Validator{client: client}
}

// Validate fetches req.URL and applies the status and content-type rules.
// Only the status line and the Content-Type header are consulted; the body is closed unread.
func (v *Validator) Validate(ctx context.Context, req Request) Result {
	if err := req.Validate(); err != nil {
		return requestRejected(req, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return statusFailure(req, 0, transportReason(err))
	}

	resp, err := v.client.Do(httpReq)
	if err != nil {
		log.Warnf("validate %s: %v", req, err)
		return statusFailure(req, 0, transportReason(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Infof("validate %s: status %s", req, resp.Status)
		return statusFailure(req, resp.StatusCode, statusText(resp))
	}

	contentType := resp.Header.Get("Content-Type")
	if !Accepts(req.Protocol, contentType) {
		log.Infof("validate %s: rejected content type %q", req, contentType)
		return contentTypeMismatch(req, resp.StatusCode, contentType)
	}

	return validResult(req, resp.StatusCode, contentType)
}

// statusText extracts the reason phrase from the status line, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// transportReason strips the request URL from client errors; the user already sees it.
func transportReason(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
