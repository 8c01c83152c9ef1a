package stream

import (
	"errors"
	"strings"
)

// ErrEmptyURL is returned when a request is submitted without a URL.
var ErrEmptyURL = errors.New("url must not be empty")

// Request is a candidate stream awaiting validation.
type Request struct {
	Protocol Protocol `json:"protocol" jsonschema:"enum=hls,enum=dash"`
	URL      string   `json:"url"`
}

// NewRequest trims the URL and builds a Request.
func NewRequest(p Protocol, url string) Request {
	return Request{Protocol: p, URL: strings.TrimSpace(url)}
}

// Validate checks the submission invariant.
func (r Request) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return ErrEmptyURL
	}
	if _, err := ParseProtocol(string(r.Protocol)); err != nil {
		return err
	}
	return nil
}

func (r Request) String() string {
	return r.Protocol.Label() + " " + r.URL
}
