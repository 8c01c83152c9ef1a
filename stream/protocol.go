// Package stream holds the stream request model, the pre-flight validator and manifest inspection.
package stream

import (
	"errors"
	"fmt"
	"strings"
)

// Protocol is an adaptive streaming protocol the player understands.
type Protocol string

const (
	HLS  Protocol = "hls"
	DASH Protocol = "dash"
)

// MIME types used for content negotiation.
const (
	MimeHLS      = "application/vnd.apple.mpegurl"
	MimeHLSAlt   = "application/x-mpegurl"
	MimeDASH     = "application/dash+xml"
	MimeMPEGTS   = "video/mp2t"
	MimeMP4      = "video/mp4"
	MimeWebM     = "video/webm"
	MimeFallback = "application/octet-stream"
)

// Protocols lists every supported protocol in display order.
var Protocols = []Protocol{HLS, DASH}

// ErrUnknownProtocol is returned by ParseProtocol for unsupported names.
var ErrUnknownProtocol = errors.New("unknown protocol")

// ParseProtocol converts a user supplied name (case-insensitive) into a Protocol.
func ParseProtocol(name string) (Protocol, error) {
	switch Protocol(strings.ToLower(strings.TrimSpace(name))) {
	case HLS:
		return HLS, nil
	case DASH:
		return DASH, nil
	default:
		return "", fmt.Errorf("%w: %q (expected hls or dash)", ErrUnknownProtocol, name)
	}
}

// Label is the upper-case name shown to users.
func (p Protocol) Label() string {
	return strings.ToUpper(string(p))
}

// Title is the long display name used by the protocol selector.
func (p Protocol) Title() string {
	if p == DASH {
		return "MPEG-DASH"
	}
	return p.Label()
}

// Next returns the protocol following p in the selector, wrapping around.
func (p Protocol) Next() Protocol {
	for i, candidate := range Protocols {
		if candidate == p {
			return Protocols[(i+1)%len(Protocols)]
		}
	}
	return Protocols[0]
}

// MimeType is the primary manifest MIME type of the protocol.
func (p Protocol) MimeType() string {
	if p == DASH {
		return MimeDASH
	}
	return MimeHLS
}

// Placeholder is the example URL suggested in the URL field for the protocol.
func (p Protocol) Placeholder() string {
	if p == DASH {
		return "http://localhost:8095/video/dash/001/manifest.mpd"
	}
	return "http://localhost:8095/video/hls/001/the_fascinating_history_of_go_1080_transcoded.m3u8"
}

// Accepts reports whether a response Content-Type header is acceptable for the protocol.
// Matching is a case-insensitive substring test so parameters such as charset are tolerated.
func Accepts(p Protocol, contentType string) bool {
	ct := strings.ToLower(contentType)
	switch p {
	case HLS:
		return strings.Contains(ct, MimeHLS) || strings.Contains(ct, MimeHLSAlt)
	case DASH:
		return strings.Contains(ct, MimeDASH)
	default:
		return false
	}
}
