package history

import (
	"fmt"
	"time"

	"github.com/streamplay-cli/streamplay/stream"
)

// Entry is a stream that validated and played at least once.
type Entry struct {
	URL         string          `json:"url"`
	Protocol    stream.Protocol `json:"protocol"`
	ContentType string          `json:"content_type,omitempty"`
	Rank        int             `json:"rank"`
	LastPlayed  time.Time       `json:"last_played"`
}

func (e *Entry) encode() string {
	return fmt.Sprintf("%s %s", e.Protocol, e.URL)
}

func (e *Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Protocol.Label(), e.URL)
}

// Request rebuilds the stream request the entry was created from.
func (e *Entry) Request() stream.Request {
	return stream.NewRequest(e.Protocol, e.URL)
}
