package player

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/open"
	"github.com/streamplay-cli/streamplay/stream"
)

// Surface is the rendering target a stream is bound to.
type Surface interface {
	Title() string
	Fullscreen() bool
	// CanPlayType reports whether the surface plays the MIME type without an engine.
	CanPlayType(mime string) bool
	// SetSource hands src to the surface's own player.
	SetSource(src string) error
}

// Window is the player window an engine renders into.
// When a native application is configured it can also play streams by itself.
type Window struct {
	title      string
	fullscreen bool
	native     string
	launch     func(src, app string) error
}

// NewWindow describes a player window using the player.* configuration.
func NewWindow(title string) *Window {
	return &Window{
		title:      title,
		fullscreen: viper.GetBool(key.PlayerFullscreen),
		native:     strings.TrimSpace(viper.GetString(key.PlayerNative)),
		launch:     open.StartWith,
	}
}

func (w *Window) Title() string {
	return w.title
}

func (w *Window) Fullscreen() bool {
	return w.fullscreen
}

// CanPlayType is true for stream and container types when a native application is configured.
func (w *Window) CanPlayType(mime string) bool {
	if w.native == "" {
		return false
	}

	switch strings.ToLower(mime) {
	case stream.MimeHLS, stream.MimeHLSAlt, stream.MimeDASH, stream.MimeMP4, stream.MimeWebM, stream.MimeMPEGTS:
		return true
	default:
		return false
	}
}

// SetSource opens src in the configured native application.
func (w *Window) SetSource(src string) error {
	return w.launch(src, w.native)
}
