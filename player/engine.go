// Package player binds external playback engines to a rendering surface.
// A single generic Adapter drives the engine lifecycle; protocol specifics live in a Strategy.
package player

import (
	"errors"
	"time"
)

var (
	// ErrUnsupported is returned when neither an engine nor the surface can play a stream.
	ErrUnsupported = errors.New("no playback engine or native player available")

	// ErrNoProgress is returned by sessions whose engine cannot report playback position.
	ErrNoProgress = errors.New("engine does not report progress")
)

// Engine is a live playback engine instance.
type Engine interface {
	// Destroy stops playback and releases the engine's resources.
	Destroy() error
}

// HLSEngine is an engine that loads a source first and is attached to a surface afterwards.
type HLSEngine interface {
	Engine
	LoadSource(src string) error
	AttachMedia(surface Surface) error
}

// DASHEngine is an engine initialized with surface and source in a single call.
type DASHEngine interface {
	Engine
	Initialize(surface Surface, src string, autoplay bool) error
}

// Progress is a snapshot of the playback position.
type Progress struct {
	Position time.Duration
	Duration time.Duration
	Paused   bool
}

// Percent returns the watched share in the range 0-100, or 0 for streams of unknown length.
func (p Progress) Percent() float64 {
	if p.Duration <= 0 {
		return 0
	}
	return float64(p.Position) / float64(p.Duration) * 100
}

// Observer is implemented by engines that can be queried and controlled while playing.
type Observer interface {
	Progress() (Progress, error)
	TogglePause() error
}

// Waiter is implemented by engines that can exit on their own, e.g. when the user closes the window.
type Waiter interface {
	Done() <-chan struct{}
}
