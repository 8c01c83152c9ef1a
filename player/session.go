package player

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streamplay-cli/streamplay/stream"
)

// Session is one bound source. It owns at most one engine and releases it exactly once.
type Session struct {
	ID        uuid.UUID
	Protocol  stream.Protocol
	Source    string
	StartedAt time.Time

	engine   Engine
	once     sync.Once
	released chan struct{}
	done     chan struct{}
	err      error
}

func newSession(p stream.Protocol, src string, engine Engine) *Session {
	s := &Session{
		ID:        uuid.New(),
		Protocol:  p,
		Source:    src,
		StartedAt: time.Now(),
		engine:    engine,
		released:  make(chan struct{}),
		done:      make(chan struct{}),
	}

	var exited <-chan struct{}
	if w, ok := engine.(Waiter); ok {
		exited = w.Done()
	}

	go func() {
		defer close(s.done)
		select {
		case <-exited:
		case <-s.released:
		}
	}()

	return s
}

// Native reports whether the surface plays the source without an engine.
func (s *Session) Native() bool {
	return s.engine == nil
}

// Engine returns the bound engine, nil for native sessions.
func (s *Session) Engine() Engine {
	return s.engine
}

// Done is closed when the engine exits on its own or the session is released.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Released reports whether the engine has been released.
func (s *Session) Released() bool {
	select {
	case <-s.released:
		return true
	default:
		return false
	}
}

// Progress queries the engine's playback position.
func (s *Session) Progress() (Progress, error) {
	o, ok := s.engine.(Observer)
	if !ok || s.Released() {
		return Progress{}, ErrNoProgress
	}
	return o.Progress()
}

// TogglePause pauses or resumes playback.
func (s *Session) TogglePause() error {
	o, ok := s.engine.(Observer)
	if !ok || s.Released() {
		return ErrNoProgress
	}
	return o.TogglePause()
}

// release destroys the engine. Later calls return the first call's result.
func (s *Session) release() error {
	s.once.Do(func() {
		if s.engine != nil {
			s.err = s.engine.Destroy()
		}
		close(s.released)
	})
	<-s.done
	return s.err
}
