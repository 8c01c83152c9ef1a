package player

import (
	"errors"
	"fmt"
	"sync"

	"github.com/streamplay-cli/streamplay/log"
	"github.com/streamplay-cli/streamplay/stream"
)

// ErrNotMounted is returned by SetSource before the adapter has been mounted.
var ErrNotMounted = errors.New("player is not mounted")

// Adapter keeps exactly one engine bound to a surface for its protocol.
// Every engine it creates is released exactly once: on source change, on unmount, or when binding fails.
type Adapter struct {
	strategy Strategy

	mu      sync.Mutex
	surface Surface
	session *Session
}

// NewAdapter wraps strategy in the common engine lifecycle.
func NewAdapter(strategy Strategy) *Adapter {
	return &Adapter{strategy: strategy}
}

// Protocol is the protocol the adapter plays.
func (a *Adapter) Protocol() stream.Protocol {
	return a.strategy.Protocol()
}

// Mount binds src to surface. A nil surface is logged and ignored.
func (a *Adapter) Mount(surface Surface, src string) (*Session, error) {
	if surface == nil {
		log.Warnf("%s player: no rendering surface, nothing mounted", a.Protocol().Label())
		return nil, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.surface = surface
	return a.bind(src)
}

// SetSource replaces the playing source. The previous engine is released before the new one is created.
func (a *Adapter) SetSource(src string) (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.surface == nil {
		return nil, ErrNotMounted
	}
	return a.bind(src)
}

// Unmount releases the engine and detaches the surface.
func (a *Adapter) Unmount() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.releaseLocked()
	a.surface = nil
	return err
}

// Session returns the current session, or nil.
func (a *Adapter) Session() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Mounted reports whether a surface is attached.
func (a *Adapter) Mounted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.surface != nil
}

// Release releases s if it is still the adapter's current session, e.g. after the engine exited.
func (a *Adapter) Release(s *Session) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s == nil || a.session != s {
		return nil
	}
	return a.releaseLocked()
}

func (a *Adapter) bind(src string) (*Session, error) {
	if err := a.releaseLocked(); err != nil {
		log.Warnf("%s player: release previous engine: %v", a.Protocol().Label(), err)
	}

	engine, err := a.strategy.Bind(a.surface, src)
	if err != nil {
		if engine != nil {
			if derr := engine.Destroy(); derr != nil {
				log.Warnf("%s player: release engine after failed bind: %v", a.Protocol().Label(), derr)
			}
		}
		log.Errorf("%s player: bind %s: %v", a.Protocol().Label(), src, err)
		return nil, fmt.Errorf("%s player: %w", a.Protocol().Label(), err)
	}

	a.session = newSession(a.Protocol(), src, engine)
	log.WithFields(log.Fields{
		"session":  a.session.ID,
		"protocol": a.Protocol(),
		"native":   a.session.Native(),
	}).Infof("playing %s", src)

	return a.session, nil
}

func (a *Adapter) releaseLocked() error {
	if a.session == nil {
		return nil
	}

	s := a.session
	a.session = nil

	log.WithFields(log.Fields{"session": s.ID, "protocol": s.Protocol}).Infof("releasing engine")
	return s.release()
}
