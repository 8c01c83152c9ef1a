// Package form holds the stream form state and decides which player is mounted.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/log"
	"github.com/streamplay-cli/streamplay/network"
	"github.com/streamplay-cli/streamplay/player"
	"github.com/streamplay-cli/streamplay/stream"
)

var (
	// ErrBusy is returned by Submit while a validation is in flight.
	ErrBusy = errors.New("validation already in progress")

	// ErrStale is returned by Process when newer input superseded the ticket.
	ErrStale = errors.New("validation superseded by newer input")
)

// Validator checks a stream before it is played.
type Validator interface {
	Validate(ctx context.Context, req stream.Request) stream.Result
}

// Options configures a Controller. Zero fields get production defaults.
type Options struct {
	Protocol  stream.Protocol
	Validator Validator
	// Adapter builds the player for a protocol.
	Adapter func(p stream.Protocol) (*player.Adapter, error)
	// Surface builds the rendering target for a protocol.
	Surface func(p stream.Protocol) player.Surface
	// OnPlay is called after a validated stream starts playing.
	OnPlay func(result stream.Result, session *player.Session)
}

// State is a point-in-time copy of the form.
type State struct {
	Protocol    stream.Protocol
	URL         string
	Placeholder string
	Loading     bool
	Error       string
	CanSubmit   bool
	Player      mo.Option[stream.Protocol]
	Session     *player.Session
}

// Ticket identifies one submission. Only the newest ticket may change the form.
type Ticket struct {
	Generation uint64
	Request    stream.Request

	ctx    context.Context
	cancel context.CancelFunc
}

// Controller owns the form state and the mounted player.
type Controller struct {
	opts Options

	mu         sync.Mutex
	protocol   stream.Protocol
	url        string
	loading    bool
	err        string
	generation uint64
	cancel     context.CancelFunc
	mounted    mo.Option[stream.Protocol]
	session    *player.Session

	// playerMu serialises engine operations, which may block for seconds.
	playerMu sync.Mutex
	adapter  *player.Adapter
}

// New builds a Controller.
func New(opts Options) *Controller {
	if opts.Protocol == "" {
		opts.Protocol = DefaultProtocol()
	}
	if opts.Validator == nil {
		opts.Validator = stream.NewValidator(network.Client)
	}
	if opts.Adapter == nil {
		opts.Adapter = func(p stream.Protocol) (*player.Adapter, error) {
			strategy, err := player.StrategyFor(p)
			if err != nil {
				return nil, err
			}
			return player.NewAdapter(strategy), nil
		}
	}
	if opts.Surface == nil {
		opts.Surface = func(p stream.Protocol) player.Surface {
			return player.NewWindow(PlayerTitle(p))
		}
	}

	return &Controller{
		opts:     opts,
		protocol: opts.Protocol,
	}
}

// DefaultProtocol is the configured initial protocol, HLS when unset or invalid.
func DefaultProtocol() stream.Protocol {
	p, err := stream.ParseProtocol(viper.GetString(key.StreamDefaultProtocol))
	if err != nil {
		return stream.HLS
	}
	return p
}

// PlayerTitle is the heading of the player for p.
func PlayerTitle(p stream.Protocol) string {
	return fmt.Sprintf("%s Player", p.Label())
}

// SetURL replaces the URL text. Any in-flight validation becomes stale.
func (c *Controller) SetURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if url == c.url {
		return
	}
	c.url = url
	c.invalidateLocked()
}

// SelectProtocol switches the protocol, clears the error and unmounts any player.
func (c *Controller) SelectProtocol(p stream.Protocol) error {
	c.mu.Lock()
	c.protocol = p
	c.err = ""
	c.invalidateLocked()
	c.mu.Unlock()

	return c.Stop()
}

// Protocol is the selected protocol.
func (c *Controller) Protocol() stream.Protocol {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.protocol
}

// Placeholder is the example URL for the selected protocol.
func (c *Controller) Placeholder() string {
	return c.Protocol().Placeholder()
}

// CanSubmit is false while validating or when the URL is empty.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

func (c *Controller) canSubmitLocked() bool {
	return !c.loading && stream.NewRequest(c.protocol, c.url).Validate() == nil
}

// Submit unmounts any player, starts a validation and returns its ticket.
func (c *Controller) Submit() (Ticket, error) {
	if _, err := c.submittable(); err != nil {
		return Ticket{}, err
	}

	if err := c.Stop(); err != nil {
		log.Warnf("stop player: %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	req, err := c.submittableLocked()
	if err != nil {
		return Ticket{}, err
	}

	c.invalidateLocked()
	ctx, cancel := context.WithTimeout(context.Background(), network.Timeout())
	c.cancel = cancel
	c.loading = true
	c.err = ""

	return Ticket{
		Generation: c.generation,
		Request:    req,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

func (c *Controller) submittable() (stream.Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submittableLocked()
}

func (c *Controller) submittableLocked() (stream.Request, error) {
	if c.loading {
		return stream.Request{}, ErrBusy
	}

	req := stream.NewRequest(c.protocol, c.url)
	if err := req.Validate(); err != nil {
		return stream.Request{}, err
	}
	return req, nil
}

// Process validates the ticket's request and applies the outcome if the ticket is still current.
// A stale ticket returns ErrStale and leaves the form untouched.
func (c *Controller) Process(ctx context.Context, t Ticket) (stream.Result, error) {
	if t.ctx == nil {
		return stream.Result{}, errors.New("form: ticket was not issued by Submit")
	}
	defer t.cancel()

	vctx, cancel := context.WithCancel(t.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	result := c.opts.Validator.Validate(vctx, t.Request)

	c.mu.Lock()
	if !c.currentLocked(t) {
		c.mu.Unlock()
		log.Debugf("dropping stale validation of %s", t.Request)
		return result, ErrStale
	}
	c.loading = false
	c.cancel = nil
	if !result.OK() {
		c.err = result.Message()
	}
	c.mu.Unlock()

	if !result.OK() {
		log.Infof("rejected %s: %s", t.Request, result.Message())
		return result, c.stopIfCurrent(t)
	}

	session, err := c.play(t)
	if err != nil {
		return result, err
	}

	if c.opts.OnPlay != nil {
		c.opts.OnPlay(result, session)
	}
	return result, nil
}

// play mounts the adapter for the ticket's protocol.
func (c *Controller) play(t Ticket) (*player.Session, error) {
	c.playerMu.Lock()
	defer c.playerMu.Unlock()

	if !c.current(t) {
		return nil, ErrStale
	}

	p, src := t.Request.Protocol, t.Request.URL

	if err := c.unmountLocked(); err != nil {
		log.Warnf("stop player: %v", err)
	}

	var session *player.Session
	adapter, err := c.opts.Adapter(p)
	if err == nil {
		c.adapter = adapter
		session, err = adapter.Mount(c.opts.Surface(p), src)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.err = err.Error()
		c.mounted = mo.None[stream.Protocol]()
		c.session = nil
		return nil, err
	}

	if session == nil {
		// no surface, nothing to show
		c.mounted = mo.None[stream.Protocol]()
		c.session = nil
		return nil, nil
	}

	c.mounted = mo.Some(p)
	c.session = session
	return session, nil
}

// Stop unmounts the player, if any.
func (c *Controller) Stop() error {
	c.playerMu.Lock()
	defer c.playerMu.Unlock()
	return c.unmountLocked()
}

func (c *Controller) stopIfCurrent(t Ticket) error {
	c.playerMu.Lock()
	defer c.playerMu.Unlock()

	if !c.current(t) {
		return nil
	}
	return c.unmountLocked()
}

// Released forgets s after its engine exited on its own.
func (c *Controller) Released(s *player.Session) error {
	c.playerMu.Lock()
	defer c.playerMu.Unlock()

	if c.adapter == nil || s == nil {
		return nil
	}
	if err := c.adapter.Release(s); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == s {
		c.session = nil
		c.mounted = mo.None[stream.Protocol]()
	}
	return nil
}

// TogglePause pauses or resumes the playing session.
func (c *Controller) TogglePause() error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	if s == nil {
		return player.ErrNoProgress
	}
	return s.TogglePause()
}

// Close cancels any validation and releases the player.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.invalidateLocked()
	c.mu.Unlock()
	return c.Stop()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Protocol:    c.protocol,
		URL:         c.url,
		Placeholder: c.protocol.Placeholder(),
		Loading:     c.loading,
		Error:       c.err,
		CanSubmit:   c.canSubmitLocked(),
		Player:      c.mounted,
		Session:     c.session,
	}
}

func (c *Controller) unmountLocked() error {
	var err error
	if c.adapter != nil {
		err = c.adapter.Unmount()
		c.adapter = nil
	}

	c.mu.Lock()
	c.mounted = mo.None[stream.Protocol]()
	c.session = nil
	c.mu.Unlock()

	return err
}

func (c *Controller) invalidateLocked() {
	c.generation++
	c.loading = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) current(t Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked(t)
}

func (c *Controller) currentLocked(t Ticket) bool {
	return t.Generation == c.generation
}
