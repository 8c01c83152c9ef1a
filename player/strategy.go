package player

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/constant"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/stream"
)

// Strategy binds a source to a surface for one protocol.
// The returned engine may be nil when the surface plays the source itself.
// On error a non-nil engine is still returned so the caller can release it.
type Strategy interface {
	Protocol() stream.Protocol
	Bind(surface Surface, src string) (Engine, error)
}

// HLSStrategy prefers an engine and falls back to native surface playback.
type HLSStrategy struct {
	IsSupported func() bool
	New         func() HLSEngine
}

func (HLSStrategy) Protocol() stream.Protocol {
	return stream.HLS
}

func (s HLSStrategy) Bind(surface Surface, src string) (Engine, error) {
	if s.New != nil && (s.IsSupported == nil || s.IsSupported()) {
		engine := s.New()
		if err := engine.LoadSource(src); err != nil {
			return engine, fmt.Errorf("load source: %w", err)
		}
		if err := engine.AttachMedia(surface); err != nil {
			return engine, fmt.Errorf("attach media: %w", err)
		}
		return engine, nil
	}

	if surface.CanPlayType(stream.MimeHLS) {
		if err := surface.SetSource(src); err != nil {
			return nil, fmt.Errorf("native playback: %w", err)
		}
		return nil, nil
	}

	return nil, fmt.Errorf("%w for %s", ErrUnsupported, stream.HLS.Label())
}

// DASHStrategy always constructs an engine.
type DASHStrategy struct {
	New      func() DASHEngine
	Autoplay bool
}

func (DASHStrategy) Protocol() stream.Protocol {
	return stream.DASH
}

func (s DASHStrategy) Bind(surface Surface, src string) (Engine, error) {
	engine := s.New()
	if err := engine.Initialize(surface, src, s.Autoplay); err != nil {
		return engine, fmt.Errorf("initialize: %w", err)
	}
	return engine, nil
}

// backend is an installable playback engine.
type backend struct {
	available func() bool
	hls       func() HLSEngine
	dash      func() DASHEngine
}

var backends = map[string]backend{
	"mpv": {
		available: func() bool {
			_, err := exec.LookPath(mpvBinary)
			return err == nil
		},
		hls:  func() HLSEngine { return NewMPV() },
		dash: func() DASHEngine { return NewMPV() },
	},
	"iina": {
		available: func() bool { return runtime.GOOS == constant.Darwin },
		hls:       func() HLSEngine { return NewIINA() },
		dash:      func() DASHEngine { return NewIINA() },
	},
}

// Engines lists the names accepted by the player.engine option.
func Engines() []string {
	names := lo.Keys(backends)
	sort.Strings(names)
	return names
}

// Available reports whether the named engine can run on this machine.
func Available(name string) bool {
	b, ok := backends[name]
	return ok && b.available()
}

// StrategyFor builds the strategy for p using the configured engine.
func StrategyFor(p stream.Protocol) (Strategy, error) {
	name := viper.GetString(key.PlayerEngine)
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown player engine %q, expected one of %v", name, Engines())
	}

	switch p {
	case stream.HLS:
		return HLSStrategy{IsSupported: b.available, New: b.hls}, nil
	case stream.DASH:
		return DASHStrategy{New: b.dash, Autoplay: viper.GetBool(key.PlayerAutoplay)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", stream.ErrUnknownProtocol, p)
	}
}
