package player

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamplay-cli/streamplay/stream"
	"go.uber.org/goleak"
)

var errBind = errors.New("bind failed")

// recorder tracks engine lifecycles across a test.
type recorder struct {
	mu      sync.Mutex
	events  []string
	engines []*fakeEngine
}

func (r *recorder) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) newEngine(failBind bool) *fakeEngine {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := &fakeEngine{
		id:       len(r.engines) + 1,
		rec:      r,
		failBind: failBind,
		quit:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
	r.engines = append(r.engines, e)
	r.events = append(r.events, fmt.Sprintf("create:%d", e.id))
	return e
}

func (r *recorder) destroyCounts() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make([]int, len(r.engines))
	for i, e := range r.engines {
		counts[i] = e.destroyCount()
	}
	return counts
}

type fakeEngine struct {
	id       int
	rec      *recorder
	failBind bool
	source   string
	autoplay bool

	mu        sync.Mutex
	destroyed int
	stopOnce  sync.Once
	quit      chan struct{}
	exited    chan struct{}
}

func (e *fakeEngine) run() {
	go func() {
		<-e.quit
		close(e.exited)
	}()
}

func (e *fakeEngine) stop() {
	e.stopOnce.Do(func() { close(e.quit) })
}

func (e *fakeEngine) LoadSource(src string) error {
	e.source = src
	return nil
}

func (e *fakeEngine) AttachMedia(Surface) error {
	if e.failBind {
		return errBind
	}
	e.run()
	return nil
}

func (e *fakeEngine) Initialize(_ Surface, src string, autoplay bool) error {
	e.source = src
	e.autoplay = autoplay
	if e.failBind {
		return errBind
	}
	e.run()
	return nil
}

func (e *fakeEngine) Done() <-chan struct{} {
	return e.exited
}

func (e *fakeEngine) Progress() (Progress, error) {
	return Progress{Position: 30 * time.Second, Duration: 2 * time.Minute}, nil
}

func (e *fakeEngine) TogglePause() error {
	return nil
}

func (e *fakeEngine) Destroy() error {
	e.mu.Lock()
	e.destroyed++
	e.mu.Unlock()

	e.rec.record(fmt.Sprintf("destroy:%d", e.id))
	e.stop()
	return nil
}

func (e *fakeEngine) destroyCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

type fakeSurface struct {
	native  bool
	sources []string
}

func (s *fakeSurface) Title() string    { return "test" }
func (s *fakeSurface) Fullscreen() bool { return false }

func (s *fakeSurface) CanPlayType(mime string) bool {
	return s.native && mime == stream.MimeHLS
}

func (s *fakeSurface) SetSource(src string) error {
	s.sources = append(s.sources, src)
	return nil
}

func hlsStrategy(rec *recorder, supported bool) HLSStrategy {
	return HLSStrategy{
		IsSupported: func() bool { return supported },
		New:         func() HLSEngine { return rec.newEngine(false) },
	}
}

func TestAdapterHLS(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given an HLS adapter with a supported engine", t, func() {
		rec := &recorder{}
		adapter := NewAdapter(hlsStrategy(rec, true))
		surface := &fakeSurface{}

		Convey("When mounting a source", func() {
			session, err := adapter.Mount(surface, "http://a/index.m3u8")

			Convey("Then one engine should be live", func() {
				So(err, ShouldBeNil)
				So(session, ShouldNotBeNil)
				So(session.Native(), ShouldBeFalse)
				So(session.Protocol, ShouldEqual, stream.HLS)
				So(rec.engines, ShouldHaveLength, 1)
				So(rec.engines[0].source, ShouldEqual, "http://a/index.m3u8")
				So(adapter.Mounted(), ShouldBeTrue)
				So(adapter.Unmount(), ShouldBeNil)
			})

			Convey("And the source changes", func() {
				next, err := adapter.SetSource("http://b/index.m3u8")

				Convey("Then the old engine should be released before the new one is created", func() {
					So(err, ShouldBeNil)
					So(next.ID, ShouldNotEqual, session.ID)
					So(session.Released(), ShouldBeTrue)
					So(rec.events, ShouldResemble, []string{"create:1", "destroy:1", "create:2"})
					So(adapter.Unmount(), ShouldBeNil)
					So(rec.destroyCounts(), ShouldResemble, []int{1, 1})
				})
			})

			Convey("And unmounting twice", func() {
				So(adapter.Unmount(), ShouldBeNil)
				So(adapter.Unmount(), ShouldBeNil)

				Convey("Then the engine should be released exactly once", func() {
					So(rec.destroyCounts(), ShouldResemble, []int{1})
					So(adapter.Session(), ShouldBeNil)
					So(adapter.Mounted(), ShouldBeFalse)
				})
			})

			Convey("And the engine exits on its own", func() {
				rec.engines[0].stop()

				select {
				case <-session.Done():
				case <-time.After(time.Second):
				}

				Convey("Then releasing the finished session should destroy it once", func() {
					So(adapter.Release(session), ShouldBeNil)
					So(adapter.Release(session), ShouldBeNil)
					So(adapter.Session(), ShouldBeNil)
					So(rec.destroyCounts(), ShouldResemble, []int{1})
				})
			})

			Convey("And progress is queried", func() {
				p, err := session.Progress()

				Convey("Then the engine's position should be reported", func() {
					So(err, ShouldBeNil)
					So(p.Percent(), ShouldEqual, 25)
					So(adapter.Unmount(), ShouldBeNil)
				})
			})
		})

		Convey("When a stale session is released after a source change", func() {
			first, _ := adapter.Mount(surface, "http://a/1.m3u8")
			second, _ := adapter.SetSource("http://a/2.m3u8")

			Convey("Then the current session should stay live", func() {
				So(adapter.Release(first), ShouldBeNil)
				So(adapter.Session(), ShouldEqual, second)
				So(second.Released(), ShouldBeFalse)
				So(adapter.Unmount(), ShouldBeNil)
			})
		})

		Convey("When setting a source before mounting", func() {
			_, err := adapter.SetSource("http://a/index.m3u8")

			Convey("Then it should fail", func() {
				So(errors.Is(err, ErrNotMounted), ShouldBeTrue)
				So(rec.engines, ShouldBeEmpty)
			})
		})

		Convey("When mounting without a surface", func() {
			session, err := adapter.Mount(nil, "http://a/index.m3u8")

			Convey("Then nothing should happen", func() {
				So(err, ShouldBeNil)
				So(session, ShouldBeNil)
				So(adapter.Mounted(), ShouldBeFalse)
				So(rec.engines, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an HLS adapter without engine support", t, func() {
		rec := &recorder{}
		adapter := NewAdapter(hlsStrategy(rec, false))

		Convey("When the surface plays HLS natively", func() {
			surface := &fakeSurface{native: true}
			session, err := adapter.Mount(surface, "http://a/index.m3u8")

			Convey("Then the source should be set on the surface", func() {
				So(err, ShouldBeNil)
				So(session.Native(), ShouldBeTrue)
				So(surface.sources, ShouldResemble, []string{"http://a/index.m3u8"})
				So(rec.engines, ShouldBeEmpty)

				_, err = session.Progress()
				So(errors.Is(err, ErrNoProgress), ShouldBeTrue)
				So(adapter.Unmount(), ShouldBeNil)
			})
		})

		Convey("When the surface cannot play HLS either", func() {
			session, err := adapter.Mount(&fakeSurface{}, "http://a/index.m3u8")

			Convey("Then the mount should be unsupported", func() {
				So(errors.Is(err, ErrUnsupported), ShouldBeTrue)
				So(session, ShouldBeNil)
				So(rec.engines, ShouldBeEmpty)
			})
		})
	})
}

func TestAdapterDASH(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given a DASH adapter", t, func() {
		rec := &recorder{}
		fail := false
		adapter := NewAdapter(DASHStrategy{
			New:      func() DASHEngine { return rec.newEngine(fail) },
			Autoplay: true,
		})

		Convey("When mounting a source", func() {
			session, err := adapter.Mount(&fakeSurface{}, "http://a/manifest.mpd")

			Convey("Then the engine should be initialized with autoplay", func() {
				So(err, ShouldBeNil)
				So(session.Protocol, ShouldEqual, stream.DASH)
				So(rec.engines[0].autoplay, ShouldBeTrue)
				So(rec.engines[0].source, ShouldEqual, "http://a/manifest.mpd")
				So(adapter.Unmount(), ShouldBeNil)
				So(rec.destroyCounts(), ShouldResemble, []int{1})
			})
		})

		Convey("When initialization fails", func() {
			fail = true
			session, err := adapter.Mount(&fakeSurface{}, "http://a/manifest.mpd")

			Convey("Then the half-built engine should be released once", func() {
				So(errors.Is(err, errBind), ShouldBeTrue)
				So(session, ShouldBeNil)
				So(adapter.Session(), ShouldBeNil)
				So(rec.destroyCounts(), ShouldResemble, []int{1})
			})
		})
	})
}
