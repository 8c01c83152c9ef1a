package form

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamplay-cli/streamplay/player"
	"github.com/streamplay-cli/streamplay/stream"
	"go.uber.org/goleak"
)

// engines counts created and released fake engines.
type engines struct {
	mu       sync.Mutex
	created  int
	released map[int]int
}

func (e *engines) next() *fakeEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created++
	if e.released == nil {
		e.released = map[int]int{}
	}
	return &fakeEngine{id: e.created, owner: e}
}

func (e *engines) counts() (created int, released map[int]int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int]int, len(e.released))
	for k, v := range e.released {
		out[k] = v
	}
	return e.created, out
}

type fakeEngine struct {
	id    int
	owner *engines
}

func (f *fakeEngine) LoadSource(string) error                       { return nil }
func (f *fakeEngine) AttachMedia(player.Surface) error              { return nil }
func (f *fakeEngine) Initialize(player.Surface, string, bool) error { return nil }

func (f *fakeEngine) Destroy() error {
	f.owner.mu.Lock()
	defer f.owner.mu.Unlock()
	f.owner.released[f.id]++
	return nil
}

type surface struct{}

func (surface) Title() string           { return "test" }
func (surface) Fullscreen() bool        { return false }
func (surface) CanPlayType(string) bool { return false }
func (surface) SetSource(string) error  { return nil }

// gate holds validations until released.
type gate struct {
	inner   Validator
	release chan struct{}
	entered chan struct{}
}

func (g *gate) Validate(ctx context.Context, req stream.Request) stream.Result {
	g.entered <- struct{}{}
	<-g.release
	return g.inner.Validate(ctx, req)
}

func newServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/missing.m3u8", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Video not found", http.StatusNotFound)
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/hls/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", stream.MimeHLS)
		_, _ = w.Write([]byte("#EXTM3U\n"))
	})
	mux.HandleFunc("/dash/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", stream.MimeDASH)
		_, _ = w.Write([]byte("<MPD/>"))
	})
	return httptest.NewServer(mux)
}

func newController(srv *httptest.Server, counter *engines, validator Validator) *Controller {
	if validator == nil {
		validator = stream.NewValidator(srv.Client())
	}
	return New(Options{
		Protocol:  stream.HLS,
		Validator: validator,
		Adapter: func(p stream.Protocol) (*player.Adapter, error) {
			if p == stream.DASH {
				return player.NewAdapter(player.DASHStrategy{
					New: func() player.DASHEngine { return counter.next() },
				}), nil
			}
			return player.NewAdapter(player.HLSStrategy{
				IsSupported: func() bool { return true },
				New:         func() player.HLSEngine { return counter.next() },
			}), nil
		},
		Surface: func(stream.Protocol) player.Surface { return surface{} },
	})
}

func submit(c *Controller, url string) (stream.Result, error) {
	c.SetURL(url)
	ticket, err := c.Submit()
	if err != nil {
		return stream.Result{}, err
	}
	return c.Process(context.Background(), ticket)
}

func TestController(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given a form controller", t, func() {
		srv := newServer()
		defer srv.Close()

		counter := &engines{}
		c := newController(srv, counter, nil)
		defer c.Close()

		Convey("When the URL is empty", func() {
			Convey("Then submitting should be disabled", func() {
				So(c.CanSubmit(), ShouldBeFalse)
				_, err := c.Submit()
				So(errors.Is(err, stream.ErrEmptyURL), ShouldBeTrue)
			})
		})

		Convey("When an HLS URL responds with an error status", func() {
			_, err := submit(c, srv.URL+"/missing.m3u8")

			Convey("Then the status text should be shown and no player mounted", func() {
				So(err, ShouldBeNil)
				state := c.Snapshot()
				So(state.Error, ShouldEqual, "Failed to load video: Not Found")
				So(state.Player.IsAbsent(), ShouldBeTrue)
				So(state.Loading, ShouldBeFalse)
				created, _ := counter.counts()
				So(created, ShouldEqual, 0)
			})
		})

		Convey("When an HLS URL responds with text/html", func() {
			_, _ = submit(c, srv.URL+"/page.html")

			Convey("Then the content type error should be shown", func() {
				So(c.Snapshot().Error, ShouldEqual, "Invalid URL for HLS video")
				So(c.Snapshot().Player.IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("When an HLS URL responds with the HLS MIME type", func() {
			result, err := submit(c, srv.URL+"/hls/index.m3u8")

			Convey("Then the HLS player should be mounted", func() {
				So(err, ShouldBeNil)
				So(result.OK(), ShouldBeTrue)
				state := c.Snapshot()
				So(state.Error, ShouldBeEmpty)
				So(state.Player.OrEmpty(), ShouldEqual, stream.HLS)
				So(state.Session, ShouldNotBeNil)
			})

			Convey("And the form is submitted again", func() {
				c.SetURL(srv.URL + "/hls/other.m3u8")
				ticket, err := c.Submit()
				So(err, ShouldBeNil)

				Convey("Then the player should be released before validation", func() {
					state := c.Snapshot()
					So(state.Loading, ShouldBeTrue)
					So(state.Session, ShouldBeNil)
					So(state.Player.IsAbsent(), ShouldBeTrue)
					_, released := counter.counts()
					So(released, ShouldResemble, map[int]int{1: 1})

					_, err := c.Process(context.Background(), ticket)
					So(err, ShouldBeNil)
					So(c.Snapshot().Session.Source, ShouldEqual, srv.URL+"/hls/other.m3u8")
				})
			})

			Convey("And the protocol is switched to DASH", func() {
				So(c.SelectProtocol(stream.DASH), ShouldBeNil)

				Convey("Then the player should be unmounted and the placeholder updated", func() {
					state := c.Snapshot()
					So(state.Player.IsAbsent(), ShouldBeTrue)
					So(state.Placeholder, ShouldEqual, stream.DASH.Placeholder())
					So(state.Placeholder, ShouldNotEqual, stream.HLS.Placeholder())
					_, released := counter.counts()
					So(released, ShouldResemble, map[int]int{1: 1})
				})

				Convey("And a DASH manifest is submitted", func() {
					_, err := submit(c, srv.URL+"/dash/manifest.mpd")

					Convey("Then the DASH player should be mounted", func() {
						So(err, ShouldBeNil)
						So(c.Snapshot().Player.OrEmpty(), ShouldEqual, stream.DASH)
					})
				})
			})

			Convey("And another URL is played", func() {
				_, err := submit(c, srv.URL+"/hls/other.m3u8")

				Convey("Then exactly the previous engine should be released", func() {
					So(err, ShouldBeNil)
					created, released := counter.counts()
					So(created, ShouldEqual, 2)
					So(released, ShouldResemble, map[int]int{1: 1})
					So(c.Snapshot().Session.Source, ShouldEqual, srv.URL+"/hls/other.m3u8")
				})

				Convey("And the form is closed", func() {
					So(c.Close(), ShouldBeNil)

					Convey("Then every engine should be released exactly once", func() {
						_, released := counter.counts()
						So(released, ShouldResemble, map[int]int{1: 1, 2: 1})
					})
				})
			})

			Convey("And the next URL fails validation", func() {
				_, _ = submit(c, srv.URL+"/page.html")

				Convey("Then the player should be unmounted", func() {
					So(c.Snapshot().Player.IsAbsent(), ShouldBeTrue)
					_, released := counter.counts()
					So(released, ShouldResemble, map[int]int{1: 1})
				})
			})
		})
	})
}

func TestControllerStaleResponses(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given a validation held in flight", t, func() {
		srv := newServer()
		defer srv.Close()

		counter := &engines{}
		g := &gate{
			inner:   stream.NewValidator(srv.Client()),
			release: make(chan struct{}),
			entered: make(chan struct{}, 1),
		}
		c := newController(srv, counter, g)
		defer c.Close()

		c.SetURL(srv.URL + "/hls/index.m3u8")
		ticket, err := c.Submit()
		So(err, ShouldBeNil)

		type outcome struct {
			result stream.Result
			err    error
		}
		done := make(chan outcome, 1)
		go func() {
			result, err := c.Process(context.Background(), ticket)
			done <- outcome{result, err}
		}()
		<-g.entered

		Convey("Then the form should be loading", func() {
			So(c.Snapshot().Loading, ShouldBeTrue)
			So(c.CanSubmit(), ShouldBeFalse)
			_, err := c.Submit()
			So(errors.Is(err, ErrBusy), ShouldBeTrue)
			close(g.release)
			<-done
		})

		Convey("When the URL changes before the response arrives", func() {
			c.SetURL(srv.URL + "/page.html")
			close(g.release)
			out := <-done

			Convey("Then the late response should be dropped", func() {
				So(errors.Is(out.err, ErrStale), ShouldBeTrue)
				state := c.Snapshot()
				So(state.Player.IsAbsent(), ShouldBeTrue)
				So(state.Loading, ShouldBeFalse)
				So(state.Error, ShouldBeEmpty)
				created, _ := counter.counts()
				So(created, ShouldEqual, 0)
			})
		})

		Convey("When the protocol changes before the response arrives", func() {
			So(c.SelectProtocol(stream.DASH), ShouldBeNil)
			close(g.release)
			out := <-done

			Convey("Then no player should be mounted", func() {
				So(errors.Is(out.err, ErrStale), ShouldBeTrue)
				So(c.Snapshot().Player.IsAbsent(), ShouldBeTrue)
				So(c.Snapshot().Protocol, ShouldEqual, stream.DASH)
			})
		})
	})
}

func TestControllerOnPlay(t *testing.T) {
	Convey("Given a controller with a play hook", t, func() {
		srv := newServer()
		defer srv.Close()

		counter := &engines{}
		var played []string
		c := newController(srv, counter, nil)
		c.opts.OnPlay = func(result stream.Result, session *player.Session) {
			played = append(played, result.Request.URL)
		}
		defer c.Close()

		Convey("When a stream plays", func() {
			_, err := submit(c, srv.URL+"/hls/index.m3u8")

			Convey("Then the hook should see it", func() {
				So(err, ShouldBeNil)
				So(played, ShouldResemble, []string{srv.URL + "/hls/index.m3u8"})
			})
		})

		Convey("When a stream is rejected", func() {
			_, _ = submit(c, srv.URL+"/missing.m3u8")

			Convey("Then the hook should not run", func() {
				So(played, ShouldBeEmpty)
			})
		})
	})
}
