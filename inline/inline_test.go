package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/filesystem"
	"github.com/streamplay-cli/streamplay/form"
	"github.com/streamplay-cli/streamplay/history"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/player"
	"github.com/streamplay-cli/streamplay/stream"
)

func init() {
	filesystem.SetMemMapFs()
}

const mediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXTINF:10.0,
seg0.ts
#EXTINF:10.0,
seg1.ts
#EXT-X-ENDLIST
`

func newServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/hls/index.m3u8", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", stream.MimeHLS)
		_, _ = w.Write([]byte(mediaPlaylist))
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})
	return httptest.NewServer(mux)
}

func TestCheck(t *testing.T) {
	Convey("Given a server with one playlist", t, func() {
		srv := newServer()
		defer srv.Close()

		var out bytes.Buffer
		options := &Options{
			Out:       &out,
			Protocol:  "hls",
			Validator: stream.NewValidator(srv.Client()),
			Client:    srv.Client(),
		}

		Convey("When checking a valid stream", func() {
			options.URLs = []string{srv.URL + "/hls/index.m3u8"}
			output, err := Check(context.Background(), options)

			Convey("Then it should be reported as playable", func() {
				So(err, ShouldBeNil)
				So(output.Results, ShouldHaveLength, 1)
				So(output.Results[0].OK, ShouldBeTrue)
				So(out.String(), ShouldContainSubstring, srv.URL+"/hls/index.m3u8")
			})
		})

		Convey("When checking a mix of streams", func() {
			options.URLs = []string{srv.URL + "/hls/index.m3u8", srv.URL + "/missing.m3u8", srv.URL + "/page.html"}
			output, err := Check(context.Background(), options)

			Convey("Then results should keep input order and fail the check", func() {
				So(err, ShouldEqual, ErrInvalid)
				So(output.Results[0].OK, ShouldBeTrue)
				So(output.Results[1].Result.Kind, ShouldEqual, stream.InvalidStatus)
				So(output.Results[1].Message, ShouldEqual, "Failed to load video: Not Found")
				So(output.Results[2].Result.Kind, ShouldEqual, stream.InvalidContentType)
				So(output.Results[2].Message, ShouldEqual, "Invalid URL for HLS video")
			})
		})

		Convey("When inspecting with JSON output", func() {
			options.URLs = []string{srv.URL + "/hls/index.m3u8"}
			options.Json = true
			options.Inspect = true
			_, err := Check(context.Background(), options)
			So(err, ShouldBeNil)

			var decoded Output
			So(json.Unmarshal(out.Bytes(), &decoded), ShouldBeNil)

			Convey("Then the manifest summary should be included", func() {
				So(decoded.Protocol, ShouldEqual, stream.HLS)
				So(decoded.Results[0].Result.Kind, ShouldEqual, stream.Valid)
				So(decoded.Results[0].OK, ShouldBeTrue)
				So(decoded.Results[0].Manifest, ShouldNotBeNil)
				So(decoded.Results[0].Manifest.Segments, ShouldEqual, 2)
				So(decoded.Results[0].Manifest.Live, ShouldBeFalse)
			})
		})

		Convey("When the protocol is unknown", func() {
			options.URLs = []string{srv.URL + "/hls/index.m3u8"}
			options.Protocol = "rtmp"
			_, err := Check(context.Background(), options)

			Convey("Then it should be refused", func() {
				So(errors.Is(err, stream.ErrUnknownProtocol), ShouldBeTrue)
			})
		})

		Convey("When no URL is given", func() {
			_, err := Check(context.Background(), options)

			Convey("Then it should be refused", func() {
				So(err, ShouldEqual, stream.ErrEmptyURL)
			})
		})
	})
}

func TestSchema(t *testing.T) {
	Convey("Given the output schema", t, func() {
		schema := Schema()

		Convey("Then it should describe the output document", func() {
			So(schema, ShouldNotBeNil)
			raw, err := json.Marshal(schema)
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, "inline.Output")
			So(string(raw), ShouldContainSubstring, "invalid_content_type")
		})
	})
}

type engine struct {
	destroyed int
}

func (e *engine) LoadSource(string) error          { return nil }
func (e *engine) AttachMedia(player.Surface) error { return nil }
func (e *engine) Destroy() error                   { e.destroyed++; return nil }

type surface struct{}

func (surface) Title() string           { return "test" }
func (surface) Fullscreen() bool        { return false }
func (surface) CanPlayType(string) bool { return false }
func (surface) SetSource(string) error  { return nil }

func TestPlay(t *testing.T) {
	Convey("Given a server and a fake HLS engine", t, func() {
		srv := newServer()
		defer srv.Close()
		So(history.Clear(), ShouldBeNil)
		viper.Set(key.HistorySaveOnPlay, true)

		e := &engine{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var out bytes.Buffer
		options := &PlayOptions{
			Out:      &out,
			Protocol: "hls",
			Form: form.Options{
				Validator: stream.NewValidator(srv.Client()),
				Adapter: func(stream.Protocol) (*player.Adapter, error) {
					return player.NewAdapter(player.HLSStrategy{
						IsSupported: func() bool { return true },
						New:         func() player.HLSEngine { return e },
					}), nil
				},
				Surface: func(stream.Protocol) player.Surface { return surface{} },
				// stop playing as soon as the stream starts
				OnPlay: func(stream.Result, *player.Session) { cancel() },
			},
		}

		Convey("When playing a valid stream", func() {
			options.URL = srv.URL + "/hls/index.m3u8"
			result, err := Play(ctx, options)

			Convey("Then it should play, be remembered and be released", func() {
				So(err, ShouldBeNil)
				So(result.OK(), ShouldBeTrue)
				So(e.destroyed, ShouldEqual, 1)
				So(out.String(), ShouldContainSubstring, "HLS Player")

				entries, err := history.List()
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].URL, ShouldEqual, options.URL)
			})
		})

		Convey("When playing an invalid stream", func() {
			options.URL = srv.URL + "/page.html"
			result, err := Play(ctx, options)

			Convey("Then nothing should play", func() {
				So(result.OK(), ShouldBeFalse)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldEqual, "Invalid URL for HLS video")
				So(e.destroyed, ShouldEqual, 0)
			})
		})
	})
}
