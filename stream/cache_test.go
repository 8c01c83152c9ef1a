package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamplay-cli/streamplay/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestInspectCached(t *testing.T) {
	Convey("Given a server counting manifest downloads", t, func() {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", MimeHLS)
			if r.URL.Path == "/live.m3u8" {
				_, _ = w.Write([]byte(strings.TrimSuffix(mediaPlaylist, "#EXT-X-ENDLIST\n")))
				return
			}
			_, _ = w.Write([]byte(mediaPlaylist))
		}))
		defer srv.Close()

		ctx := context.Background()

		Convey("When a VOD playlist is inspected twice", func() {
			first, err := InspectCached(ctx, srv.Client(), NewRequest(HLS, srv.URL+"/vod.m3u8"))
			So(err, ShouldBeNil)
			second, err := InspectCached(ctx, srv.Client(), NewRequest(HLS, srv.URL+"/vod.m3u8"))
			So(err, ShouldBeNil)

			Convey("Then it should be downloaded once", func() {
				So(hits.Load(), ShouldEqual, 1)
				So(second, ShouldResemble, first)
				So(second.Segments, ShouldEqual, 3)
			})
		})

		Convey("When a live playlist is inspected twice", func() {
			_, err := InspectCached(ctx, srv.Client(), NewRequest(HLS, srv.URL+"/live.m3u8"))
			So(err, ShouldBeNil)
			m, err := InspectCached(ctx, srv.Client(), NewRequest(HLS, srv.URL+"/live.m3u8"))
			So(err, ShouldBeNil)

			Convey("Then it should be downloaded every time", func() {
				So(m.Live, ShouldBeTrue)
				So(hits.Load(), ShouldEqual, 2)
			})
		})
	})
}
