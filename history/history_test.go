package history

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/filesystem"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/stream"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.HistoryShowSuggestions, true)
}

func played(p stream.Protocol, url string) stream.Result {
	return stream.Result{Kind: stream.Valid, Request: stream.NewRequest(p, url), ContentType: p.MimeType()}
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)

		clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		now = func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}
		defer func() { now = time.Now }()

		Convey("When remembering streams", func() {
			So(Remember(played(stream.HLS, "http://localhost:8095/video/hls/001/index.m3u8")), ShouldBeNil)
			So(Remember(played(stream.DASH, "http://localhost:8095/video/dash/001/manifest.mpd")), ShouldBeNil)
			So(Remember(played(stream.DASH, "http://localhost:8095/video/dash/001/manifest.mpd")), ShouldBeNil)

			Convey("Then they should be saved once per protocol and URL", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldHaveLength, 2)
				So(saved["dash http://localhost:8095/video/dash/001/manifest.mpd"].Rank, ShouldEqual, 2)
				So(saved["dash http://localhost:8095/video/dash/001/manifest.mpd"].ContentType, ShouldEqual, stream.MimeDASH)
			})

			Convey("Then the list should be ordered by last play", func() {
				entries, err := List()
				So(err, ShouldBeNil)
				So(entries[0].Protocol, ShouldEqual, stream.DASH)
				So(entries[0].String(), ShouldEqual, "[DASH] http://localhost:8095/video/dash/001/manifest.mpd")
				So(entries[1].Request(), ShouldResemble, stream.NewRequest(stream.HLS, "http://localhost:8095/video/hls/001/index.m3u8"))
			})

			Convey("Then suggestions should prefer higher ranks", func() {
				So(SuggestMany("localhost"), ShouldResemble, []string{
					"http://localhost:8095/video/dash/001/manifest.mpd",
					"http://localhost:8095/video/hls/001/index.m3u8",
				})
				So(Suggest("m3u8").MustGet(), ShouldEqual, "http://localhost:8095/video/hls/001/index.m3u8")
				So(Suggest("rtmp://").IsAbsent(), ShouldBeTrue)
			})

			Convey("Then suggestions should follow new plays", func() {
				So(SuggestMany("m3u8"), ShouldResemble, []string{"http://localhost:8095/video/hls/001/index.m3u8"})
				So(Remember(played(stream.HLS, "http://cdn.example.com/hls/live.m3u8")), ShouldBeNil)
				So(SuggestMany("m3u8"), ShouldHaveLength, 2)
				So(SuggestMany("m3u8"), ShouldContain, "http://cdn.example.com/hls/live.m3u8")
			})

			Convey("Then suggestions can be turned off", func() {
				viper.Set(key.HistoryShowSuggestions, false)
				defer viper.Set(key.HistoryShowSuggestions, true)
				So(SuggestMany("localhost"), ShouldBeEmpty)
			})

			Convey("And an entry is removed", func() {
				entries, _ := List()
				So(Remove(entries[0]), ShouldBeNil)

				Convey("Then only the other entry should remain", func() {
					saved, err := Get()
					So(err, ShouldBeNil)
					So(saved, ShouldHaveLength, 1)
				})
			})

			Convey("And the history is cleared", func() {
				So(Clear(), ShouldBeNil)

				Convey("Then nothing should remain", func() {
					saved, err := Get()
					So(err, ShouldBeNil)
					So(saved, ShouldBeEmpty)
				})
			})
		})
	})
}
