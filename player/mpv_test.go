package player

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/key"
)

func TestMPV(t *testing.T) {
	Convey("Given an mpv engine with a loaded source", t, func() {
		viper.Set(key.StreamUserAgent, "streamplay/test")
		defer viper.Set(key.StreamUserAgent, "")

		mpv := NewMPV()
		So(mpv.LoadSource("  http://example.com/index.m3u8 "), ShouldBeNil)
		mpv.socketPath = "/tmp/streamplay-test.sock"

		Convey("When building arguments for a fullscreen window with autoplay off", func() {
			args := mpv.args(&Window{title: "HLS\nPlayer", fullscreen: true}, false)

			Convey("Then the window options should be passed", func() {
				So(args, ShouldContain, "--input-ipc-server=/tmp/streamplay-test.sock")
				So(args, ShouldContain, "--title=HLS Player")
				So(args, ShouldContain, "--fs")
				So(args, ShouldContain, "--pause")
				So(args, ShouldContain, "--user-agent=streamplay/test")
			})

			Convey("Then the source should follow the option terminator", func() {
				So(args[len(args)-2], ShouldEqual, "--")
				So(args[len(args)-1], ShouldEqual, "http://example.com/index.m3u8")
			})
		})

		Convey("When building arguments with autoplay on", func() {
			args := mpv.args(&Window{title: "DASH Player"}, true)

			Convey("Then playback should not start paused", func() {
				So(args, ShouldNotContain, "--pause")
				So(args, ShouldNotContain, "--fs")
			})
		})

		Convey("When the engine was never started", func() {
			Convey("Then destroying it should be a no-op", func() {
				So(mpv.Destroy(), ShouldBeNil)
				So(mpv.Running(), ShouldBeFalse)
			})
		})

		Convey("When attaching without a source", func() {
			err := NewMPV().AttachMedia(&Window{})

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("Given media targets", t, func() {
		Convey("Then http and https URLs should pass", func() {
			got, err := sanitizeMediaTarget("https://cdn.example.com/a.mpd")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "https://cdn.example.com/a.mpd")
		})

		Convey("Then local paths should be cleaned", func() {
			got, err := sanitizeMediaTarget("output/hls/../hls/index.m3u8")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "output/hls/index.m3u8")
		})

		Convey("Then option-like and malformed targets should be rejected", func() {
			for _, target := range []string{"", "--script=evil.lua", "http://a/\nb", "file:///etc/passwd", "ftp://host/x.m3u8"} {
				_, err := sanitizeMediaTarget(target)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestSanitizeTitle(t *testing.T) {
	Convey("Given a title with control characters", t, func() {
		Convey("Then they should be replaced", func() {
			So(sanitizeTitle(" a\tb\nc\x00 "), ShouldEqual, "a b c")
		})
	})
}
