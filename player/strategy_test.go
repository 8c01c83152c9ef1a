package player

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/stream"
)

func TestStrategyFor(t *testing.T) {
	Convey("Given the mpv engine is configured", t, func() {
		viper.Set(key.PlayerEngine, "mpv")
		viper.Set(key.PlayerAutoplay, false)
		defer viper.Set(key.PlayerAutoplay, true)

		Convey("Then HLS should get the engine-first strategy", func() {
			s, err := StrategyFor(stream.HLS)
			So(err, ShouldBeNil)
			So(s.Protocol(), ShouldEqual, stream.HLS)
			So(s, ShouldHaveSameTypeAs, HLSStrategy{})
		})

		Convey("Then DASH should honour the autoplay option", func() {
			s, err := StrategyFor(stream.DASH)
			So(err, ShouldBeNil)
			So(s.(DASHStrategy).Autoplay, ShouldBeFalse)
		})

		Convey("Then unknown protocols should fail", func() {
			_, err := StrategyFor(stream.Protocol("smooth"))
			So(errors.Is(err, stream.ErrUnknownProtocol), ShouldBeTrue)
		})
	})

	Convey("Given an unknown engine", t, func() {
		viper.Set(key.PlayerEngine, "vlc")
		defer viper.Set(key.PlayerEngine, "mpv")

		Convey("Then no strategy should be built", func() {
			_, err := StrategyFor(stream.HLS)
			So(err, ShouldNotBeNil)
			So(Available("vlc"), ShouldBeFalse)
		})
	})

	Convey("Engines should be listed by name", t, func() {
		So(Engines(), ShouldResemble, []string{"iina", "mpv"})
	})
}

func TestWindow(t *testing.T) {
	Convey("Given a window", t, func() {
		var launched []string
		w := &Window{title: "HLS Player", launch: func(src, app string) error {
			launched = append(launched, app+" "+src)
			return nil
		}}

		Convey("When no native application is configured", func() {
			Convey("Then it should not play anything itself", func() {
				So(w.CanPlayType(stream.MimeHLS), ShouldBeFalse)
			})
		})

		Convey("When a native application is configured", func() {
			w.native = "vlc"

			Convey("Then it should accept stream types", func() {
				So(w.CanPlayType(stream.MimeHLS), ShouldBeTrue)
				So(w.CanPlayType("Application/Dash+XML"), ShouldBeTrue)
				So(w.CanPlayType("text/html"), ShouldBeFalse)
			})

			Convey("Then setting a source should launch the application", func() {
				So(w.SetSource("http://a/index.m3u8"), ShouldBeNil)
				So(launched, ShouldResemble, []string{"vlc http://a/index.m3u8"})
			})
		})
	})
}
