package open

import (
	"runtime"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamplay-cli/streamplay/constant"
)

func TestCommand(t *testing.T) {
	Convey("Given a URL to open", t, func() {
		const url = "http://localhost:8095/video/dash/001/manifest.mpd"

		Convey("When building the command for a named application", func() {
			cmd, err := Command(url, "vlc")

			Convey("Then the URL should be the last argument", func() {
				if runtime.GOOS != constant.Linux && runtime.GOOS != constant.Darwin {
					SkipSo(err, ShouldBeNil)
					return
				}
				So(err, ShouldBeNil)
				So(cmd.Args[len(cmd.Args)-1], ShouldEqual, url)
				So(cmd.Args, ShouldContain, "vlc")
			})
		})

		Convey("When building the command for the default handler", func() {
			cmd, err := Command(url, "")

			Convey("Then no application should be named", func() {
				if runtime.GOOS != constant.Linux {
					SkipSo(err, ShouldBeNil)
					return
				}
				So(err, ShouldBeNil)
				So(cmd.Args, ShouldResemble, []string{"xdg-open", url})
			})
		})
	})
}
