package version

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamplay-cli/streamplay/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Given two versions", t, func() {
		Convey("Then newer versions should compare greater", func() {
			So(must(Compare("1.2.3", "1.2.2")), ShouldEqual, 1)
			So(must(Compare("v2.0.0", "1.9.9")), ShouldEqual, 1)
		})

		Convey("Then older versions should compare lower", func() {
			So(must(Compare("0.1.0", "0.2.0")), ShouldEqual, -1)
		})

		Convey("Then equal versions should compare equal with or without prefix", func() {
			So(must(Compare("v0.1.0", "0.1.0")), ShouldEqual, 0)
		})

		Convey("Then malformed versions should fail", func() {
			_, err := Compare("latest", "0.1.0")
			So(err, ShouldNotBeNil)
		})
	})
}

func must(n int, err error) int {
	So(err, ShouldBeNil)
	return n
}

func TestLatest(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = w.Write([]byte(`{"tag_name": "v1.4.0"}`))
		}))
		defer srv.Close()

		previous := releasesURL
		releasesURL = srv.URL
		defer func() { releasesURL = previous }()

		So(versionCacher.Set(""), ShouldBeNil)

		Convey("When the latest version is requested twice", func() {
			first, err := Latest()
			So(err, ShouldBeNil)
			second, err := Latest()
			So(err, ShouldBeNil)

			Convey("Then the tag should be returned without prefix and cached", func() {
				So(first, ShouldEqual, "1.4.0")
				So(second, ShouldEqual, "1.4.0")
				So(calls, ShouldEqual, 1)
			})
		})
	})
}
