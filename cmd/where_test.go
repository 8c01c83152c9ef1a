package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamplay-cli/streamplay/filesystem"
	"github.com/streamplay-cli/streamplay/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestWhere(t *testing.T) {
	Convey("Given the where command", t, func() {
		Convey("Then every target should resolve and have a flag", func() {
			for _, target := range wherePaths {
				So(target.where(), ShouldNotBeEmpty)
				So(whereCmd.Flags().Lookup(target.argLong), ShouldNotBeNil)
			}
		})

		Convey("When asked for the history file", func() {
			var out bytes.Buffer
			whereCmd.SetOut(&out)
			defer whereCmd.SetOut(os.Stdout)

			So(whereCmd.Flags().Set("history", "true"), ShouldBeNil)
			defer func() { _ = whereCmd.Flags().Set("history", "false") }()

			whereCmd.Run(whereCmd, nil)

			Convey("Then only its path should be printed", func() {
				So(strings.TrimSpace(out.String()), ShouldEqual, where.History())
			})
		})
	})
}
