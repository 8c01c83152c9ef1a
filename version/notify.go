package version

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/color"
	"github.com/streamplay-cli/streamplay/constant"
	"github.com/streamplay-cli/streamplay/icon"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/style"
	"github.com/streamplay-cli/streamplay/util"
)

// Notify displays a terminal alert if a more recent stable application version is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest()
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/"+Repository+"/releases/tag/v"+version),
	)
}
