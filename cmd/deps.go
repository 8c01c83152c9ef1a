package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/constant"
	"github.com/streamplay-cli/streamplay/icon"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/log"
	"github.com/streamplay-cli/streamplay/player"
	"github.com/streamplay-cli/streamplay/style"
)

// CheckDependencies exits when the configured playback engine is not installed
// and no native application can take over HLS playback.
func CheckDependencies() {
	engine := viper.GetString(key.PlayerEngine)
	if player.Available(engine) {
		return
	}

	if native := strings.TrimSpace(viper.GetString(key.PlayerNative)); native != "" {
		log.Warnf("engine %s not found, HLS falls back to %s", engine, native)
		return
	}

	printMissingDependencyError(engine)
	os.Exit(1)
}

func installCommand(engine string) string {
	switch runtime.GOOS {
	case constant.Darwin:
		if engine == "iina" {
			return "brew install --cask iina"
		}
		return "brew install " + engine
	case constant.Linux:
		return "sudo apt install " + engine
	case constant.Windows:
		return "scoop install " + engine
	default:
		return ""
	}
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The playback engine '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd := installCommand(dep); installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
