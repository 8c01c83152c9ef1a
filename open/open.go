// Package open launches URLs and files with the system handler or a named application.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/streamplay-cli/streamplay/constant"
)

// Start opens input with the default handler without waiting for it.
func Start(input string) error {
	return StartWith(input, "")
}

// StartWith opens input with app, or the default handler when app is empty, without waiting for it.
func StartWith(input, app string) error {
	cmd, err := Command(input, app)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command builds the platform command that opens input.
func Command(input, app string) (*exec.Cmd, error) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case constant.Windows:
		if app == "" {
			rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
			cmd = exec.Command(rundll, "url.dll,FileProtocolHandler", input)
		} else {
			// start treats & as a command separator
			cmd = exec.Command("cmd", "/C", "start", "", app, strings.ReplaceAll(input, "&", "^&"))
		}
	case constant.Darwin:
		if app == "" {
			cmd = exec.Command("open", input)
		} else {
			cmd = exec.Command("open", "-a", app, input)
		}
	case constant.Linux:
		if app == "" {
			cmd = exec.Command("xdg-open", input)
		} else {
			cmd = exec.Command(app, input)
		}
	case constant.Android:
		if app == "" {
			cmd = exec.Command("termux-open", input)
		} else {
			cmd = exec.Command("termux-open", "--choose", input)
		}
	default:
		return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return cmd, nil
}
