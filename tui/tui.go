// Package tui provides the interactive stream form.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/streamplay-cli/streamplay/form"
	"github.com/streamplay-cli/streamplay/log"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// URL prefills the input.
	URL string
	// History opens the remembered streams first.
	History bool
	Form    form.Options
}

// Run starts the form and blocks until the user quits. The player is released on exit.
func Run(options *Options) error {
	bubble := newBubble(options)
	defer func() {
		if err := bubble.controller.Close(); err != nil {
			log.Warnf("release player: %v", err)
		}
	}()

	if options.History {
		if err := bubble.loadHistory(); err != nil {
			return err
		}
		bubble.newState(historyState)
	}

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
