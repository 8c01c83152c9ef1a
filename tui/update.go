package tui

import (
	"errors"
	"fmt"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/streamplay-cli/streamplay/form"
	"github.com/streamplay-cli/streamplay/history"
	"github.com/streamplay-cli/streamplay/internal/ui"
	"github.com/streamplay-cli/streamplay/log"
	"github.com/streamplay-cli/streamplay/player"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	notifyCmd := b.notifier.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	case validatedMsg:
		return b, tea.Batch(notifyCmd, b.onValidated(msg))
	case sessionDoneMsg:
		return b, tea.Batch(notifyCmd, b.onSessionDone(msg))
	case progressMsg:
		return b, b.onProgress(msg)
	case manifestMsg:
		if b.current(msg.session) && msg.err == nil {
			b.manifest = mo.Some(msg.manifest)
		}
		return b, notifyCmd
	case spinner.TickMsg:
		if !b.controller.Snapshot().Loading {
			return b, notifyCmd
		}
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, tea.Batch(notifyCmd, cmd)
	case error:
		b.raiseError(msg)
		return b, notifyCmd
	}

	var cmd tea.Cmd
	switch b.state {
	case formState:
		cmd = b.updateForm(msg)
	case historyState:
		cmd = b.updateHistory(msg)
	case errorState:
		cmd = b.updateError(msg)
	}

	b.syncKeymap()
	return b, tea.Batch(notifyCmd, cmd)
}

func (b *statefulBubble) updateForm(msg tea.Msg) tea.Cmd {
	snapshot := b.syncKeymap()

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		b.inputC, cmd = b.inputC.Update(msg)
		return cmd
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.toggleProtocol):
		next := snapshot.Protocol.Next()
		if err := b.controller.SelectProtocol(next); err != nil {
			log.Warnf("stop player: %v", err)
		}
		b.setProtocol(next)
		return nil
	case bubblesKey.Matches(keyMsg, b.keymap.submit):
		return b.submit()
	case bubblesKey.Matches(keyMsg, b.keymap.stop):
		if snapshot.Session == nil {
			return nil
		}
		b.resetPlayback()
		if err := b.controller.Stop(); err != nil {
			log.Warnf("stop player: %v", err)
			return ui.Notify(err.Error())
		}
		return ui.Notify("Stopped")
	case bubblesKey.Matches(keyMsg, b.keymap.pause):
		if err := b.controller.TogglePause(); err != nil {
			return ui.Notify("Pause is not available for this player")
		}
		return nil
	case bubblesKey.Matches(keyMsg, b.keymap.openHistory):
		if err := b.loadHistory(); err != nil {
			b.raiseError(err)
			return nil
		}
		b.newState(historyState)
		return nil
	case bubblesKey.Matches(keyMsg, b.keymap.acceptSuggestion):
		if s, ok := b.suggestion.Get(); ok {
			b.inputC.SetValue(s)
			b.inputC.CursorEnd()
			b.setURL(s)
		}
		return nil
	}

	// the input is disabled while loading
	if snapshot.Loading {
		return nil
	}

	var cmd tea.Cmd
	before := b.inputC.Value()
	b.inputC, cmd = b.inputC.Update(msg)
	if b.inputC.Value() != before {
		b.setURL(b.inputC.Value())
	}
	return cmd
}

func (b *statefulBubble) submit() tea.Cmd {
	if !b.controller.CanSubmit() {
		return nil
	}

	ticket, err := b.controller.Submit()
	if err != nil {
		log.Debugf("submit: %v", err)
		return nil
	}

	b.suggestion = mo.None[string]()
	b.playerError = nil
	return tea.Batch(b.spinnerC.Tick, b.process(ticket))
}

func (b *statefulBubble) onValidated(msg validatedMsg) tea.Cmd {
	switch {
	case errors.Is(msg.err, form.ErrStale):
		return nil
	case msg.err != nil:
		b.playerError = msg.err
		return nil
	case !msg.result.OK():
		b.resetPlayback()
		return nil
	}

	session := b.controller.Snapshot().Session
	if session == nil {
		return nil
	}

	b.resetPlayback()
	return tea.Batch(
		waitForSession(session),
		pollProgress(session),
		inspect(session),
		ui.Notify(fmt.Sprintf("Playing %s", session.Protocol.Label())),
	)
}

func (b *statefulBubble) onSessionDone(msg sessionDoneMsg) tea.Cmd {
	if !b.current(msg.session) {
		return nil
	}

	if err := b.controller.Released(msg.session); err != nil {
		log.Warnf("release player: %v", err)
	}
	b.resetPlayback()
	return ui.Notify("Player exited")
}

func (b *statefulBubble) onProgress(msg progressMsg) tea.Cmd {
	if !b.current(msg.session) {
		return nil
	}

	switch {
	case errors.Is(msg.err, player.ErrNoProgress):
		return nil
	case msg.err != nil:
		// the engine may still be starting
		log.Debugf("progress: %v", msg.err)
	default:
		b.progress = mo.Some(msg.progress)
	}
	return pollProgress(msg.session)
}

func (b *statefulBubble) updateHistory(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && b.historyC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(keyMsg, b.keymap.back):
			b.historyC.ResetSelected()
			b.previousState()
			return nil
		case bubblesKey.Matches(keyMsg, b.keymap.confirm):
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			return b.replay(item.entry)
		case bubblesKey.Matches(keyMsg, b.keymap.remove):
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			if err := history.Remove(item.entry); err != nil {
				b.raiseError(err)
				return nil
			}
			b.historyC.RemoveItem(b.historyC.Index())
			return b.historyC.NewStatusMessage("Removed " + item.entry.URL)
		}
	}

	var cmd tea.Cmd
	b.historyC, cmd = b.historyC.Update(msg)
	return cmd
}

// replay fills the form with a remembered stream and submits it.
func (b *statefulBubble) replay(entry *history.Entry) tea.Cmd {
	if b.controller.Protocol() != entry.Protocol {
		if err := b.controller.SelectProtocol(entry.Protocol); err != nil {
			log.Warnf("stop player: %v", err)
		}
		b.setProtocol(entry.Protocol)
	}

	b.inputC.SetValue(entry.URL)
	b.inputC.CursorEnd()
	b.setURL(entry.URL)

	b.previousState()
	return b.submit()
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(keyMsg, b.keymap.back):
			b.lastError = nil
			b.previousState()
		case bubblesKey.Matches(keyMsg, b.keymap.quit):
			return tea.Quit
		}
	}
	return nil
}
