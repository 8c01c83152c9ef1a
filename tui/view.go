package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/streamplay-cli/streamplay/color"
	"github.com/streamplay-cli/streamplay/form"
	"github.com/streamplay-cli/streamplay/icon"
	"github.com/streamplay-cli/streamplay/stream"
	"github.com/streamplay-cli/streamplay/style"
)

const (
	submitLabel  = "Load Video"
	loadingLabel = "Loading..."
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(style.BorderColor).
			Padding(0, 1)

	errorBoxStyle = panelStyle.
			BorderForeground(style.ErrorColor).
			Foreground(style.ErrorColor)

	buttonStyle         = style.Colored(style.Base, style.AccentColor).Padding(0, 2)
	disabledButtonStyle = style.Colored(style.Subtext, style.Surface).Padding(0, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case formState:
		output = b.viewForm()
	case historyState:
		output = b.viewHistory()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewForm() string {
	snapshot := b.controller.Snapshot()

	lines := []string{
		style.Title("Video Platform Client"),
		"",
		viewProtocols(snapshot.Protocol),
		"",
		style.Bold(fmt.Sprintf("Video URL (%s):", snapshot.Protocol.Label())),
		b.inputC.View(),
	}

	if s, ok := b.suggestion.Get(); ok {
		lines = append(lines, style.Faint(fmt.Sprintf("%s %s", b.keymap.acceptSuggestion.Help().Key, s)))
	}

	lines = append(lines, "", b.viewButton(snapshot))

	if message := b.errorMessage(snapshot); message != "" {
		lines = append(lines, "", errorBoxStyle.Render(b.wrap(message, 4)))
	}

	if snapshot.Session != nil {
		lines = append(lines, "", b.viewPlayer(snapshot))
	}

	return b.renderLines(true, lines)
}

func viewProtocols(selected stream.Protocol) string {
	var options []string
	for _, p := range stream.Protocols {
		mark, render := icon.Get(icon.Radio), style.Fg(style.Subtext)
		if p == selected {
			mark, render = icon.Get(icon.RadioSelected), style.Fg(style.AccentColor)
		}
		options = append(options, render(mark+" "+p.Title()))
	}
	return strings.Join(options, "   ")
}

func (b *statefulBubble) viewButton(snapshot form.State) string {
	if snapshot.Loading {
		return disabledButtonStyle.Render(loadingLabel) + " " + b.spinnerC.View()
	}
	if !snapshot.CanSubmit {
		return disabledButtonStyle.Render(submitLabel)
	}
	return buttonStyle.Render(submitLabel)
}

// errorMessage prefers the validation error over a playback failure.
func (b *statefulBubble) errorMessage(snapshot form.State) string {
	if snapshot.Error != "" {
		return snapshot.Error
	}
	if b.playerError != nil {
		return b.playerError.Error()
	}
	return ""
}

func (b *statefulBubble) viewPlayer(snapshot form.State) string {
	session := snapshot.Session

	lines := []string{
		style.Bold(form.PlayerTitle(session.Protocol)),
		fmt.Sprintf("%s %s", icon.Get(icon.Play), style.Fg(color.Purple)(session.Source)),
	}

	switch p, ok := b.progress.Get(); {
	case session.Native():
		lines = append(lines, style.Faint("Playing in the native application"))
	case ok:
		status := fmt.Sprintf("%s / %s", clock(p.Position), clock(p.Duration))
		if p.Paused {
			status += " " + style.Fg(style.WarningColor)("paused")
		}
		lines = append(lines, b.progressC.ViewAs(p.Percent()/100)+" "+status)
	default:
		lines = append(lines, style.Faint(icon.Get(icon.Progress)+" waiting for player"))
	}

	if m, ok := b.manifest.Get(); ok {
		lines = append(lines, style.Faint(m.Summary()))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func clock(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func (b *statefulBubble) viewHistory() string {
	return listExtraPaddingStyle.Render(b.historyC.View())
}

func (b *statefulBubble) viewError() string {
	errorMsg := b.wrap(style.Fg(style.ErrorColor)(b.lastError.Error()), 0)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

// wrap fits s into the terminal width minus margin. Unknown widths leave s as is.
func (b *statefulBubble) wrap(s string, margin int) string {
	if b.width-margin <= 0 {
		return s
	}
	return wrap.String(s, b.width-margin)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	if addHelp {
		if h := lipgloss.Height(l); b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
