package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/streamplay-cli/streamplay/color"
	"github.com/streamplay-cli/streamplay/history"
	"github.com/streamplay-cli/streamplay/stream"
	"github.com/streamplay-cli/streamplay/style"
	"github.com/streamplay-cli/streamplay/util"
)

// listItem wraps a remembered stream for the history list.
type listItem struct {
	entry *history.Entry
}

func protocolTag(p stream.Protocol) string {
	bg := style.Blue
	if p == stream.DASH {
		bg = style.Peach
	}
	return style.Tag(style.Base, bg)(p.Label())
}

func (t *listItem) Title() string {
	return t.entry.URL
}

func (t *listItem) Description() string {
	return fmt.Sprintf(
		"%s %s %s",
		protocolTag(t.entry.Protocol),
		style.Fg(color.Gray)(util.Quantify(t.entry.Rank, "play", "plays")),
		style.Faint(ago(t.entry.LastPlayed)),
	)
}

func (t *listItem) FilterValue() string {
	return t.entry.URL
}

func ago(at time.Time) string {
	d := time.Since(at)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return util.Quantify(int(d.Minutes()), "minute", "minutes") + " ago"
	case d < 24*time.Hour:
		return util.Quantify(int(d.Hours()), "hour", "hours") + " ago"
	default:
		return at.Format(time.DateOnly)
	}
}

var selectedItemStyle = lipgloss.NewStyle().
	Border(lipgloss.ThickBorder(), false, false, false, true).
	BorderForeground(style.AccentColor).
	Foreground(style.AccentColor).
	Padding(0, 0, 0, 1)
