package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/form"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/log"
	"github.com/streamplay-cli/streamplay/network"
	"github.com/streamplay-cli/streamplay/player"
	"github.com/streamplay-cli/streamplay/stream"
)

// progressInterval is how often the engine is asked for its position.
const progressInterval = time.Second

type validatedMsg struct {
	ticket form.Ticket
	result stream.Result
	err    error
}

type progressMsg struct {
	session  *player.Session
	progress player.Progress
	err      error
}

type sessionDoneMsg struct {
	session *player.Session
}

type manifestMsg struct {
	session  *player.Session
	manifest stream.Manifest
	err      error
}

// process validates the ticket off the update loop.
func (b *statefulBubble) process(t form.Ticket) tea.Cmd {
	return func() tea.Msg {
		result, err := b.controller.Process(context.Background(), t)
		return validatedMsg{ticket: t, result: result, err: err}
	}
}

// waitForSession reports when the engine exits or the session is released.
func waitForSession(s *player.Session) tea.Cmd {
	return func() tea.Msg {
		<-s.Done()
		return sessionDoneMsg{session: s}
	}
}

func pollProgress(s *player.Session) tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg {
		p, err := s.Progress()
		return progressMsg{session: s, progress: p, err: err}
	})
}

func inspect(s *player.Session) tea.Cmd {
	if !viper.GetBool(key.StreamProbeManifest) {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), network.Timeout())
		defer cancel()

		m, err := stream.InspectCached(ctx, network.Client, stream.NewRequest(s.Protocol, s.Source))
		if err != nil {
			log.Warnf("inspect %s: %v", s.Source, err)
		}
		return manifestMsg{session: s, manifest: m, err: err}
	}
}

// current reports whether s is the mounted session.
func (b *statefulBubble) current(s *player.Session) bool {
	return s != nil && b.controller.Snapshot().Session == s
}
