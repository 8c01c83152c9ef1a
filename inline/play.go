package inline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/streamplay-cli/streamplay/form"
	"github.com/streamplay-cli/streamplay/history"
	"github.com/streamplay-cli/streamplay/icon"
	"github.com/streamplay-cli/streamplay/log"
	"github.com/streamplay-cli/streamplay/stream"
	"github.com/streamplay-cli/streamplay/style"
)

// PlayOptions configures a single non-interactive playback.
type PlayOptions struct {
	Out      io.Writer
	URL      string
	Protocol string
	// Form overrides the controller defaults, mostly for tests.
	Form form.Options
}

// Play validates a stream, plays it and blocks until the player exits or ctx is done.
// The player is always released before Play returns.
func Play(ctx context.Context, options *PlayOptions) (stream.Result, error) {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	opts := options.Form
	if options.Protocol != "" {
		protocol, err := stream.ParseProtocol(options.Protocol)
		if err != nil {
			return stream.Result{}, err
		}
		opts.Protocol = protocol
	}

	opts.OnPlay = history.OnPlay(opts.OnPlay)

	controller := form.New(opts)
	defer func() {
		if err := controller.Close(); err != nil {
			log.Warnf("release player: %v", err)
		}
	}()

	controller.SetURL(options.URL)
	ticket, err := controller.Submit()
	if err != nil {
		return stream.Result{}, err
	}

	result, err := controller.Process(ctx, ticket)
	if err != nil {
		return result, err
	}
	if !result.OK() {
		fmt.Fprintf(options.Out, "%s %s\n", icon.Get(icon.Fail), style.Fg(style.ErrorColor)(result.Message()))
		return result, result.Err()
	}

	session := controller.Snapshot().Session
	if session == nil {
		return result, errors.New("player did not start")
	}

	fmt.Fprintf(options.Out, "%s %s %s\n", icon.Get(icon.Play), style.Bold(form.PlayerTitle(session.Protocol)), session.Source)

	select {
	case <-session.Done():
		log.Infof("player for %s exited", session.Source)
	case <-ctx.Done():
		log.Infof("playback of %s interrupted", session.Source)
	}

	fmt.Fprintf(options.Out, "%s %s\n", icon.Get(icon.Stop), session.Source)
	return result, nil
}
