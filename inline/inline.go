// Package inline runs stream checks and playback without the interactive form.
package inline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/streamplay-cli/streamplay/form"
	"github.com/streamplay-cli/streamplay/icon"
	"github.com/streamplay-cli/streamplay/log"
	"github.com/streamplay-cli/streamplay/network"
	"github.com/streamplay-cli/streamplay/stream"
	"github.com/streamplay-cli/streamplay/style"
	"golang.org/x/sync/errgroup"
)

// ErrInvalid is returned when at least one checked stream was rejected.
var ErrInvalid = errors.New("one or more streams are not playable")

// Check validates every URL and writes a report.
func Check(ctx context.Context, options *Options) (*Output, error) {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Validator == nil {
		options.Validator = stream.NewValidator(network.Client)
	}
	if options.Client == nil {
		options.Client = network.Client
	}
	if options.Parallel <= 0 {
		options.Parallel = 4
	}
	if len(options.URLs) == 0 {
		return nil, stream.ErrEmptyURL
	}

	protocol := form.DefaultProtocol()
	if options.Protocol != "" {
		p, err := stream.ParseProtocol(options.Protocol)
		if err != nil {
			return nil, err
		}
		protocol = p
	}

	output := &Output{
		Protocol: protocol,
		Results:  make([]*Item, len(options.URLs)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(options.Parallel)

	for i, url := range options.URLs {
		i, url := i, url
		g.Go(func() error {
			output.Results[i] = check(ctx, options, stream.NewRequest(protocol, url))
			return nil
		})
	}
	_ = g.Wait()

	if options.Json {
		if err := writeJson(options.Out, output); err != nil {
			return output, err
		}
	} else {
		for _, item := range output.Results {
			fmt.Fprintln(options.Out, describe(item))
		}
	}

	if lo.SomeBy(output.Results, func(item *Item) bool { return !item.OK }) {
		return output, ErrInvalid
	}
	return output, nil
}

func check(ctx context.Context, options *Options, req stream.Request) *Item {
	result := options.Validator.Validate(ctx, req)
	item := &Item{
		Result:  result,
		OK:      result.OK(),
		Message: result.Message(),
	}

	if !item.OK || !options.Inspect {
		return item
	}

	manifest, err := stream.InspectCached(ctx, options.Client, req)
	if err != nil {
		log.Warnf("inspect %s: %v", req, err)
		item.InspectError = err.Error()
		return item
	}
	item.Manifest = &manifest
	return item
}

func describe(item *Item) string {
	url := item.Result.Request.URL
	if !item.OK {
		return fmt.Sprintf("%s %s %s", icon.Get(icon.Fail), url, style.Fg(style.ErrorColor)(item.Message))
	}

	line := fmt.Sprintf("%s %s %s", icon.Get(icon.Success), url, style.Faint(item.Result.ContentType))
	switch {
	case item.Manifest != nil:
		line += "\n  " + item.Manifest.Summary()
	case item.InspectError != "":
		line += "\n  " + style.Fg(style.WarningColor)("inspect: "+item.InspectError)
	}
	return line
}
