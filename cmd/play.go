package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/inline"
	"github.com/streamplay-cli/streamplay/key"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

// playCmd validates and plays a single stream without the form.
var playCmd = &cobra.Command{
	Use:               "play [url]",
	Short:             "Validate and play a stream without the interactive form",
	Long:              "Validate a stream, play it and wait until the player exits. Ctrl+C stops playback and releases the player.",
	Example:           "  streamplay play -p dash http://localhost:8095/video/dash/001/manifest.mpd",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionURLs,
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err := inline.Play(ctx, &inline.PlayOptions{
			Out:      os.Stdout,
			URL:      args[0],
			Protocol: viper.GetString(key.StreamDefaultProtocol),
		})
		handleErr(err)
	},
}
