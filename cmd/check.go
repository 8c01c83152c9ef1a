package cmd

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/filesystem"
	"github.com/streamplay-cli/streamplay/inline"
	"github.com/streamplay-cli/streamplay/key"
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	checkCmd.Flags().BoolP("inspect", "i", false, "Download and summarise the manifest of playable streams")
	checkCmd.Flags().IntP("parallel", "P", 4, "Number of streams validated at once")
	checkCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
}

// checkCmd validates streams without playing them.
var checkCmd = &cobra.Command{
	Use:   "check [url...]",
	Short: "Check whether streams can be played",
	Long: `Run the pre-flight request the player makes before playback.

A stream is playable when it answers with a 2xx status and a content type
matching the protocol. The command exits with status 1 if any stream is not
playable.`,
	Example: `  streamplay check http://localhost:8095/video/hls/001/index.m3u8
  streamplay check -p dash --json http://localhost:8095/video/dash/001/manifest.mpd`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionURLs,
	Run: func(cmd *cobra.Command, args []string) {
		options := &inline.Options{
			Out:      os.Stdout,
			URLs:     args,
			Protocol: viper.GetString(key.StreamDefaultProtocol),
			Json:     lo.Must(cmd.Flags().GetBool("json")),
			Inspect:  lo.Must(cmd.Flags().GetBool("inspect")),
			Parallel: lo.Must(cmd.Flags().GetInt("parallel")),
		}

		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			options.Out = file
		}

		_, err := inline.Check(cmd.Context(), options)
		if errors.Is(err, inline.ErrInvalid) {
			// the report already names the failing streams
			os.Exit(1)
		}
		handleErr(err)
	},
}

func init() {
	checkCmd.AddCommand(checkSchemaCmd)
}

// checkSchemaCmd prints the JSON schema of check --json.
var checkSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema for check output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(json.NewEncoder(os.Stdout).Encode(inline.Schema()))
	},
}
