// Package cmd implements the command-line interface for streamplay.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/color"
	"github.com/streamplay-cli/streamplay/constant"
	"github.com/streamplay-cli/streamplay/history"
	"github.com/streamplay-cli/streamplay/icon"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/log"
	"github.com/streamplay-cli/streamplay/player"
	"github.com/streamplay-cli/streamplay/stream"
	"github.com/streamplay-cli/streamplay/style"
	"github.com/streamplay-cli/streamplay/tui"
	"github.com/streamplay-cli/streamplay/version"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember streams that played")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnPlay, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().StringP("engine", "e", "", "Playback engine to bind the player to")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("engine", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Engines(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerEngine, rootCmd.PersistentFlags().Lookup("engine")))

	rootCmd.PersistentFlags().StringP("protocol", "p", "", "Streaming protocol to start with (hls or dash)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("protocol", completionProtocols))
	lo.Must0(viper.BindPFlag(key.StreamDefaultProtocol, rootCmd.PersistentFlags().Lookup("protocol")))

	rootCmd.Flags().StringP("url", "u", "", "Prefill the video URL")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("url", completionURLs))
	rootCmd.Flags().BoolP("continue", "c", false, "Open the remembered streams first")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd opens the interactive stream form.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Validate and play HLS and MPEG-DASH streams from the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Validate and play HLS and MPEG-DASH streams from the terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		options := tui.Options{
			URL:     lo.Must(cmd.Flags().GetString("url")),
			History: lo.Must(cmd.Flags().GetBool("continue")),
		}
		handleErr(tui.Run(&options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

func completionProtocols(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(stream.Protocols, func(p stream.Protocol, _ int) string {
		return string(p)
	}), cobra.ShellCompDirectiveNoFileComp
}

func completionURLs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return history.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
}
