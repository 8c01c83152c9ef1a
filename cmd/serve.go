package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/color"
	"github.com/streamplay-cli/streamplay/icon"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/server"
	"github.com/streamplay-cli/streamplay/style"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "P", 0, "Port to listen on")
	lo.Must0(viper.BindPFlag(key.ServerPort, serveCmd.Flags().Lookup("port")))

	serveCmd.Flags().StringP("root", "r", "", "Directory holding the hls/ and dash/ content")
	lo.Must0(viper.BindPFlag(key.ServerRoot, serveCmd.Flags().Lookup("root")))
	lo.Must0(serveCmd.MarkFlagDirname("root"))

	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
	lo.Must0(viper.BindPFlag(key.ServerMetrics, serveCmd.Flags().Lookup("metrics")))

	serveCmd.Flags().Int("rate-limit", 0, "Requests allowed per client and minute, 0 disables the limit")
	lo.Must0(viper.BindPFlag(key.ServerRateLimit, serveCmd.Flags().Lookup("rate-limit")))
}

// serveCmd runs the local stream file server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve local HLS and MPEG-DASH content",
	Long: `Serve files below the configured root on /video/.

Only .m3u8, .ts, .mpd, .m4s, .mp4 and .webm files are served, each with the
content type players expect.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		options := server.OptionsFromConfig()
		options.AccessLog = os.Stdout
		srv := server.New(options)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf(
			"%s serving %s on %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(viper.GetString(key.ServerRoot)),
			style.Fg(color.Yellow)("http://localhost"+srv.Addr()+"/video/"),
		)

		handleErr(srv.Run(ctx))
	},
}
