package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamplay-cli/streamplay/color"
	"github.com/streamplay-cli/streamplay/history"
	"github.com/streamplay-cli/streamplay/icon"
	"github.com/streamplay-cli/streamplay/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	historyCmd.Flags().IntP("limit", "n", 0, "Show at most this many entries, 0 shows all")
}

// historyCmd lists remembered streams.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List remembered streams, most recently played first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.List()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(entries))
			return
		}

		if len(entries) == 0 {
			fmt.Printf("%s no streams remembered yet\n", icon.Get(icon.Link))
			return
		}

		for _, entry := range entries {
			fmt.Printf(
				"%s %s %s\n",
				style.Fg(color.Purple)(fmt.Sprintf("[%s]", entry.Protocol.Label())),
				entry.URL,
				style.Faint(fmt.Sprintf("%d× %s", entry.Rank, entry.LastPlayed.Format(time.DateTime))),
			)
		}
	},
}
