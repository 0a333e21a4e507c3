package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iabetor/ttsbuddy/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "查看最近的朗读记录",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := history.Open(cfg.History.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, noticeStyle.Render("暂无朗读记录"))
			return nil
		}
		for _, u := range entries {
			fmt.Fprintf(out, "%s  %-5s %-2s %6v  %s\n",
				u.CreatedAt.Format("2006-01-02 15:04:05"), u.Backend, u.Language, u.Duration, u.Text)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "显示条数，0 为全部")
}
