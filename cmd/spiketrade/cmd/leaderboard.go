package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the leaderboard",
	Long: `Read the configured journal and print the leaderboard, best score first.

Example:
  spiketrade leaderboard -f config.yaml --top 20`,
	RunE: runLeaderboard,
}

var leaderboardTop int

func init() {
	rootCmd.AddCommand(leaderboardCmd)

	leaderboardCmd.Flags().IntVarP(&leaderboardTop, "top", "t", 10, "number of rows to show")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := buildJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	recs, err := j.ListScores()
	if err != nil {
		return fmt.Errorf("read scores: %w", err)
	}
	sort.SliceStable(recs, func(i, k int) bool { return recs[i].Score > recs[k].Score })
	if leaderboardTop > 0 && len(recs) > leaderboardTop {
		recs = recs[:leaderboardTop]
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Nickname", "Symbol", "Final Equity", "ROI %", "Score", "When"})
	for i, r := range recs {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			r.Nickname,
			r.Symbol,
			fmt.Sprintf("%.2f", r.FinalEquity),
			fmt.Sprintf("%.2f", r.ROIPercent),
			fmt.Sprintf("%.2f", r.Score),
			r.Time.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
	return nil
}
