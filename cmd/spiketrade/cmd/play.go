package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiketrade/spiketrade/game"
	"github.com/spiketrade/spiketrade/ledger"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one scripted round in the terminal",
	Long: `Run a single buy-and-hold round without the HTTP server: pick a random
masked symbol, buy at the starting bar, ride to the last bar and settle.

Useful for smoke-testing a feed and journal configuration.

Example:
  spiketrade play -f config.yaml --nickname rocket --quantity 1000`,
	RunE: runPlay,
}

var (
	playNickname string
	playQuantity int64
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVarP(&playNickname, "nickname", "n", "player", "leaderboard nickname")
	playCmd.Flags().Int64VarP(&playQuantity, "quantity", "q", 1000, "shares to buy at the first bar")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := gameOptions(cfg)
	if err != nil {
		return err
	}

	j, err := buildJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	ctx := context.Background()
	sess := game.NewSession(newPickerFactory(cfg)(), j, opts)
	if err := sess.Start(ctx, playNickname, game.ModeClassic); err != nil {
		return fmt.Errorf("start round: %w", err)
	}

	snap := sess.Snapshot()
	fmt.Printf("Round on %s starting at bar %d/%d, price %.2f\n",
		snap.Label, snap.Step, snap.TotalBars, snap.Price)

	if err := sess.Trade(ledger.Buy, playQuantity); err != nil {
		return fmt.Errorf("buy: %w", err)
	}

	for {
		snap = sess.Snapshot()
		if snap.State != game.StateRunning || snap.Step >= snap.TotalBars-1 {
			break
		}
		sess.Advance()
	}

	if snap.State == game.StateRunning {
		if err := sess.Settle(ctx); err != nil {
			return fmt.Errorf("settle: %w", err)
		}
		// Settle rolled into a fresh round; the posted score has the result.
	}

	recs, err := j.ListScores()
	if err != nil || len(recs) == 0 {
		return fmt.Errorf("read result: %w", err)
	}
	rec := recs[len(recs)-1]

	fmt.Printf("\nResults for %s (%s):\n", rec.Nickname, rec.Symbol)
	fmt.Printf("  Final Equity: %.2f\n", rec.FinalEquity)
	fmt.Printf("  Profit/Loss:  %.2f\n", rec.Profit)
	fmt.Printf("  ROI:          %.2f%%\n", rec.ROIPercent)
	fmt.Printf("  Score:        %.2f\n", rec.Score)
	return nil
}
