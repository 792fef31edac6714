package game

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/spiketrade/spiketrade/journal"
	"github.com/spiketrade/spiketrade/ledger"
)

// avgReturn is the mean realized per-trade return, or zero when no position
// was ever closed.
func avgReturn(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean, err := stats.Mean(stats.Float64Data(returns))
	if err != nil {
		return 0
	}
	return mean
}

// buildScore assembles the leaderboard row for a finished round. The
// composite score rewards both the overall result and per-trade accuracy.
func buildScore(nickname string, r *Round, v ledger.Valuation, startingCash float64) journal.ScoreRecord {
	avg := avgReturn(r.Ledger.Returns)
	return journal.ScoreRecord{
		Time:         time.Now(),
		Nickname:     nickname,
		Label:        r.Label,
		Symbol:       r.Symbol,
		FinalEquity:  v.Equity,
		ROIPercent:   v.ROIPercent,
		Score:        v.ROIPercent + avg,
		AvgReturnPct: avg,
		Profit:       v.Equity - startingCash,
	}
}
