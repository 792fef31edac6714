// Package hint turns indicator state at the current bar into short
// plain-language trading hints for the player.
package hint

import (
	"fmt"

	"github.com/spiketrade/spiketrade/indicators"
)

const (
	kdOverbought = 80.0
	kdOversold   = 20.0
)

// crossed reports a fast/slow crossover between the previous and current bar:
// +1 golden cross, -1 death cross, 0 none.
func crossed(prevFast, prevSlow, fast, slow float64) int {
	switch {
	case prevFast <= prevSlow && fast > slow:
		return 1
	case prevFast >= prevSlow && fast < slow:
		return -1
	}
	return 0
}

// At derives hints from the series at position idx. idx 0 has no previous bar
// and yields no crossover hints.
func At(s *indicators.Series, idx int) []string {
	if s == nil || idx < 0 || idx >= s.Len() {
		return nil
	}

	var hints []string
	if idx > 0 {
		switch crossed(s.MA5[idx-1], s.MA22[idx-1], s.MA5[idx], s.MA22[idx]) {
		case 1:
			hints = append(hints, "MA5 crossed above MA22: short-term momentum turning up")
		case -1:
			hints = append(hints, "MA5 crossed below MA22: short-term momentum turning down")
		}

		prevHist, h := s.Hist[idx-1], s.Hist[idx]
		switch {
		case prevHist <= 0 && h > 0:
			hints = append(hints, "MACD histogram flipped positive: buyers taking over")
		case prevHist >= 0 && h < 0:
			hints = append(hints, "MACD histogram flipped negative: sellers taking over")
		}
	}

	price := s.MA5[idx]
	if ma60 := s.MA60[idx]; ma60 > 0 {
		if price > ma60*1.1 {
			hints = append(hints, fmt.Sprintf("price stretched %.0f%% above MA60: extended move, chasing is risky", (price/ma60-1)*100))
		}
	}

	switch k := s.K[idx]; {
	case k >= kdOverbought:
		hints = append(hints, fmt.Sprintf("KD overbought (K=%.0f): pullback risk rising", k))
	case k <= kdOversold:
		hints = append(hints, fmt.Sprintf("KD oversold (K=%.0f): bounce potential building", k))
	}

	return hints
}
