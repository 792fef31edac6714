package feed

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/spiketrade/spiketrade/indicators"
	"github.com/spiketrade/spiketrade/market"
)

// Picker defaults; the bounds mirror the game's fetch discipline.
const (
	DefaultMinBars     = 300 // raw bars required after zero-volume filtering
	DefaultMinPlayable = 200 // bars required after indicator warmup trimming
	DefaultRetries     = 15
	DefaultStartLow    = 50  // earliest random starting cursor
	DefaultStartMargin = 150 // bars that must remain after the cursor
)

// Pick is a playable round dataset: filtered, warmup-trimmed bars with
// aligned indicator values and a randomized starting cursor.
type Pick struct {
	Symbol string
	Name   string
	Bars   *market.BarSet
	Series *indicators.Series
	Start  int
}

// Picker selects a random symbol and fetches until it gets a playable bar
// sequence or runs out of retries.
type Picker struct {
	Provider Provider
	Symbols  map[string]string // symbol -> display name
	Lookback string
	Interval string

	MinBars     int
	MinPlayable int
	Retries     int
	StartLow    int
	StartMargin int

	Rand *rand.Rand
	Log  logrus.FieldLogger
}

// NewPicker creates a Picker with the default bounds.
func NewPicker(p Provider, symbols map[string]string, lookback, interval string) *Picker {
	return &Picker{
		Provider:    p,
		Symbols:     symbols,
		Lookback:    lookback,
		Interval:    interval,
		MinBars:     DefaultMinBars,
		MinPlayable: DefaultMinPlayable,
		Retries:     DefaultRetries,
		StartLow:    DefaultStartLow,
		StartMargin: DefaultStartMargin,
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		Log:         logrus.StandardLogger(),
	}
}

// PickRound tries random symbols until one yields a playable dataset. It
// filters zero-volume bars, requires MinBars raw bars, computes indicators,
// trims the warmup prefix, re-checks MinPlayable, and draws a starting cursor
// in [StartLow, len-StartMargin]. Returns ErrUnavailable when the retry
// budget is spent.
func (p *Picker) PickRound(ctx context.Context) (*Pick, error) {
	symbols := make([]string, 0, len(p.Symbols))
	for s := range p.Symbols {
		symbols = append(symbols, s)
	}
	if len(symbols) == 0 {
		return nil, ErrUnavailable
	}

	for attempt := 0; attempt < p.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		symbol := symbols[p.Rand.Intn(len(symbols))]

		raw, err := p.Provider.Fetch(ctx, symbol, p.Lookback, p.Interval)
		if err != nil {
			p.Log.WithFields(logrus.Fields{
				"symbol":  symbol,
				"attempt": attempt + 1,
			}).WithError(err).Warn("bar fetch failed")
			continue
		}

		set := market.NewBarSet(symbol, p.Interval, raw)
		if set.Len() < p.MinBars {
			p.Log.WithFields(logrus.Fields{
				"symbol": symbol,
				"bars":   set.Len(),
			}).Debug("too few bars, retrying")
			continue
		}

		series := indicators.Compute(set.Bars)
		set.Trim(indicators.WarmupBars)
		series.Trim(indicators.WarmupBars)
		if set.Len() < p.MinPlayable {
			continue
		}

		start := p.StartLow
		if hi := set.Len() - p.StartMargin; hi > p.StartLow {
			start = p.StartLow + p.Rand.Intn(hi-p.StartLow+1)
		}
		start = set.Clamp(start)

		return &Pick{
			Symbol: symbol,
			Name:   p.Symbols[symbol],
			Bars:   set,
			Series: series,
			Start:  start,
		}, nil
	}
	return nil, ErrUnavailable
}
