package game

import (
	"unicode/utf8"

	"github.com/spiketrade/spiketrade/indicators"
	"github.com/spiketrade/spiketrade/ledger"
	"github.com/spiketrade/spiketrade/market"
)

// Round is one play-through: a fixed bar sequence, a forward-only cursor and
// the ledger being traded against it. The real symbol stays hidden behind
// Label until the round ends.
type Round struct {
	ID     string
	Symbol string
	Name   string
	Label  string

	Bars   *market.BarSet
	Series *indicators.Series
	Step   int

	Ledger *ledger.Ledger
}

// Current returns the bar under the cursor.
func (r *Round) Current() market.Bar {
	b, _ := r.Bars.At(r.Bars.Clamp(r.Step))
	return b
}

// Price is the close of the current bar; all fills happen at it.
func (r *Round) Price() float64 {
	return r.Current().Close
}

// AtEnd reports whether the cursor sits on the last bar.
func (r *Round) AtEnd() bool {
	return r.Step >= r.Bars.Len()-1
}

// Advance moves the cursor one bar forward. The cursor never decreases and
// clamps at the final bar; advancing past the end is a no-op, not an error.
func (r *Round) Advance() {
	if r.Step < r.Bars.Len()-1 {
		r.Step++
	}
}

// maskName hides a display name the way the game does: keep the first rune,
// replace the rest with fullwidth circles.
func maskName(name string) string {
	if utf8.RuneCountInString(name) <= 1 {
		return name
	}
	first, _ := utf8.DecodeRuneInString(name)
	return string(first) + "ＯＯ"
}
