package ledger

import (
	"fmt"
	"time"
)

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return "UNKNOWN"
}

// sign is +1 for Buy, -1 for Sell.
func (s Side) sign() int64 {
	if s == Buy {
		return 1
	}
	return -1
}

// Kind classifies a trade log entry.
type Kind string

const (
	KindOpen  Kind = "open"  // fresh position from flat
	KindAdd   Kind = "add"   // added to an existing position
	KindClose Kind = "close" // covered part or all of a position
	KindFlip  Kind = "flip"  // opening leg of a reversal
)

// TradeEntry is one line of the human-readable trade log. Profit is only
// meaningful for KindClose entries.
type TradeEntry struct {
	Time     time.Time `json:"time"`
	BarIndex int       `json:"bar_index"`
	Side     Side      `json:"side"`
	Kind     Kind      `json:"kind"`
	Quantity int64     `json:"quantity"`
	Price    float64   `json:"price"`
	Profit   float64   `json:"profit"`
}

// Text renders the entry the way the game displays it.
func (e TradeEntry) Text() string {
	switch e.Kind {
	case KindClose:
		verb := "closed long"
		if e.Side == Buy {
			verb = "covered short"
		}
		return fmt.Sprintf("%s %d @ %.2f (P/L %.0f)", verb, e.Quantity, e.Price, e.Profit)
	case KindFlip:
		dir := "long"
		if e.Side == Sell {
			dir = "short"
		}
		return fmt.Sprintf("reversed %s %d @ %.2f", dir, e.Quantity, e.Price)
	case KindAdd:
		dir := "long"
		if e.Side == Sell {
			dir = "short"
		}
		return fmt.Sprintf("added %s %d @ %.2f", dir, e.Quantity, e.Price)
	default:
		dir := "long"
		if e.Side == Sell {
			dir = "short"
		}
		return fmt.Sprintf("opened %s %d @ %.2f", dir, e.Quantity, e.Price)
	}
}

// Marker is a chart annotation point. Exactly one marker is recorded per
// accepted order, even when the order produced two log entries.
type Marker struct {
	BarIndex int     `json:"bar_index"`
	Price    float64 `json:"price"`
	Side     Side    `json:"side"`
}

// Ledger holds the accounting state for one round. It is owned by a single
// round controller and mutated only by Executor.Execute.
//
// Position is a signed share count: positive long, negative short, zero flat.
// AvgCost is the size-weighted average entry price of the open side and is
// reset to zero whenever the position goes flat without reversing.
type Ledger struct {
	StartingCash float64
	Cash         float64
	Position     int64
	AvgCost      float64

	Trades  []TradeEntry
	Returns []float64 // realized per-trade returns, percent
	Markers []Marker
}

// New creates a ledger funded with startingCash.
func New(startingCash float64) *Ledger {
	return &Ledger{StartingCash: startingCash, Cash: startingCash}
}

// Flat reports whether there is no open position.
func (l *Ledger) Flat() bool { return l.Position == 0 }

func (l *Ledger) absPosition() int64 {
	if l.Position < 0 {
		return -l.Position
	}
	return l.Position
}
