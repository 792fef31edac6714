package game

import (
	"github.com/spiketrade/spiketrade/hint"
	"github.com/spiketrade/spiketrade/indicators"
	"github.com/spiketrade/spiketrade/ledger"
)

// BarView is a player-facing bar. Timestamps are stripped so the symbol
// cannot be identified mid-round; only the sequence index remains.
type BarView struct {
	Index  int     `json:"index"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Snapshot is everything a renderer needs about the session right now.
type Snapshot struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Mode     Mode   `json:"mode"`
	State    State  `json:"state"`
	Round    int    `json:"round"`

	Label  string `json:"label"`
	Symbol string `json:"symbol,omitempty"` // revealed once the run is over
	Name   string `json:"name,omitempty"`

	Step      int     `json:"step"`
	TotalBars int     `json:"total_bars"`
	Price     float64 `json:"price"`
	Autoplay  bool    `json:"autoplay"`

	Cash      float64          `json:"cash"`
	Position  int64            `json:"position"`
	AvgCost   float64          `json:"avg_cost"`
	Valuation ledger.Valuation `json:"valuation"`

	Hints    []string        `json:"hints,omitempty"`
	TradeLog []string        `json:"trade_log"`
	Markers  []ledger.Marker `json:"markers"`
}

// Snapshot returns a consistent view of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:       s.id,
		Nickname: s.nickname,
		Mode:     s.mode,
		State:    s.state,
		Round:    s.roundNum,
		Autoplay: s.autoplayCancel != nil,
	}
	r := s.round
	if r == nil {
		return snap
	}

	snap.Label = r.Label
	snap.Step = r.Step
	snap.TotalBars = r.Bars.Len()
	snap.Price = r.Price()
	if s.state == StateSettled || s.state == StateWipedOut {
		snap.Symbol = r.Symbol
		snap.Name = r.Name
	}

	l := r.Ledger
	snap.Cash = l.Cash
	snap.Position = l.Position
	snap.AvgCost = l.AvgCost
	snap.Valuation = ledger.Value(l, r.Price())
	snap.Hints = hint.At(r.Series, r.Step)

	snap.TradeLog = make([]string, 0, len(l.Trades))
	for i := len(l.Trades) - 1; i >= 0; i-- { // newest first
		snap.TradeLog = append(snap.TradeLog, l.Trades[i].Text())
	}
	snap.Markers = append([]ledger.Marker(nil), l.Markers...)
	return snap
}

// ChartWindow is the displayable slice of the round ending at the cursor.
type ChartWindow struct {
	Bars    []BarView          `json:"bars"`
	Series  *indicators.Series `json:"series"`
	Markers []ledger.Marker    `json:"markers"`
}

// Chart returns up to back+1 bars ending at the cursor, with aligned
// indicator values and the trade markers that fall inside the window.
func (s *Session) Chart(back int) ChartWindow {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil {
		return ChartWindow{}
	}
	r := s.round
	bars := r.Bars.Window(r.Step, back)
	if len(bars) == 0 {
		return ChartWindow{}
	}

	views := make([]BarView, len(bars))
	for i, b := range bars {
		views[i] = BarView{
			Index:  b.Index,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}

	lo := bars[0].Index
	hi := bars[len(bars)-1].Index

	var markers []ledger.Marker
	for _, m := range r.Ledger.Markers {
		if m.BarIndex >= lo && m.BarIndex <= hi {
			markers = append(markers, m)
		}
	}

	return ChartWindow{
		Bars:    views,
		Series:  r.Series.Slice(lo, hi),
		Markers: markers,
	}
}
