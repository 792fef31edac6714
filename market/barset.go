package market

import "fmt"

// BarSet is an ordered, immutable-once-built sequence of bars for one symbol.
// Zero-volume bars (closed sessions, halts) are dropped at construction and
// the survivors reindexed from zero.
type BarSet struct {
	Symbol   string
	Interval string
	Bars     []Bar
}

// NewBarSet filters zero-volume bars out of raw and assigns indices.
func NewBarSet(symbol, interval string, raw []Bar) *BarSet {
	bars := make([]Bar, 0, len(raw))
	for _, b := range raw {
		if b.Volume <= 0 {
			continue
		}
		b.Index = len(bars)
		bars = append(bars, b)
	}
	return &BarSet{Symbol: symbol, Interval: interval, Bars: bars}
}

func (s *BarSet) Len() int { return len(s.Bars) }

// At returns the bar at idx.
func (s *BarSet) At(idx int) (Bar, error) {
	if idx < 0 || idx >= len(s.Bars) {
		return Bar{}, fmt.Errorf("bar index %d out of range [0,%d)", idx, len(s.Bars))
	}
	return s.Bars[idx], nil
}

// Clamp bounds a cursor to the valid index range. An empty set clamps to -1.
func (s *BarSet) Clamp(idx int) int {
	if len(s.Bars) == 0 {
		return -1
	}
	if idx < 0 {
		return 0
	}
	if idx >= len(s.Bars) {
		return len(s.Bars) - 1
	}
	return idx
}

// Window returns up to back+1 bars ending at end inclusive, for display.
// end is clamped first; the returned slice aliases the set and must not be
// mutated.
func (s *BarSet) Window(end, back int) []Bar {
	end = s.Clamp(end)
	if end < 0 {
		return nil
	}
	start := end - back
	if start < 0 {
		start = 0
	}
	return s.Bars[start : end+1]
}

// Trim drops the first n bars and reindexes the remainder. Used to discard
// the indicator warmup prefix before a round starts.
func (s *BarSet) Trim(n int) {
	if n <= 0 {
		return
	}
	if n >= len(s.Bars) {
		s.Bars = s.Bars[:0]
		return
	}
	s.Bars = s.Bars[n:]
	for i := range s.Bars {
		s.Bars[i].Index = i
	}
}
