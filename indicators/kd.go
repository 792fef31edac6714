package indicators

import "github.com/spiketrade/spiketrade/market"

// StochasticKD computes the K/D oscillator: raw stochastic value (RSV) over a
// rolling window, smoothed twice with com-2 exponential weights (alpha 1/3).
type StochasticKD struct {
	window int
	bars   []market.Bar
	k      ewma
	d      ewma
	count  int
}

func NewKD(window int) *StochasticKD {
	const alpha = 1.0 / 3.0 // com=2
	return &StochasticKD{
		window: window,
		bars:   make([]market.Bar, 0, window),
		k:      ewma{alpha: alpha},
		d:      ewma{alpha: alpha},
	}
}

func (s *StochasticKD) Name() string { return "KD" }

func (s *StochasticKD) Warmup() int { return s.window }

func (s *StochasticKD) Reset() {
	s.bars = s.bars[:0]
	s.k.reset()
	s.d.reset()
	s.count = 0
}

func (s *StochasticKD) Update(b market.Bar) {
	s.bars = append(s.bars, b)
	if len(s.bars) > s.window {
		s.bars = s.bars[1:]
	}
	s.count++
	if len(s.bars) < s.window {
		return
	}

	lo := s.bars[0].Low
	hi := s.bars[0].High
	for _, w := range s.bars[1:] {
		if w.Low < lo {
			lo = w.Low
		}
		if w.High > hi {
			hi = w.High
		}
	}

	rsv := 50.0 // flat window: neutral
	if hi > lo {
		rsv = (b.Close - lo) / (hi - lo) * 100
	}
	s.d.update(s.k.update(rsv))
}

func (s *StochasticKD) Ready() bool { return s.count >= s.window }

// Value returns K. D is available via the D method.
func (s *StochasticKD) Value() float64 { return s.k.value }

func (s *StochasticKD) K() float64 { return s.k.value }

func (s *StochasticKD) D() float64 { return s.d.value }
