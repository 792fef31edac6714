package indicators

import (
	"fmt"

	"github.com/spiketrade/spiketrade/market"
)

// Indicator is a streaming indicator updated one bar at a time.
type Indicator interface {
	Name() string
	Warmup() int
	Reset()
	Update(b market.Bar)
	Ready() bool
	Value() float64
}

// SimpleMA is a streaming simple moving average over closing prices.
type SimpleMA struct {
	period int
	closes []float64
}

func NewMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		closes: make([]float64, 0, period),
	}
}

func (m *SimpleMA) Name() string { return fmt.Sprintf("MA(%d)", m.period) }

func (m *SimpleMA) Warmup() int { return m.period }

func (m *SimpleMA) Reset() { m.closes = m.closes[:0] }

func (m *SimpleMA) Update(b market.Bar) {
	m.closes = append(m.closes, b.Close)
	if len(m.closes) > m.period {
		m.closes = m.closes[1:]
	}
}

func (m *SimpleMA) Ready() bool { return len(m.closes) >= m.period }

func (m *SimpleMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	sum := 0.0
	for _, c := range m.closes {
		sum += c
	}
	return sum / float64(len(m.closes))
}

// ExponentialMA is a streaming EMA seeded with the first close, matching the
// recursive span-based smoothing the chart uses.
type ExponentialMA struct {
	period int
	alpha  float64
	ema    float64
	count  int
}

func NewEMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string { return fmt.Sprintf("EMA(%d)", e.period) }

func (e *ExponentialMA) Warmup() int { return 1 }

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
}

func (e *ExponentialMA) Update(b market.Bar) {
	e.update(b.Close)
}

func (e *ExponentialMA) update(v float64) {
	if e.count == 0 {
		e.ema = v
	} else {
		e.ema = (v-e.ema)*e.alpha + e.ema
	}
	e.count++
}

func (e *ExponentialMA) Ready() bool { return e.count > 0 }

func (e *ExponentialMA) Value() float64 { return e.ema }

// ewma is alpha-parameterized exponential smoothing over raw values, used
// where the smoothed input is another indicator rather than a bar.
type ewma struct {
	alpha  float64
	value  float64
	seeded bool
}

func (w *ewma) update(v float64) float64 {
	if !w.seeded {
		w.value = v
		w.seeded = true
	} else {
		w.value = (v-w.value)*w.alpha + w.value
	}
	return w.value
}

func (w *ewma) reset() {
	w.value = 0
	w.seeded = false
}
