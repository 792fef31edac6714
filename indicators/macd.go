package indicators

import "github.com/spiketrade/spiketrade/market"

// MACD is the 12/26 EMA difference with a 9-period signal line.
type MACD struct {
	fast   *ExponentialMA
	slow   *ExponentialMA
	signal ewma
	count  int
}

func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fast:   NewEMA(fast),
		slow:   NewEMA(slow),
		signal: ewma{alpha: 2.0 / float64(signal+1)},
	}
}

func (m *MACD) Name() string { return "MACD" }

// Warmup is nominal; the line stabilizes once the slow EMA has seen a full
// period, but values exist from the first bar like the chart's smoothing.
func (m *MACD) Warmup() int { return 1 }

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.reset()
	m.count = 0
}

func (m *MACD) Update(b market.Bar) {
	m.fast.Update(b)
	m.slow.Update(b)
	m.signal.update(m.fast.Value() - m.slow.Value())
	m.count++
}

func (m *MACD) Ready() bool { return m.count > 0 }

// Value returns the MACD line.
func (m *MACD) Value() float64 { return m.fast.Value() - m.slow.Value() }

// Signal returns the smoothed MACD line.
func (m *MACD) Signal() float64 { return m.signal.value }

// Hist returns line minus signal.
func (m *MACD) Hist() float64 { return m.Value() - m.Signal() }
