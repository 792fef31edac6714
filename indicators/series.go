package indicators

import "github.com/spiketrade/spiketrade/market"

// Chart windows and smoothing parameters. These match what the game draws:
// four moving averages, MACD(12,26,9) and a 9-bar KD.
const (
	MAShort   = 5
	MAMonth   = 22
	MAQuarter = 60
	MAYear    = 240

	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9

	KDWindow = 9
)

// WarmupBars is how many leading bars are discarded before a round starts so
// every displayed indicator value is fully formed. The longest moving average
// dominates.
const WarmupBars = MAYear - 1

// Series holds per-bar indicator values aligned with a bar slice. Values at
// positions before an indicator's warmup are zero and only meaningful once
// the warmup prefix has been trimmed.
type Series struct {
	MA5    []float64 `json:"ma5"`
	MA22   []float64 `json:"ma22"`
	MA60   []float64 `json:"ma60"`
	MA240  []float64 `json:"ma240"`
	MACD   []float64 `json:"macd"`
	Signal []float64 `json:"signal"`
	Hist   []float64 `json:"hist"`
	K      []float64 `json:"k"`
	D      []float64 `json:"d"`
}

// Compute runs the streaming indicators over bars and collects their values.
func Compute(bars []market.Bar) *Series {
	n := len(bars)
	s := &Series{
		MA5:    make([]float64, n),
		MA22:   make([]float64, n),
		MA60:   make([]float64, n),
		MA240:  make([]float64, n),
		MACD:   make([]float64, n),
		Signal: make([]float64, n),
		Hist:   make([]float64, n),
		K:      make([]float64, n),
		D:      make([]float64, n),
	}

	ma5 := NewMA(MAShort)
	ma22 := NewMA(MAMonth)
	ma60 := NewMA(MAQuarter)
	ma240 := NewMA(MAYear)
	macd := NewMACD(MACDFast, MACDSlow, MACDSignal)
	kd := NewKD(KDWindow)

	for i, b := range bars {
		ma5.Update(b)
		ma22.Update(b)
		ma60.Update(b)
		ma240.Update(b)
		macd.Update(b)
		kd.Update(b)

		s.MA5[i] = ma5.Value()
		s.MA22[i] = ma22.Value()
		s.MA60[i] = ma60.Value()
		s.MA240[i] = ma240.Value()
		s.MACD[i] = macd.Value()
		s.Signal[i] = macd.Signal()
		s.Hist[i] = macd.Hist()
		s.K[i] = kd.K()
		s.D[i] = kd.D()
	}
	return s
}

// Len returns the number of aligned positions.
func (s *Series) Len() int { return len(s.MA5) }

// Trim drops the first n positions, keeping the series aligned with a bar set
// trimmed by the same amount.
func (s *Series) Trim(n int) {
	if n <= 0 {
		return
	}
	if n > s.Len() {
		n = s.Len()
	}
	s.MA5 = s.MA5[n:]
	s.MA22 = s.MA22[n:]
	s.MA60 = s.MA60[n:]
	s.MA240 = s.MA240[n:]
	s.MACD = s.MACD[n:]
	s.Signal = s.Signal[n:]
	s.Hist = s.Hist[n:]
	s.K = s.K[n:]
	s.D = s.D[n:]
}

// Slice returns the aligned values for positions [start, end] inclusive.
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end >= s.Len() {
		end = s.Len() - 1
	}
	if end < start {
		return &Series{}
	}
	e := end + 1
	return &Series{
		MA5:    s.MA5[start:e],
		MA22:   s.MA22[start:e],
		MA60:   s.MA60[start:e],
		MA240:  s.MA240[start:e],
		MACD:   s.MACD[start:e],
		Signal: s.Signal[start:e],
		Hist:   s.Hist[start:e],
		K:      s.K[start:e],
		D:      s.D[start:e],
	}
}
