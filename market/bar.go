package market

import "time"

// Bar is a single OHLCV candle. Index is the zero-based position of the bar
// inside its BarSet after filtering; player-facing surfaces use Index instead
// of Time so a replayed symbol cannot be looked up mid-game.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Index  int
}
