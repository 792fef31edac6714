// Package feed obtains historical bar sequences for the game. A Provider is
// an opaque collaborator that either returns ordered OHLCV bars for a symbol
// or fails; the Picker layers symbol selection, retries and playability
// checks on top.
package feed

import (
	"context"
	"errors"

	"github.com/spiketrade/spiketrade/market"
)

// ErrUnavailable means the feed exhausted its retry budget without producing
// a playable bar sequence. A round cannot start.
var ErrUnavailable = errors.New("bar feed unavailable")

// Provider fetches raw bars for one symbol over a lookback period at a given
// bar interval (e.g. "1mo", "5m"). Bars are returned in time order and may
// include zero-volume rows; callers filter them.
type Provider interface {
	Fetch(ctx context.Context, symbol, lookback, interval string) ([]market.Bar, error)
}
