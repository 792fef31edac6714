package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueFlat(t *testing.T) {
	t.Parallel()

	l := New(10_000)
	v := Value(l, 123.45)

	assert.Zero(t, v.Unrealized)
	assert.InDelta(t, 10_000, v.Equity, 1e-9)
	assert.Zero(t, v.ROIPercent)
}

func TestValueLongAndShort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		position   int64
		avgCost    float64
		cash       float64
		price      float64
		unrealized float64
		equity     float64
	}{
		{
			name:     "long_gain",
			position: 100, avgCost: 100, cash: 90_000, price: 110,
			unrealized: 1_000, equity: 101_000,
		},
		{
			name:     "long_loss",
			position: 100, avgCost: 100, cash: 90_000, price: 95,
			unrealized: -500, equity: 99_500,
		},
		{
			name:     "short_gain",
			position: -100, avgCost: 100, cash: 90_000, price: 90,
			unrealized: 1_000, equity: 101_000,
		},
		{
			name:     "short_loss",
			position: -100, avgCost: 100, cash: 90_000, price: 112,
			unrealized: -1_200, equity: 98_800,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := &Ledger{
				StartingCash: 100_000,
				Cash:         tt.cash,
				Position:     tt.position,
				AvgCost:      tt.avgCost,
			}
			v := Value(l, tt.price)
			assert.InDelta(t, tt.unrealized, v.Unrealized, 1e-9)
			assert.InDelta(t, tt.equity, v.Equity, 1e-9)
			assert.InDelta(t, (tt.equity-100_000)/1_000, v.ROIPercent, 1e-9)
		})
	}
}

// Marking right before a full cover at the same price must reproduce the
// realized result the executor posts to cash.
func TestValuationMatchesRealizedClose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		open  Side
		close Side
	}{
		{"long", Buy, Sell},
		{"short", Sell, Buy},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			x := NewExecutor(0)
			l := New(250_000)
			require.NoError(t, x.Execute(l, Order{Side: tt.open, Price: 100, Quantity: 500}))

			const mark = 93.5
			before := Value(l, mark)

			require.NoError(t, x.Execute(l, Order{Side: tt.close, Price: mark, Quantity: 500}))
			assert.InDelta(t, before.Equity, l.Cash, 1e-6)
			assert.InDelta(t, before.Unrealized, l.Trades[len(l.Trades)-1].Profit, 1e-6)
		})
	}
}

func TestWipedOutBoundary(t *testing.T) {
	t.Parallel()

	// Long 100 at avg 100 with cash -10,000: equity = -10,000 + 100*price.
	l := &Ledger{StartingCash: 10_000, Cash: -10_000, Position: 100, AvgCost: 100}

	assert.True(t, WipedOut(l, 100)) // equity exactly 0 wipes
	assert.False(t, WipedOut(l, 100.0001))

	flat := &Ledger{StartingCash: 10_000, Cash: 0.01}
	assert.False(t, WipedOut(flat, 50))
	flat.Cash = 0
	assert.True(t, WipedOut(flat, 50))
}
