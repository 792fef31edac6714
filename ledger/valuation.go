package ledger

// Valuation is a read-only view of the ledger marked at a price.
type Valuation struct {
	Unrealized float64 `json:"unrealized"`
	Equity     float64 `json:"equity"`
	ROIPercent float64 `json:"roi_percent"`
}

// Value marks l at price. For a short the equity model mirrors the executor's
// short-cover cash flow (return of the notional set aside at entry plus the
// signed P/L), so valuing right before a full cover at the same price agrees
// with the realized result.
func Value(l *Ledger, price float64) Valuation {
	var v Valuation
	switch {
	case l.Position > 0:
		pos := float64(l.Position)
		v.Unrealized = (price - l.AvgCost) * pos
		v.Equity = l.Cash + pos*price
	case l.Position < 0:
		abs := float64(-l.Position)
		v.Unrealized = (l.AvgCost - price) * abs
		v.Equity = l.Cash + abs*l.AvgCost + v.Unrealized
	default:
		v.Equity = l.Cash
	}
	if l.StartingCash > 0 {
		v.ROIPercent = (v.Equity - l.StartingCash) / l.StartingCash * 100
	}
	return v
}

// WipedOut reports whether equity at price has reached zero or below.
func WipedOut(l *Ledger, price float64) bool {
	return Value(l, price).Equity <= 0
}
