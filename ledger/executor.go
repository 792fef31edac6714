package ledger

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInsufficientFunds rejects an order whose principal exceeds cash.
	// The ledger is untouched when this is returned.
	ErrInsufficientFunds = errors.New("insufficient cash for order")

	// ErrReversalFunds means the covering leg of a flip was applied but the
	// opening leg was skipped for lack of cash. The close stands.
	ErrReversalFunds = errors.New("insufficient cash to open reversal position")
)

// Order is one player action against the ledger.
type Order struct {
	Side     Side
	Price    float64
	Quantity int64
	BarIndex int
	Time     time.Time
}

// Executor applies orders to a ledger. A fee of Price*Quantity*FeeRate is
// charged on every fill; on a flip each leg is charged on its own quantity.
//
// The cash precondition is principal-only (cash >= price*qty): an order whose
// principal exactly equals available cash fills, and the fee may push cash
// slightly negative at that boundary. The resulting negative equity, if any,
// is caught by the wipe-out check, not here.
type Executor struct {
	FeeRate float64
}

// NewExecutor returns an executor charging feeRate per fill.
func NewExecutor(feeRate float64) *Executor {
	return &Executor{FeeRate: feeRate}
}

// Execute applies ord to l. It mutates cash, position and average cost,
// appends to the trade log (and, for closing fills, the realized-return log),
// and records exactly one chart marker per accepted order.
//
// An order in the direction of the open position (or from flat) adds to it.
// An order against the open position covers up to the open quantity first,
// then opens the remainder in the new direction at a fresh cost basis.
func (x *Executor) Execute(l *Ledger, ord Order) error {
	if ord.Price <= 0 {
		return fmt.Errorf("order price must be positive, got %v", ord.Price)
	}
	if ord.Quantity <= 0 {
		return fmt.Errorf("order quantity must be positive, got %d", ord.Quantity)
	}

	pos := l.Position
	adding := (pos >= 0 && ord.Side == Buy) || (pos <= 0 && ord.Side == Sell)
	if adding {
		return x.add(l, ord)
	}
	return x.cover(l, ord)
}

// add increases the magnitude of the open side (or opens from flat).
func (x *Executor) add(l *Ledger, ord Order) error {
	qty := float64(ord.Quantity)
	cost := ord.Price * qty
	if l.Cash < cost {
		return ErrInsufficientFunds
	}
	fee := cost * x.FeeRate

	abs := float64(l.absPosition())
	l.Cash -= cost + fee
	l.AvgCost = (l.AvgCost*abs + cost) / (abs + qty)
	l.Position += ord.Quantity * ord.Side.sign()

	kind := KindAdd
	if abs == 0 {
		kind = KindOpen
	}
	l.Trades = append(l.Trades, TradeEntry{
		Time:     ord.Time,
		BarIndex: ord.BarIndex,
		Side:     ord.Side,
		Kind:     kind,
		Quantity: ord.Quantity,
		Price:    ord.Price,
	})
	l.Markers = append(l.Markers, Marker{BarIndex: ord.BarIndex, Price: ord.Price, Side: ord.Side})
	return nil
}

// cover closes against the open position and, if the order is larger than the
// position, reverses with the remainder. Covering always settles before the
// new side opens.
func (x *Executor) cover(l *Ledger, ord Order) error {
	coverQty := l.absPosition()
	if ord.Quantity < coverQty {
		coverQty = ord.Quantity
	}
	remaining := ord.Quantity - coverQty

	covered := float64(coverQty)
	closeFee := ord.Price * covered * x.FeeRate

	var profit float64
	if l.Position > 0 {
		// Long exit: proceeds at market, fee on the way out.
		profit = (ord.Price - l.AvgCost) * covered
		l.Cash += ord.Price*covered - closeFee
	} else {
		// Short cover: the notional set aside at entry comes back, plus the
		// signed P/L, net of fee.
		profit = (l.AvgCost - ord.Price) * covered
		l.Cash += l.AvgCost*covered + profit - closeFee
	}

	avg := l.AvgCost
	l.Position += coverQty * ord.Side.sign()
	if l.Position == 0 {
		l.AvgCost = 0
	}

	if avg > 0 {
		l.Returns = append(l.Returns, profit/(avg*covered)*100)
	}
	l.Trades = append(l.Trades, TradeEntry{
		Time:     ord.Time,
		BarIndex: ord.BarIndex,
		Side:     ord.Side,
		Kind:     KindClose,
		Quantity: coverQty,
		Price:    ord.Price,
		Profit:   profit,
	})

	// One marker per order, regardless of how many legs filled.
	l.Markers = append(l.Markers, Marker{BarIndex: ord.BarIndex, Price: ord.Price, Side: ord.Side})

	if remaining == 0 {
		return nil
	}

	// Reversal leg: a fresh open at the order price.
	openCost := ord.Price * float64(remaining)
	if l.Cash < openCost {
		return ErrReversalFunds
	}
	openFee := openCost * x.FeeRate
	l.Cash -= openCost + openFee
	l.AvgCost = ord.Price
	l.Position += remaining * ord.Side.sign()

	l.Trades = append(l.Trades, TradeEntry{
		Time:     ord.Time,
		BarIndex: ord.BarIndex,
		Side:     ord.Side,
		Kind:     KindFlip,
		Quantity: remaining,
		Price:    ord.Price,
	})
	return nil
}
