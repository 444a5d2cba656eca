package engine

import (
	"fmt"

	"github.com/backtide/backtide/internal/market"
)

// ledger tracks per-product inventory and realized cash flow for one
// session. It starts at zero and never outlives the session.
type ledger struct {
	positions map[string]int
	cash      map[string]float64
}

func newLedger() *ledger {
	return &ledger{
		positions: make(map[string]int),
		cash:      make(map[string]float64),
	}
}

func (l *ledger) position(product string) int {
	return l.positions[product]
}

func (l *ledger) apply(symbol string, fill Fill) {
	l.positions[symbol] += fill.PositionDelta
	l.cash[symbol] += fill.CashDelta
}

// openPositions returns the nonzero positions as a fresh map, so an
// algorithm holding the state cannot reach into the ledger.
func (l *ledger) openPositions() map[string]int {
	open := make(map[string]int)
	for product, position := range l.positions {
		if position != 0 {
			open[product] = position
		}
	}
	return open
}

// markToMarket values a product conservatively: realized cash plus the
// open position at the best ask when short, the best bid when long. A
// missing required level with an open position is a data precondition
// failure.
func (l *ledger) markToMarket(product string, snap market.PriceSnapshot) (float64, error) {
	profitLoss := l.cash[product]
	position := l.positions[product]

	switch {
	case position < 0:
		if len(snap.Asks) == 0 {
			return 0, fmt.Errorf("short %d %s but no ask level to value it", -position, product)
		}
		profitLoss += float64(position * snap.Asks[0].Price)
	case position > 0:
		if len(snap.Bids) == 0 {
			return 0, fmt.Errorf("long %d %s but no bid level to value it", position, product)
		}
		profitLoss += float64(position * snap.Bids[0].Price)
	}
	return profitLoss, nil
}
