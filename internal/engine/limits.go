// Package engine is the replay core: it validates the orders a decision
// algorithm proposes, executes them against the reconstructed book, and
// accounts the resulting positions and P&L, one timestamp at a time.
package engine

import (
	"fmt"

	"github.com/backtide/backtide/internal/trader"
)

// BatchWithinLimit checks one product's proposed batch against its
// position limit using requested quantities: the sum of positive
// quantities counts as intended buying, the sum of absolute negative
// quantities as intended selling. Requested rather than fillable size is
// what counts, so overstating into a thin book cannot evade the check.
// The whole batch passes or the whole batch is rejected.
func BatchWithinLimit(position, limit int, orders []trader.Order) bool {
	totalBuy, totalSell := 0, 0
	for _, order := range orders {
		if order.Quantity > 0 {
			totalBuy += order.Quantity
		} else {
			totalSell += -order.Quantity
		}
	}
	return position+totalBuy <= limit && position-totalSell >= -limit
}

// RejectionMessage is the diagnostic row text recorded when a product's
// batch breaches its limit. The wording is part of the output contract.
func RejectionMessage(product string, limit int) string {
	return fmt.Sprintf("Orders for product %s exceeded limit of %d set", product, limit)
}
