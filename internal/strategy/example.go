package strategy

import (
	"strconv"

	"github.com/backtide/backtide/internal/trader"
)

// exampleAlgo trades a single product: it computes a fair value from the
// PEARLS mid price and takes any top-of-book level that crosses it.
type exampleAlgo struct {
	log *trader.Log
}

func newExample(log *trader.Log) trader.Algorithm {
	return &exampleAlgo{log: log}
}

func (a *exampleAlgo) Run(state *trader.State) (map[string][]trader.Order, error) {
	result := make(map[string][]trader.Order)

	if book, ok := state.OrderDepths["PEARLS"]; ok {
		orders := make([]trader.Order, 0)

		bestBid, hasBid := book.BestBid()
		bestAsk, hasAsk := book.BestAsk()
		if hasBid && hasAsk {
			acceptable := (bestAsk + bestBid) / 2

			if bestAsk < acceptable {
				askVolume := book.SellOrders[bestAsk]
				a.log.Note("BUY", strconv.Itoa(-askVolume)+"x", bestAsk)
				orders = append(orders, trader.Order{Symbol: "PEARLS", Price: bestAsk, Quantity: -askVolume})
			}
			if bestBid > acceptable {
				bidVolume := book.BuyOrders[bestBid]
				a.log.Note("SELL", strconv.Itoa(bidVolume)+"x", bestBid)
				orders = append(orders, trader.Order{Symbol: "PEARLS", Price: bestBid, Quantity: -bidVolume})
			}
		}

		result["PEARLS"] = orders
	}

	a.log.Flush(state, result)
	return result, nil
}
