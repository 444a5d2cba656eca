package strategy

import (
	"math"

	"github.com/backtide/backtide/internal/trader"
)

var marketMakerLimits = map[string]int{
	"PEARLS":       20,
	"BANANAS":      20,
	"COCONUTS":     600,
	"PINA_COLADAS": 300,
	"DIVING_GEAR":  50,
	"BERRIES":      250,
}

var marketMakerSymbols = []string{
	"PEARLS",
	"BANANAS",
	"COCONUTS",
	"PINA_COLADAS",
	"DIVING_GEAR",
	"BERRIES",
}

// marketMakerAlgo quotes both sides of every symbol it knows around an
// estimated true value. The estimate is the modal mid price when one
// price dominates the history, otherwise the rolling 10-sample mean.
type marketMakerAlgo struct {
	log     *trader.Log
	prices  map[string][]int
	spreads map[string][]int
}

func newMarketMaker(log *trader.Log) trader.Algorithm {
	return &marketMakerAlgo{
		log:     log,
		prices:  make(map[string][]int),
		spreads: make(map[string][]int),
	}
}

func (a *marketMakerAlgo) Run(state *trader.State) (map[string][]trader.Order, error) {
	orders := make(map[string][]trader.Order, len(marketMakerSymbols))
	for _, symbol := range marketMakerSymbols {
		orders[symbol] = make([]trader.Order, 0)
	}

	for _, symbol := range marketMakerSymbols {
		book, ok := state.OrderDepths[symbol]
		if !ok {
			continue
		}
		midPrice, ok := book.MidPrice()
		if !ok {
			continue
		}
		bestBid, _ := book.BestBid()
		bestAsk, _ := book.BestAsk()

		a.prices[symbol] = append(a.prices[symbol], midPrice)
		a.spreads[symbol] = append(a.spreads[symbol], bestAsk-bestBid)

		history := a.prices[symbol]
		if len(history) < 10 {
			continue
		}

		commonPrice, commonCount := modal(history)
		var trueValue int
		if float64(commonCount) > float64(len(history))/3 {
			trueValue = commonPrice
		} else {
			trueValue = int(math.RoundToEven(mean(last(history, 10))))
		}

		position := state.Position[symbol]
		limit := marketMakerLimits[symbol]
		toBuy := limit - position
		toSell := limit + position

		spread := int(math.RoundToEven(median(last(a.spreads[symbol], 10))))
		delta := max(1, spread/2-1)

		if toBuy > 0 {
			orders[symbol] = append(orders[symbol], trader.Buy(symbol, trueValue-delta, toBuy))
		}
		if toSell > 0 {
			orders[symbol] = append(orders[symbol], trader.Sell(symbol, trueValue+delta, toSell))
		}
	}

	a.log.Flush(state, orders)
	return orders, nil
}
