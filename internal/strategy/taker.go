package strategy

import (
	"math"

	"github.com/backtide/backtide/internal/trader"
)

var takerLimits = map[string]int{
	"PEARLS":       20,
	"BANANAS":      20,
	"COCONUTS":     600,
	"PINA_COLADAS": 300,
}

var takerSymbols = []string{
	"PEARLS",
	"BANANAS",
	"COCONUTS",
	"PINA_COLADAS",
}

// takerAlgo only takes liquidity: after a warm-up period it lifts ask
// levels priced below its true value estimate and hits bid levels priced
// above it, staying inside the position budget on both sides.
type takerAlgo struct {
	log    *trader.Log
	prices map[string][]int
}

func newTaker(log *trader.Log) trader.Algorithm {
	return &takerAlgo{
		log:    log,
		prices: make(map[string][]int),
	}
}

func (a *takerAlgo) Run(state *trader.State) (map[string][]trader.Order, error) {
	orders := make(map[string][]trader.Order, len(takerSymbols))
	for _, symbol := range takerSymbols {
		orders[symbol] = make([]trader.Order, 0)
	}

	for _, symbol := range takerSymbols {
		book, ok := state.OrderDepths[symbol]
		if !ok {
			continue
		}
		midPrice, ok := book.MidPrice()
		if !ok {
			continue
		}
		a.prices[symbol] = append(a.prices[symbol], midPrice)

		if state.Timestamp < 10_000 {
			continue
		}

		history := a.prices[symbol]
		commonPrice, commonCount := modal(history)
		var trueValue int
		if float64(commonCount) > float64(len(history))/4 {
			trueValue = commonPrice
		} else {
			trueValue = int(math.Floor(mean(last(history, 100))))
		}

		limit := takerLimits[symbol]
		position := state.Position[symbol]
		toBuy := limit - position
		toSell := limit + position

		for _, price := range book.AskPricesAscending() {
			if price >= trueValue || toBuy == 0 {
				break
			}
			volume := min(toBuy, -book.SellOrders[price])
			toBuy -= volume
			orders[symbol] = append(orders[symbol], trader.Buy(symbol, price, volume))
		}

		for _, price := range book.BidPricesDescending() {
			if price <= trueValue || toSell == 0 {
				break
			}
			volume := min(toSell, book.BuyOrders[price])
			toSell -= volume
			orders[symbol] = append(orders[symbol], trader.Sell(symbol, price, volume))
		}
	}

	a.log.Flush(state, orders)
	return orders, nil
}
