package strategy

import (
	"math"

	"github.com/backtide/backtide/internal/trader"
)

var hybridLimits = map[string]int{
	"PEARLS":        20,
	"BANANAS":       20,
	"COCONUTS":      600,
	"PINA_COLADAS":  300,
	"DIVING_GEAR":   50,
	"BERRIES":       250,
	"BAGUETTE":      150,
	"DIP":           300,
	"UKULELE":       70,
	"PICNIC_BASKET": 70,
}

var hybridSymbols = []string{
	"PEARLS",
	"BANANAS",
	"COCONUTS",
	"PINA_COLADAS",
	"DIVING_GEAR",
	"BERRIES",
	"BAGUETTE",
	"DIP",
	"UKULELE",
	"PICNIC_BASKET",
}

// hybridAlgo runs one sub-strategy per symbol: market making on the
// stable products and signal-driven directional trading on the rest. Its
// diagnostic dump uses the compressed log format to stay inside the
// platform's output size limits.
type hybridAlgo struct {
	log        *trader.Log
	strategies map[string]symbolStrategy
}

func newHybrid(log *trader.Log) trader.Algorithm {
	strategies := map[string]symbolStrategy{
		"PEARLS":        newMaker("PEARLS"),
		"BANANAS":       newMaker("BANANAS"),
		"COCONUTS":      newDirectional("COCONUTS", cocoPinaSignal),
		"PINA_COLADAS":  newDirectional("PINA_COLADAS", cocoPinaSignal),
		"DIVING_GEAR":   newDirectional("DIVING_GEAR", divingGearSignal),
		"BERRIES":       newDirectional("BERRIES", berriesSignal),
		"BAGUETTE":      newDirectional("BAGUETTE", picnicBasketSignal),
		"DIP":           newDirectional("DIP", picnicBasketSignal),
		"UKULELE":       newDirectional("UKULELE", picnicBasketSignal),
		"PICNIC_BASKET": newDirectional("PICNIC_BASKET", picnicBasketSignal),
	}
	return &hybridAlgo{log: log, strategies: strategies}
}

func (a *hybridAlgo) Run(state *trader.State) (map[string][]trader.Order, error) {
	orders := make(map[string][]trader.Order)
	for _, symbol := range hybridSymbols {
		if _, ok := state.OrderDepths[symbol]; ok {
			orders[symbol] = a.strategies[symbol].run(state)
		}
	}

	a.log.FlushCompressed(state, orders)
	return orders, nil
}

// symbolStrategy is one symbol's decision logic inside hybridAlgo.
type symbolStrategy interface {
	run(state *trader.State) []trader.Order
}

// makerStrategy is the market making engine scoped to one symbol.
type makerStrategy struct {
	symbol  string
	limit   int
	prices  []int
	spreads []int
}

func newMaker(symbol string) *makerStrategy {
	return &makerStrategy{symbol: symbol, limit: hybridLimits[symbol]}
}

func (s *makerStrategy) run(state *trader.State) []trader.Order {
	book, ok := state.OrderDepths[s.symbol]
	if !ok {
		return nil
	}
	midPrice, ok := book.MidPrice()
	if !ok {
		return nil
	}
	bestBid, _ := book.BestBid()
	bestAsk, _ := book.BestAsk()

	s.prices = append(s.prices, midPrice)
	s.spreads = append(s.spreads, bestAsk-bestBid)

	if len(s.prices) < 10 {
		return nil
	}

	commonPrice, commonCount := modal(s.prices)
	var trueValue int
	if float64(commonCount) > float64(len(s.prices))/3 {
		trueValue = commonPrice
	} else {
		trueValue = int(math.RoundToEven(mean(last(s.prices, 10))))
	}

	position := state.Position[s.symbol]
	toBuy := s.limit - position
	toSell := s.limit + position

	spread := int(math.RoundToEven(median(last(s.spreads, 10))))
	delta := max(1, spread/2-1)

	var orders []trader.Order
	if toBuy > 0 {
		orders = append(orders, trader.Buy(s.symbol, trueValue-delta, toBuy))
	}
	if toSell > 0 {
		orders = append(orders, trader.Sell(s.symbol, trueValue+delta, toSell))
	}
	return orders
}

// signal ranks the stances a directional strategy can take.
type signal int

const (
	signalDoNothing signal = iota
	signalNeutral
	signalLong
	signalShort
)

// directionalStrategy drives the position toward flat, max long, or max
// short depending on its signal, always crossing the spread and capping
// at the volume resting at the best level.
type directionalStrategy struct {
	symbol string
	limit  int
	signal func(state *trader.State) signal
}

func newDirectional(symbol string, sig func(state *trader.State) signal) *directionalStrategy {
	return &directionalStrategy{symbol: symbol, limit: hybridLimits[symbol], signal: sig}
}

func (s *directionalStrategy) run(state *trader.State) []trader.Order {
	book, ok := state.OrderDepths[s.symbol]
	if !ok {
		return nil
	}
	position := state.Position[s.symbol]

	var toBuy, toSell int
	switch s.signal(state) {
	case signalNeutral:
		if position > 0 {
			toSell = position
		} else {
			toBuy = -position
		}
	case signalLong:
		toBuy = s.limit - position
	case signalShort:
		toSell = s.limit + position
	}

	var orders []trader.Order
	if toBuy > 0 {
		if bestAsk, ok := book.BestAsk(); ok {
			volume := min(toBuy, -book.SellOrders[bestAsk])
			orders = append(orders, trader.Buy(s.symbol, bestAsk, volume))
		}
	}
	if toSell > 0 {
		if bestBid, ok := book.BestBid(); ok {
			volume := min(toSell, book.BuyOrders[bestBid])
			orders = append(orders, trader.Sell(s.symbol, bestBid, volume))
		}
	}
	return orders
}

func midPrice(state *trader.State, symbol string) (float64, bool) {
	book, ok := state.OrderDepths[symbol]
	if !ok {
		return 0, false
	}
	bestBid, hasBid := book.BestBid()
	bestAsk, hasAsk := book.BestAsk()
	if !hasBid || !hasAsk {
		return 0, false
	}
	return float64(bestBid+bestAsk) / 2, true
}

func cocoPinaSignal(state *trader.State) signal {
	price, ok := midPrice(state, "PINA_COLADAS")
	if !ok {
		return signalDoNothing
	}

	if state.Timestamp >= 950_000 {
		return signalNeutral
	}

	switch {
	case price >= 14_940:
		return signalShort
	case price <= 14_860:
		return signalLong
	}
	return signalDoNothing
}

func divingGearSignal(*trader.State) signal {
	return signalLong
}

func berriesSignal(state *trader.State) signal {
	const buyFrom, sellFrom = 350_000, 500_000

	switch {
	case state.Timestamp >= sellFrom:
		return signalShort
	case state.Timestamp >= buyFrom:
		return signalLong
	}
	return signalNeutral
}

func picnicBasketSignal(state *trader.State) signal {
	price, ok := midPrice(state, "PICNIC_BASKET")
	if !ok {
		return signalDoNothing
	}

	switch {
	case price >= 74_200:
		return signalShort
	case price <= 73_700:
		return signalLong
	}
	return signalDoNothing
}
