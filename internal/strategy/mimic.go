package strategy

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/backtide/backtide/internal/market"
	"github.com/backtide/backtide/internal/trader"
)

var mimicLimits = map[string]int{
	"PEARLS":       20,
	"BANANAS":      20,
	"COCONUTS":     600,
	"PINA_COLADAS": 300,
}

// quote is the two-sided presence mimicAlgo wants to show each timestamp:
// join the best bid and best ask, sized to half the limit on either side
// of the current position.
type quote struct {
	bidPrice  int
	bidVolume int
	askPrice  int
	askVolume int
}

// mimicAlgo keeps a standing quote at the top of the book. Each call it
// diffs the previous timestamp's fills against the quote it wants now:
// fills at a stale price are unwound, and the remainder is re-quoted.
type mimicAlgo struct {
	log *trader.Log
}

func newMimic(log *trader.Log) trader.Algorithm {
	return &mimicAlgo{log: log}
}

func (a *mimicAlgo) Run(state *trader.State) (map[string][]trader.Order, error) {
	for _, symbol := range sortedTradeSymbols(state.OwnTrades) {
		for _, trade := range state.OwnTrades[symbol] {
			price := strconv.FormatFloat(trade.Price, 'f', -1, 64)
			if trade.Buyer == market.Submission {
				a.log.Note(fmt.Sprintf("BUY %d %s @ %s", trade.Quantity, trade.Symbol, price))
			} else {
				a.log.Note(fmt.Sprintf("SELL %d %s @ %s", trade.Quantity, trade.Symbol, price))
			}
		}
	}

	orders := make(map[string][]trader.Order)

	listed := make([]string, 0, len(state.Listings))
	for symbol := range state.Listings {
		listed = append(listed, symbol)
	}
	sort.Strings(listed)

	for _, symbol := range listed {
		if _, ok := mimicLimits[symbol]; !ok {
			continue
		}
		q, ok := a.getQuote(state, symbol)
		if !ok {
			continue
		}
		orders[symbol] = a.moveToQuote(state, symbol, q)
	}

	a.log.Flush(state, orders)
	return orders, nil
}

func (a *mimicAlgo) getQuote(state *trader.State, symbol string) (quote, bool) {
	book, ok := state.OrderDepths[symbol]
	if !ok {
		return quote{}, false
	}
	bidPrice, hasBid := book.BestBid()
	askPrice, hasAsk := book.BestAsk()
	if !hasBid || !hasAsk {
		return quote{}, false
	}

	position := state.Position[symbol]
	half := mimicLimits[symbol] / 2

	return quote{
		bidPrice:  bidPrice,
		bidVolume: half - position,
		askPrice:  askPrice,
		askVolume: half + position,
	}, true
}

func (a *mimicAlgo) moveToQuote(state *trader.State, symbol string, q quote) []trader.Order {
	var bidFills, askFills []market.TradeRecord
	for _, trade := range state.OwnTrades[symbol] {
		if trade.Buyer == market.Submission {
			bidFills = append(bidFills, trade)
		}
		if trade.Seller == market.Submission {
			askFills = append(askFills, trade)
		}
	}

	orders := a.moveSide(symbol, bidFills, q.bidPrice, q.bidVolume, 1)
	return append(orders, a.moveSide(symbol, askFills, q.askPrice, q.askVolume, -1)...)
}

// moveSide converts one side's previous fills into the orders needed to
// represent the wanted price and volume. sign is +1 for the bid side and
// -1 for the ask side; fills at another price are unwound with the
// opposite sign.
func (a *mimicAlgo) moveSide(symbol string, fills []market.TradeRecord, price, volume, sign int) []trader.Order {
	orders := make([]trader.Order, 0)
	missing := volume

	for _, trade := range fills {
		if trade.Price != float64(price) {
			orders = append(orders, trader.Order{Symbol: symbol, Price: int(trade.Price), Quantity: -sign * trade.Quantity})
		} else {
			missing -= trade.Quantity
		}
	}

	if missing != 0 {
		orders = append(orders, trader.Order{Symbol: symbol, Price: price, Quantity: sign * missing})
	}

	return orders
}

func sortedTradeSymbols(trades map[string][]market.TradeRecord) []string {
	symbols := make([]string, 0, len(trades))
	for symbol := range trades {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
