// Package trader defines the contract between the replay engine and a
// decision algorithm: the state handed to the algorithm each timestamp,
// the orders it returns, and the diagnostic log it writes into.
package trader

import "github.com/backtide/backtide/internal/market"

// State is the view of the market an algorithm receives at one timestamp.
// Algorithms may keep private memory across calls but must not mutate the
// book or trade data they are handed.
//
// Fields are declared in wire-name order; diagnostic dumps of the state
// must keep the historical JSON shape consumed by the visualizer.
type State struct {
	Listings     map[string]market.Listing       `json:"listings"`
	MarketTrades map[string][]market.TradeRecord `json:"market_trades"`
	Observations map[string]int                  `json:"observations"`
	OrderDepths  map[string]*market.OrderBook    `json:"order_depths"`
	OwnTrades    map[string][]market.TradeRecord `json:"own_trades"`
	Position     map[string]int                  `json:"position"`
	Timestamp    int                             `json:"timestamp"`
}

// Order is a limit order proposed by an algorithm: positive quantity to
// buy, negative to sell. Orders live for a single timestamp; any unfilled
// remainder is discarded, never rested.
type Order struct {
	Symbol   string `json:"symbol"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// Buy returns an order buying quantity units at the given limit price.
func Buy(symbol string, price, quantity int) Order {
	return Order{Symbol: symbol, Price: price, Quantity: quantity}
}

// Sell returns an order selling quantity units at the given limit price.
func Sell(symbol string, price, quantity int) Order {
	return Order{Symbol: symbol, Price: price, Quantity: -quantity}
}

// Algorithm is a decision policy driven by the replay engine. Run receives
// the state of one timestamp and returns the orders to place, keyed by
// symbol. The engine never requires an algorithm to respect position
// limits; the limit guard enforces them afterwards.
//
// One instance drives at most one session. Instances may keep private
// memory between calls, which is why parallel sessions each get a fresh
// instance from a Factory.
type Algorithm interface {
	Run(state *State) (map[string][]Order, error)
}

// Factory builds a fresh Algorithm wired to a session's diagnostic log.
type Factory func(log *Log) Algorithm
