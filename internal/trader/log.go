package trader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/backtide/backtide/internal/market"
)

// Log collects everything one algorithm instance emits during a Run call.
// The engine drains it after every call into a single diagnostic row, so a
// Log belongs to exactly one session and is not safe for concurrent use.
//
// Two channels feed the row: Print/Printf write into it immediately, while
// Note buffers lines that only appear inside the next Flush payload.
type Log struct {
	row  bytes.Buffer
	logs bytes.Buffer
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Print writes its arguments space-separated into the current row,
// terminated by a newline.
func (l *Log) Print(a ...any) {
	fmt.Fprintln(&l.row, a...)
}

// Printf writes formatted text into the current row.
func (l *Log) Printf(format string, a ...any) {
	fmt.Fprintf(&l.row, format, a...)
}

// Note buffers a line for the logs field of the next Flush or
// FlushCompressed call instead of writing it into the row directly.
func (l *Log) Note(a ...any) {
	fmt.Fprintln(&l.logs, a...)
}

// Flush appends one JSON line carrying the full state, the proposed
// orders, and everything buffered with Note, then clears the Note buffer.
// The timestamp appears as "timestamp":<n>, the pattern the result merger
// rewrites when sessions are concatenated.
func (l *Log) Flush(state *State, orders map[string][]Order) {
	l.flushJSON(map[string]any{
		"state":  state,
		"orders": orders,
		"logs":   l.logs.String(),
	})
}

// FlushCompressed is Flush with the compact single-letter state encoding.
// The timestamp appears as "t":<n>.
func (l *Log) FlushCompressed(state *State, orders map[string][]Order) {
	depths := make(map[string][]map[int]int, len(state.OrderDepths))
	for symbol, book := range state.OrderDepths {
		depths[symbol] = []map[int]int{book.BuyOrders, book.SellOrders}
	}

	listings := make([][]any, 0, len(state.Listings))
	for _, symbol := range sortedSymbols(state.Listings) {
		listing := state.Listings[symbol]
		listings = append(listings, []any{listing.Symbol, listing.Product, listing.Denomination})
	}

	flat := make([][]any, 0)
	for _, symbol := range sortedSymbols(orders) {
		for _, order := range orders[symbol] {
			flat = append(flat, []any{order.Symbol, order.Price, order.Quantity})
		}
	}

	l.flushJSON(map[string]any{
		"state": map[string]any{
			"t":  state.Timestamp,
			"l":  listings,
			"od": depths,
			"ot": compressTrades(state.OwnTrades),
			"mt": compressTrades(state.MarketTrades),
			"p":  state.Position,
			"o":  state.Observations,
		},
		"orders": flat,
		"logs":   l.logs.String(),
	})
}

// Drain returns the row text accumulated since the last drain and resets
// the row buffer.
func (l *Log) Drain() string {
	text := l.row.String()
	l.row.Reset()
	return text
}

func (l *Log) flushJSON(payload any) {
	defer l.logs.Reset()

	b, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(&l.row, "log flush failed: %v\n", err)
		return
	}
	l.row.Write(b)
	l.row.WriteByte('\n')
}

func compressTrades(trades map[string][]market.TradeRecord) [][]any {
	flat := make([][]any, 0)
	for _, symbol := range sortedSymbols(trades) {
		for _, trade := range trades[symbol] {
			flat = append(flat, []any{trade.Symbol, trade.Buyer, trade.Seller, trade.Price, trade.Quantity, trade.Timestamp})
		}
	}
	return flat
}

func sortedSymbols[T any](m map[string]T) []string {
	symbols := make([]string, 0, len(m))
	for symbol := range m {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
