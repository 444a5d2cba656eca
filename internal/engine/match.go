package engine

import (
	"github.com/backtide/backtide/internal/market"
	"github.com/backtide/backtide/internal/trader"
)

// Fill is the outcome of matching one accepted order against a book.
type Fill struct {
	Trades        []market.TradeRecord
	PositionDelta int
	CashDelta     float64
}

// Match executes an accepted order against the book, mutating its resting
// volumes. Buys walk ask levels in ascending price order, sells walk bid
// levels in descending order; only levels within the order's limit price
// match, and each level fills min(remaining, resting volume). The unfilled
// remainder is discarded, never rested.
func Match(book *market.OrderBook, order trader.Order, timestamp int) Fill {
	var fill Fill

	if order.Quantity > 0 {
		remaining := order.Quantity
		for _, price := range book.AskPricesAscending() {
			if price > order.Price {
				break
			}

			volume := min(remaining, -book.SellOrders[price])
			fill.Trades = append(fill.Trades, market.TradeRecord{
				Symbol:    order.Symbol,
				Price:     float64(price),
				Quantity:  volume,
				Buyer:     market.Submission,
				Timestamp: timestamp,
			})
			fill.PositionDelta += volume
			fill.CashDelta -= float64(price * volume)

			book.SellOrders[price] += volume
			if book.SellOrders[price] == 0 {
				delete(book.SellOrders, price)
			}

			remaining -= volume
			if remaining == 0 {
				break
			}
		}
	} else if order.Quantity < 0 {
		remaining := -order.Quantity
		for _, price := range book.BidPricesDescending() {
			if price < order.Price {
				break
			}

			volume := min(remaining, book.BuyOrders[price])
			fill.Trades = append(fill.Trades, market.TradeRecord{
				Symbol:    order.Symbol,
				Price:     float64(price),
				Quantity:  volume,
				Seller:    market.Submission,
				Timestamp: timestamp,
			})
			fill.PositionDelta -= volume
			fill.CashDelta += float64(price * volume)

			book.BuyOrders[price] -= volume
			if book.BuyOrders[price] == 0 {
				delete(book.BuyOrders, price)
			}

			remaining -= volume
			if remaining == 0 {
				break
			}
		}
	}

	return fill
}
