package market

import "sort"

// OrderBook is the resting liquidity of one product at one timestamp.
// Bid volumes are positive and ask volumes negative; depleting either side
// to zero removes the level. Books are rebuilt from the snapshot at every
// timestamp and never persist across instants.
type OrderBook struct {
	BuyOrders  map[int]int `json:"buy_orders"`
	SellOrders map[int]int `json:"sell_orders"`
}

// NewOrderBook returns an empty book.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		BuyOrders:  make(map[int]int),
		SellOrders: make(map[int]int),
	}
}

// BookFromSnapshot reconstructs the book quoted by one snapshot row.
func BookFromSnapshot(s PriceSnapshot) *OrderBook {
	book := NewOrderBook()
	for _, level := range s.Bids {
		book.BuyOrders[level.Price] = level.Volume
	}
	for _, level := range s.Asks {
		book.SellOrders[level.Price] = -level.Volume
	}
	return book
}

// BidPricesDescending returns the bid prices best (highest) first.
// Matching order is an explicit sort, never map iteration order.
func (b *OrderBook) BidPricesDescending() []int {
	prices := make([]int, 0, len(b.BuyOrders))
	for price := range b.BuyOrders {
		prices = append(prices, price)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(prices)))
	return prices
}

// AskPricesAscending returns the ask prices best (lowest) first.
func (b *OrderBook) AskPricesAscending() []int {
	prices := make([]int, 0, len(b.SellOrders))
	for price := range b.SellOrders {
		prices = append(prices, price)
	}
	sort.Ints(prices)
	return prices
}

// BestBid returns the highest quoted bid price.
func (b *OrderBook) BestBid() (int, bool) {
	best, found := 0, false
	for price := range b.BuyOrders {
		if !found || price > best {
			best, found = price, true
		}
	}
	return best, found
}

// BestAsk returns the lowest quoted ask price.
func (b *OrderBook) BestAsk() (int, bool) {
	best, found := 0, false
	for price := range b.SellOrders {
		if !found || price < best {
			best, found = price, true
		}
	}
	return best, found
}

// MidPrice returns the integer midpoint between the best bid and best ask.
func (b *OrderBook) MidPrice() (int, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return bid + (ask-bid)/2, true
}
