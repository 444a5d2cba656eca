// Package market holds the typed model of historical market data: price
// snapshots, executed trades, listings, and the order books reconstructed
// from snapshots during replay.
package market

// Denomination is the currency every product is quoted in.
const Denomination = "SEASHELLS"

// Submission is the participant identity carried by fills of the simulated
// trader. Any other identity denotes a historical counterparty.
const Submission = "SUBMISSION"

// Level is one quoted level of a snapshot: a price and the volume resting
// at it. Volumes are stored unsigned as they appear in the price files.
type Level struct {
	Price  int
	Volume int
}

// PriceSnapshot is one row of a price feed: the quoted state of a single
// product at a single timestamp. Immutable once parsed.
//
// Bids and Asks hold at most three levels each, best first. A row without
// any level is observation-only: the product cannot be traded at that
// instant and is exposed to algorithms through its mid price alone.
type PriceSnapshot struct {
	Day        int
	Timestamp  int
	Product    string
	Bids       []Level
	Asks       []Level
	MidPrice   float64
	ProfitLoss float64
}

// HasLevels reports whether the row quotes at least one bid or ask level.
func (s PriceSnapshot) HasLevels() bool {
	return len(s.Bids) > 0 || len(s.Asks) > 0
}

// TradeRecord is one executed trade, historical or simulated.
type TradeRecord struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Buyer     string  `json:"buyer"`
	Seller    string  `json:"seller"`
	Timestamp int     `json:"timestamp"`
}

// Listing is the static metadata of a tradable product.
type Listing struct {
	Symbol       string `json:"symbol"`
	Product      string `json:"product"`
	Denomination string `json:"denomination"`
}
