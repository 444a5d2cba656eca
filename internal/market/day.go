package market

import "sort"

// Day is one historical trading day, indexed for replay: snapshots by
// (timestamp, product), trades by (timestamp, symbol).
//
// Products are partitioned when the day is built: a product is tradable
// when any of its rows quotes at least one level, and observation-only
// when any of its rows quotes none.
type Day struct {
	Round int
	Num   int

	prices     map[int]map[string]PriceSnapshot
	trades     map[int]map[string][]TradeRecord
	timestamps []int
	tradable   []string
	observed   []string
}

// NewDay indexes one day of historical rows. Snapshot timestamps define
// the replay loop; trades outside those timestamps are kept but never
// surface during replay.
func NewDay(round, num int, snapshots []PriceSnapshot, trades []TradeRecord) *Day {
	day := &Day{
		Round:  round,
		Num:    num,
		prices: make(map[int]map[string]PriceSnapshot),
		trades: make(map[int]map[string][]TradeRecord),
	}

	tradable := make(map[string]bool)
	observed := make(map[string]bool)

	for _, snap := range snapshots {
		byProduct, ok := day.prices[snap.Timestamp]
		if !ok {
			byProduct = make(map[string]PriceSnapshot)
			day.prices[snap.Timestamp] = byProduct
			day.timestamps = append(day.timestamps, snap.Timestamp)
		}
		byProduct[snap.Product] = snap

		if snap.HasLevels() {
			tradable[snap.Product] = true
		} else {
			observed[snap.Product] = true
		}
	}
	sort.Ints(day.timestamps)

	for _, trade := range trades {
		bySymbol, ok := day.trades[trade.Timestamp]
		if !ok {
			bySymbol = make(map[string][]TradeRecord)
			day.trades[trade.Timestamp] = bySymbol
		}
		bySymbol[trade.Symbol] = append(bySymbol[trade.Symbol], trade)
	}

	day.tradable = sortedKeys(tradable)
	day.observed = sortedKeys(observed)
	return day
}

// Timestamps returns the snapshot timestamps in ascending order.
func (d *Day) Timestamps() []int {
	return d.timestamps
}

// TradableProducts returns the tradable products in sorted order.
func (d *Day) TradableProducts() []string {
	return d.tradable
}

// ObservationProducts returns the observation-only products in sorted order.
func (d *Day) ObservationProducts() []string {
	return d.observed
}

// SnapshotAt returns the price row of one product at one timestamp.
func (d *Day) SnapshotAt(timestamp int, product string) (PriceSnapshot, bool) {
	snap, ok := d.prices[timestamp][product]
	return snap, ok
}

// TradesAt returns the historical trades executed at one timestamp, keyed
// by symbol. The map is never nil.
func (d *Day) TradesAt(timestamp int) map[string][]TradeRecord {
	if bySymbol, ok := d.trades[timestamp]; ok {
		return bySymbol
	}
	return map[string][]TradeRecord{}
}

// Listings returns the listing metadata of every tradable product.
func (d *Day) Listings() map[string]Listing {
	listings := make(map[string]Listing, len(d.tradable))
	for _, product := range d.tradable {
		listings[product] = Listing{
			Symbol:       product,
			Product:      product,
			Denomination: Denomination,
		}
	}
	return listings
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
