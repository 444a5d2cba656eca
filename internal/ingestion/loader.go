package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/backtide/backtide/internal/market"
)

// expectedPriceHeaders enforces strict column ordering for price files.
// If the header doesn't match EXACTLY (order + count), loading must fail.
var expectedPriceHeaders = []string{
	"day",
	"timestamp",
	"product",
	"bid_price_1",
	"bid_volume_1",
	"bid_price_2",
	"bid_volume_2",
	"bid_price_3",
	"bid_volume_3",
	"ask_price_1",
	"ask_volume_1",
	"ask_price_2",
	"ask_volume_2",
	"ask_price_3",
	"ask_volume_3",
	"mid_price",
	"profit_and_loss",
}

// expectedTradeHeaders enforces strict column ordering for trade files.
var expectedTradeHeaders = []string{
	"timestamp",
	"buyer",
	"seller",
	"symbol",
	"currency",
	"price",
	"quantity",
}

// LoadPrices reads one price file and converts each row into a snapshot.
// It fails on:
//   - header not matching expected order/length
//   - malformed numeric cells
//   - unrecoverable I/O errors
//
// It tolerates:
//   - empty book level cells (levels are read left to right and stop at
//     the first empty price cell)
//   - empty mid_price / profit_and_loss cells (they become zero values)
//
// Parameters:
//   - ctx:  context for cancellation.
//   - path: file path.
//
// Returns:
//   - []market.PriceSnapshot: one snapshot per row, in file order.
//   - error: first error encountered (if any).
func LoadPrices(ctx context.Context, path string) ([]market.PriceSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // allow variable but we'll check explicitly

	if err := validateHeader(r, expectedPriceHeaders); err != nil {
		return nil, err
	}

	var snapshots []market.PriceSnapshot
	lineNumber := 1 // header already read

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedPriceHeaders) {
			return nil, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedPriceHeaders), len(rec))
		}

		s, err := recordToSnapshot(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, nil
}

// LoadTrades reads one trade file. Structure and failure modes mirror
// LoadPrices; buyer and seller cells may be empty (anonymized files
// leave them blank).
func LoadTrades(ctx context.Context, path string) ([]market.TradeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	if err := validateHeader(r, expectedTradeHeaders); err != nil {
		return nil, err
	}

	var trades []market.TradeRecord
	lineNumber := 1

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedTradeHeaders) {
			return nil, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedTradeHeaders), len(rec))
		}

		t, err := recordToTrade(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		trades = append(trades, t)
	}

	return trades, nil
}

// validateHeader reads the first record and checks it strictly against
// the expected column names.
func validateHeader(r *csv.Reader, expected []string) error {
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expected) {
		return fmt.Errorf("invalid header length: expected %d, got %d", len(expected), len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expected[i] {
			return fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expected[i], h)
		}
	}
	return nil
}

// recordToSnapshot converts a single CSV record (already validated length==17)
// into a market.PriceSnapshot. It is STRICT about types/format but TOLERATES
// empty level cells and empty mid/profit cells.
//
// Column order:
//
//	 0 day               → Day (int)
//	 1 timestamp         → Timestamp (int)
//	 2 product           → Product (string)
//	 3..8 bid levels     → Bids (price/volume pairs, stop at first empty price)
//	 9..14 ask levels    → Asks (price/volume pairs, stop at first empty price)
//	15 mid_price         → MidPrice (float, empty→0)
//	16 profit_and_loss   → ProfitLoss (float, empty→0)
func recordToSnapshot(rec []string) (market.PriceSnapshot, error) {
	var s market.PriceSnapshot
	var err error

	if s.Day, err = parseInt(rec[0], "day"); err != nil {
		return s, err
	}
	if s.Timestamp, err = parseInt(rec[1], "timestamp"); err != nil {
		return s, err
	}
	s.Product = strings.TrimSpace(rec[2])
	if s.Product == "" {
		return s, fmt.Errorf("empty product")
	}

	if s.Bids, err = parseLevels(rec[3:9], "bid"); err != nil {
		return s, err
	}
	if s.Asks, err = parseLevels(rec[9:15], "ask"); err != nil {
		return s, err
	}

	if s.MidPrice, err = parseOptionalFloat(rec[15], "mid_price"); err != nil {
		return s, err
	}
	if s.ProfitLoss, err = parseOptionalFloat(rec[16], "profit_and_loss"); err != nil {
		return s, err
	}
	return s, nil
}

// recordToTrade converts a single CSV record (already validated length==7)
// into a market.TradeRecord. The currency column (4) is not kept; every
// trade in the data settles in the same denomination.
func recordToTrade(rec []string) (market.TradeRecord, error) {
	var t market.TradeRecord
	var err error

	if t.Timestamp, err = parseInt(rec[0], "timestamp"); err != nil {
		return t, err
	}
	t.Buyer = strings.TrimSpace(rec[1])
	t.Seller = strings.TrimSpace(rec[2])
	t.Symbol = strings.TrimSpace(rec[3])
	if t.Symbol == "" {
		return t, fmt.Errorf("empty symbol")
	}

	if s := strings.TrimSpace(rec[5]); s != "" {
		t.Price, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return t, fmt.Errorf("invalid price: %v", err)
		}
	}
	if t.Quantity, err = parseInt(rec[6], "quantity"); err != nil {
		return t, err
	}
	return t, nil
}

// parseLevels reads up to three price/volume pairs from six cells,
// stopping at the first empty price cell. A price without a volume is a
// format error.
func parseLevels(cells []string, side string) ([]market.Level, error) {
	var levels []market.Level
	for i := 0; i+1 < len(cells); i += 2 {
		price := strings.TrimSpace(cells[i])
		if price == "" {
			break
		}
		p, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s_price_%d: %v", side, i/2+1, err)
		}
		volume := strings.TrimSpace(cells[i+1])
		if volume == "" {
			return nil, fmt.Errorf("%s_price_%d has no matching volume", side, i/2+1)
		}
		v, err := strconv.ParseFloat(volume, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s_volume_%d: %v", side, i/2+1, err)
		}
		levels = append(levels, market.Level{Price: int(p), Volume: int(v)})
	}
	return levels, nil
}

func parseInt(cell, name string) (int, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, fmt.Errorf("empty %s", name)
	}
	// Some exports write integral columns as floats ("0.0").
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return int(v), nil
}

func parseOptionalFloat(cell, name string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}
