package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backtide/backtide/internal/market"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return p
}

const pricesHeader = "day;timestamp;product;bid_price_1;bid_volume_1;bid_price_2;bid_volume_2;bid_price_3;bid_volume_3;ask_price_1;ask_volume_1;ask_price_2;ask_volume_2;ask_price_3;ask_volume_3;mid_price;profit_and_loss\n"

const tradesHeader = "timestamp;buyer;seller;symbol;currency;price;quantity\n"

func TestLoadPrices_TableDriven(t *testing.T) {
	dir := t.TempDir()
	validRow := "-2;0;PEARLS;10002;5;10000;11;;;10004;7;10005;10;;;10003.0;0.0\n"

	cases := []struct {
		name    string
		content string
		wantErr bool
		rows    int
	}{
		{name: "ok single row", content: pricesHeader + validRow, rows: 1},
		{name: "ok multiple rows", content: pricesHeader + validRow + validRow, rows: 2},
		{name: "observation row without levels", content: pricesHeader + "-2;0;DOLPHIN_SIGHTINGS;;;;;;;;;;;;;3051.0;0.0\n", rows: 1},
		{name: "float formatted day tolerated", content: pricesHeader + "0.0;100;PEARLS;10002;5;;;;;10004;7;;;;;10003.0;0.0\n", rows: 1},
		{name: "bad header order", content: "x;y;z\n" + validRow, wantErr: true},
		{name: "bad col count", content: pricesHeader + "a;b\n", wantErr: true},
		{name: "price without volume", content: pricesHeader + "-2;0;PEARLS;10002;;;;;;10004;7;;;;;10003.0;0.0\n", wantErr: true},
		{name: "invalid bid price", content: pricesHeader + "-2;0;PEARLS;abc;5;;;;;10004;7;;;;;10003.0;0.0\n", wantErr: true},
		{name: "empty timestamp", content: pricesHeader + "-2;;PEARLS;10002;5;;;;;10004;7;;;;;10003.0;0.0\n", wantErr: true},
		{name: "empty product", content: pricesHeader + "-2;0;;10002;5;;;;;10004;7;;;;;10003.0;0.0\n", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, dir, "prices.csv", tc.content)
			snaps, err := LoadPrices(context.Background(), path)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(snaps) != tc.rows {
				t.Fatalf("rows: want %d got %d", tc.rows, len(snaps))
			}
		})
	}
}

func TestLoadPrices_Fields(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "prices.csv", pricesHeader+"-2;100;PEARLS;10002;5;10000;11;9995;2;10004;7;10005;10;;;10003.0;-36.5\n")

	snaps, err := LoadPrices(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("rows: want 1 got %d", len(snaps))
	}

	s := snaps[0]
	if s.Day != -2 || s.Timestamp != 100 || s.Product != "PEARLS" {
		t.Fatalf("key fields: got %+v", s)
	}
	wantBids := []market.Level{{Price: 10002, Volume: 5}, {Price: 10000, Volume: 11}, {Price: 9995, Volume: 2}}
	if len(s.Bids) != len(wantBids) {
		t.Fatalf("bids: want %d got %d", len(wantBids), len(s.Bids))
	}
	for i, lv := range wantBids {
		if s.Bids[i] != lv {
			t.Fatalf("bid %d: want %+v got %+v", i, lv, s.Bids[i])
		}
	}
	wantAsks := []market.Level{{Price: 10004, Volume: 7}, {Price: 10005, Volume: 10}}
	if len(s.Asks) != len(wantAsks) {
		t.Fatalf("asks: want %d got %d", len(wantAsks), len(s.Asks))
	}
	if s.MidPrice != 10003.0 {
		t.Fatalf("mid: got %v", s.MidPrice)
	}
	if s.ProfitLoss != -36.5 {
		t.Fatalf("pnl: got %v", s.ProfitLoss)
	}
}

func TestLoadPrices_ContextCanceled(t *testing.T) {
	dir := t.TempDir()
	// many rows to ensure the loop would run if not canceled
	var b strings.Builder
	b.WriteString(pricesHeader)
	for i := 0; i < 1000; i++ {
		b.WriteString("-2;0;PEARLS;10002;5;;;;;10004;7;;;;;10003.0;0.0\n")
	}
	path := writeTempFile(t, dir, "big.csv", b.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // immediately canceled
	if _, err := LoadPrices(ctx, path); err == nil {
		t.Fatalf("expected context canceled error")
	}
}

func TestLoadTrades_TableDriven(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		content string
		wantErr bool
		rows    int
	}{
		{name: "ok anonymized", content: tradesHeader + "0;;;PEARLS;SEASHELLS;10002.0;4\n", rows: 1},
		{name: "ok with counterparties", content: tradesHeader + "100;Caesar;Camilla;BANANAS;SEASHELLS;4890;3\n", rows: 1},
		{name: "bad header", content: "a;b;c;d;e;f;g\n", wantErr: true},
		{name: "bad col count", content: tradesHeader + "0;;;PEARLS\n", wantErr: true},
		{name: "empty symbol", content: tradesHeader + "0;;;;SEASHELLS;10002.0;4\n", wantErr: true},
		{name: "invalid quantity", content: tradesHeader + "0;;;PEARLS;SEASHELLS;10002.0;many\n", wantErr: true},
		{name: "empty timestamp", content: tradesHeader + ";;;PEARLS;SEASHELLS;10002.0;4\n", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, dir, "trades.csv", tc.content)
			trades, err := LoadTrades(context.Background(), path)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(trades) != tc.rows {
				t.Fatalf("rows: want %d got %d", tc.rows, len(trades))
			}
		})
	}
}

func TestLoadTrades_Fields(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "trades.csv", tradesHeader+"3500;Caesar;;PINA_COLADAS;SEASHELLS;14895.5;12\n")

	trades, err := LoadTrades(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := market.TradeRecord{Symbol: "PINA_COLADAS", Price: 14895.5, Quantity: 12, Buyer: "Caesar", Seller: "", Timestamp: 3500}
	if len(trades) != 1 || trades[0] != want {
		t.Fatalf("trade: want %+v got %+v", want, trades)
	}
}
