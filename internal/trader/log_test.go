package trader

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/backtide/backtide/internal/market"
)

func sampleState() *State {
	book := market.NewOrderBook()
	book.BuyOrders[10] = 5
	book.SellOrders[12] = -5

	return &State{
		Listings: map[string]market.Listing{
			"PEARLS": {Symbol: "PEARLS", Product: "PEARLS", Denomination: "SEASHELLS"},
		},
		MarketTrades: map[string][]market.TradeRecord{},
		Observations: map[string]int{"DOLPHIN_SIGHTINGS": 3051},
		OrderDepths:  map[string]*market.OrderBook{"PEARLS": book},
		OwnTrades:    map[string][]market.TradeRecord{},
		Position:     map[string]int{"PEARLS": 3},
		Timestamp:    100,
	}
}

func TestLog_PrintAndDrain(t *testing.T) {
	log := NewLog()
	log.Print("hello", 42)
	log.Printf("x=%d\n", 7)

	if got := log.Drain(); got != "hello 42\nx=7\n" {
		t.Fatalf("drained %q", got)
	}
	if got := log.Drain(); got != "" {
		t.Fatalf("second drain should be empty, got %q", got)
	}
}

func TestLog_NoteOnlySurfacesInFlush(t *testing.T) {
	log := NewLog()
	log.Note("looking at", "PEARLS")

	if got := log.Drain(); got != "" {
		t.Fatalf("Note leaked into the row: %q", got)
	}

	log.Note("still here")
	log.Flush(sampleState(), nil)

	row := log.Drain()
	var payload struct {
		Logs string `json:"logs"`
	}
	if err := json.Unmarshal([]byte(row), &payload); err != nil {
		t.Fatalf("flush row is not JSON: %v (%q)", err, row)
	}
	if payload.Logs != "still here\n" {
		t.Fatalf("logs field = %q", payload.Logs)
	}

	// Note buffer must be cleared by the flush.
	log.Flush(sampleState(), nil)
	if err := json.Unmarshal([]byte(log.Drain()), &payload); err != nil {
		t.Fatalf("second flush row is not JSON: %v", err)
	}
	if payload.Logs != "" {
		t.Fatalf("logs not cleared after flush: %q", payload.Logs)
	}
}

func TestLog_FlushShape(t *testing.T) {
	log := NewLog()
	orders := map[string][]Order{
		"PEARLS": {Buy("PEARLS", 12, 3)},
	}
	log.Flush(sampleState(), orders)

	row := log.Drain()
	if !strings.HasSuffix(row, "\n") {
		t.Fatalf("flush row must end with a newline: %q", row)
	}
	if !strings.Contains(row, `"timestamp":100`) {
		t.Fatalf("flush row lacks the timestamp marker: %q", row)
	}
	if !strings.HasPrefix(row, `{"logs":`) {
		t.Fatalf("envelope keys not in sorted order: %q", row)
	}

	var payload struct {
		State  json.RawMessage    `json:"state"`
		Orders map[string][]Order `json:"orders"`
	}
	if err := json.Unmarshal([]byte(row), &payload); err != nil {
		t.Fatalf("flush row is not JSON: %v", err)
	}
	if len(payload.Orders["PEARLS"]) != 1 || payload.Orders["PEARLS"][0].Quantity != 3 {
		t.Fatalf("orders not round-tripped: %+v", payload.Orders)
	}
	if !strings.Contains(string(payload.State), `"order_depths"`) {
		t.Fatalf("state missing order_depths: %s", payload.State)
	}
}

func TestLog_FlushCompressedShape(t *testing.T) {
	log := NewLog()
	state := sampleState()
	state.OwnTrades = map[string][]market.TradeRecord{
		"PEARLS": {{Symbol: "PEARLS", Price: 12, Quantity: 3, Buyer: "SUBMISSION", Timestamp: 0}},
	}
	log.FlushCompressed(state, map[string][]Order{"PEARLS": {Sell("PEARLS", 13, 2)}})

	row := log.Drain()
	if !strings.Contains(row, `"t":100`) {
		t.Fatalf("compressed row lacks the t marker: %q", row)
	}

	var payload struct {
		State struct {
			T  int              `json:"t"`
			L  [][]any          `json:"l"`
			Od map[string][]any `json:"od"`
			Ot [][]any          `json:"ot"`
			P  map[string]int   `json:"p"`
			O  map[string]int   `json:"o"`
		} `json:"state"`
		Orders [][]any `json:"orders"`
	}
	if err := json.Unmarshal([]byte(row), &payload); err != nil {
		t.Fatalf("compressed row is not JSON: %v (%q)", err, row)
	}
	if payload.State.T != 100 {
		t.Fatalf("t = %d, want 100", payload.State.T)
	}
	if len(payload.State.L) != 1 || payload.State.L[0][0] != "PEARLS" {
		t.Fatalf("listings not compressed: %v", payload.State.L)
	}
	if len(payload.State.Ot) != 1 || len(payload.State.Ot[0]) != 6 {
		t.Fatalf("own trades not compressed to 6-element rows: %v", payload.State.Ot)
	}
	if len(payload.Orders) != 1 || payload.Orders[0][2].(float64) != -2 {
		t.Fatalf("orders not compressed: %v", payload.Orders)
	}
	if payload.State.O["DOLPHIN_SIGHTINGS"] != 3051 {
		t.Fatalf("observations lost: %v", payload.State.O)
	}
}
