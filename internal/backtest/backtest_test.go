package backtest

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/backtide/backtide/internal/ingestion"
	"github.com/backtide/backtide/internal/report"
	"github.com/backtide/backtide/internal/trader"
)

type quietAlgo struct{}

func (quietAlgo) Run(*trader.State) (map[string][]trader.Order, error) { return nil, nil }

func testRegistry(t *testing.T) *trader.Registry {
	t.Helper()
	reg := trader.NewRegistry()
	if err := reg.Register("quiet", func(*trader.Log) trader.Algorithm { return quietAlgo{} }); err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

// writeDay seeds a minimal valid data directory for one day.
func writeDay(t *testing.T, dataDir string, ref ingestion.DayRef) {
	t.Helper()
	dir := filepath.Join(dataDir, "round"+strconv.Itoa(ref.Round))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	day := strconv.Itoa(ref.Day)
	prices := "day;timestamp;product;bid_price_1;bid_volume_1;bid_price_2;bid_volume_2;bid_price_3;bid_volume_3;" +
		"ask_price_1;ask_volume_1;ask_price_2;ask_volume_2;ask_price_3;ask_volume_3;mid_price;profit_and_loss\n" +
		day + ";0;PEARLS;10002;5;;;;;10004;7;;;;;10003.0;0.0\n" +
		day + ";100;PEARLS;10001;3;;;;;10005;2;;;;;10003.0;0.0\n"
	trades := "timestamp;buyer;seller;symbol;currency;price;quantity\n0;;;PEARLS;SEASHELLS;10003.0;2\n"

	if err := os.WriteFile(filepath.Join(dir, filepath.Base(ingestion.PricesPath(dataDir, ref))), []byte(prices), 0644); err != nil {
		t.Fatalf("write prices: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filepath.Base(ingestion.TradesPath(dataDir, ref))), []byte(trades), 0644); err != nil {
		t.Fatalf("write trades: %v", err)
	}
}

func withFixedNow(t *testing.T, fixed time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = prev })
}

var testLimits = map[string]int{"PEARLS": 20}

func TestRun_SingleDay(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	writeDay(t, dataDir, ingestion.DayRef{Round: 1, Day: 0})
	withFixedNow(t, time.Date(2026, 4, 12, 14, 5, 9, 0, time.UTC))

	summary, err := Run(context.Background(), testRegistry(t), Options{
		Algorithm: "quiet",
		Selectors: []string{"1-0"},
		DataDir:   dataDir,
		OutputDir: outDir,
		Limits:    testLimits,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if summary.FileName != "1-0_2026-04-12_14-05-09.log" {
		t.Fatalf("file name: got %q", summary.FileName)
	}
	if len(summary.Days) != 1 || summary.Total != 0 {
		t.Fatalf("summary: got %+v", summary)
	}
	if _, ok := summary.Days[0].Products["PEARLS"]; !ok {
		t.Fatalf("day profit lacks product breakdown: %+v", summary.Days[0])
	}
	if !strings.Contains(summary.Visualizer, "?open=http://localhost:8000/backtests/"+summary.FileName) {
		t.Fatalf("visualizer url: got %q", summary.Visualizer)
	}

	data, err := os.ReadFile(summary.Path)
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "Sandbox logs:\n") {
		t.Fatalf("bundle prefix: got %q", content[:30])
	}
	if !strings.Contains(content, report.ActivityHeader) {
		t.Fatalf("bundle missing activity header")
	}
	if !strings.Contains(content, "0;100;PEARLS;") {
		t.Fatalf("bundle missing activity rows:\n%s", content)
	}
}

func TestRun_WholeRoundMerges(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	writeDay(t, dataDir, ingestion.DayRef{Round: 1, Day: 0})
	writeDay(t, dataDir, ingestion.DayRef{Round: 1, Day: 1})
	withFixedNow(t, time.Date(2026, 4, 12, 14, 5, 9, 0, time.UTC))

	summary, err := Run(context.Background(), testRegistry(t), Options{
		Algorithm: "quiet",
		Selectors: []string{"1"},
		DataDir:   dataDir,
		OutputDir: outDir,
		Limits:    testLimits,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if summary.FileName != "1-0-1-1_2026-04-12_14-05-09.log" {
		t.Fatalf("file name: got %q", summary.FileName)
	}
	if len(summary.Days) != 2 {
		t.Fatalf("day profits: got %+v", summary.Days)
	}

	data, err := os.ReadFile(summary.Path)
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	// day two's rows are rebased past day one's last timestamp plus the gap
	if !strings.Contains(string(data), ";200;PEARLS;") || !strings.Contains(string(data), ";300;PEARLS;") {
		t.Fatalf("bundle missing rebased second day:\n%s", data)
	}
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	_, err := Run(context.Background(), testRegistry(t), Options{
		Algorithm: "nope",
		Selectors: []string{"1-0"},
		DataDir:   t.TempDir(),
		OutputDir: t.TempDir(),
		Limits:    testLimits,
	})
	if err == nil || !strings.Contains(err.Error(), `unknown algorithm "nope"`) {
		t.Fatalf("expected unknown algorithm error, got %v", err)
	}
}

func TestRun_MissingDataFails(t *testing.T) {
	dataDir := t.TempDir()
	writeDay(t, dataDir, ingestion.DayRef{Round: 1, Day: 0})

	_, err := Run(context.Background(), testRegistry(t), Options{
		Algorithm: "quiet",
		Selectors: []string{"1-0", "1-5"},
		DataDir:   dataDir,
		OutputDir: t.TempDir(),
		Limits:    testLimits,
	})
	if err == nil || !strings.Contains(err.Error(), "missing required files") {
		t.Fatalf("expected missing files error, got %v", err)
	}
}

func TestRun_OpensBrowser(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	writeDay(t, dataDir, ingestion.DayRef{Round: 1, Day: 0})
	withFixedNow(t, time.Date(2026, 4, 12, 14, 5, 9, 0, time.UTC))

	var opened string
	prev := openURL
	openURL = func(url string) error {
		opened = url
		return nil
	}
	t.Cleanup(func() { openURL = prev })

	summary, err := Run(context.Background(), testRegistry(t), Options{
		Algorithm:   "quiet",
		Selectors:   []string{"1-0"},
		DataDir:     dataDir,
		OutputDir:   outDir,
		Limits:      testLimits,
		OpenBrowser: true,
		ServerPort:  "9100",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if opened != summary.Visualizer {
		t.Fatalf("opened %q, want %q", opened, summary.Visualizer)
	}
	if !strings.Contains(opened, "localhost:9100") {
		t.Fatalf("custom port not in url: %q", opened)
	}
}

func TestFileName(t *testing.T) {
	refs := []ingestion.DayRef{{Round: 1, Day: -2}, {Round: 1, Day: -1}}
	got := FileName(refs, time.Date(2026, 4, 12, 14, 5, 9, 0, time.UTC))
	if got != "1--2-1--1_2026-04-12_14-05-09.log" {
		t.Fatalf("file name: got %q", got)
	}
}
