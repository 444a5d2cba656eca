// Package backtest orchestrates full runs: it expands day selectors,
// replays every selected day through a fresh algorithm instance, merges
// the per-day results into one bundle, and writes it where the result
// server can serve it.
package backtest

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/sync/errgroup"

	"github.com/backtide/backtide/internal/engine"
	"github.com/backtide/backtide/internal/ingestion"
	"github.com/backtide/backtide/internal/logger"
	"github.com/backtide/backtide/internal/report"
	"github.com/backtide/backtide/internal/trader"
)

const visualizerBase = "https://jmerle.github.io/imc-prosperity-visualizer/"

// Options configures one backtest run.
type Options struct {
	// Algorithm is the registry name of the algorithm to replay.
	Algorithm string
	// Selectors are day selectors: "ROUND-DAY" or "ROUND".
	Selectors []string
	// DataDir holds the round directories with price and trade files.
	DataDir string
	// OutputDir receives the result bundle.
	OutputDir string
	// Limits caps the position per product.
	Limits map[string]int
	// MergeProfit carries each day's final P&L into the next day's rows.
	MergeProfit bool
	// OpenBrowser opens the visualizer on the written bundle.
	OpenBrowser bool
	// Parallel caps concurrent sessions; 0 means one per CPU.
	Parallel int
	// ServerPort is the local port the visualizer URL points at.
	ServerPort string
}

// DayProfit is one day's final profit before merging, with the
// per-product breakdown.
type DayProfit struct {
	Ref      ingestion.DayRef
	Profit   float64
	Products map[string]float64
}

// Summary describes a finished run.
type Summary struct {
	Algorithm  string
	Refs       []ingestion.DayRef
	FileName   string
	Path       string
	Days       []DayProfit
	Total      float64
	Visualizer string
}

// Indirections for tests: pin the clock, intercept the browser.
var (
	now     = time.Now
	openURL = browser.OpenURL
)

// Run executes the whole pipeline. Sessions for independent days run in
// parallel; the first failing day cancels the rest.
func Run(ctx context.Context, registry *trader.Registry, opts Options) (Summary, error) {
	factory, ok := registry.Lookup(opts.Algorithm)
	if !ok {
		return Summary{}, fmt.Errorf("unknown algorithm %q (have: %s)", opts.Algorithm, strings.Join(registry.Names(), ", "))
	}

	refs, err := ingestion.ExpandSelectors(opts.DataDir, opts.Selectors)
	if err != nil {
		return Summary{}, err
	}
	if len(refs) == 0 {
		return Summary{}, fmt.Errorf("no days selected")
	}
	if err := ingestion.VerifyFiles(opts.DataDir, refs); err != nil {
		return Summary{}, err
	}

	log := logger.With("backtest")
	log.Info().Str("algorithm", opts.Algorithm).Int("days", len(refs)).Msg("backtest start")

	maxParallel := min(runtime.NumCPU(), len(refs))
	if opts.Parallel > 0 {
		maxParallel = min(opts.Parallel, len(refs))
	}

	results := make([]report.Result, len(refs))

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, ref := range refs {
		idx := i
		r := ref
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			log.Info().Int("idx", idx+1).Int("total", len(refs)).Str("day", r.String()).Msg("session start")

			day, err := ingestion.LoadDay(gctx, opts.DataDir, r)
			if err != nil {
				return err
			}

			alog := trader.NewLog()
			session := engine.NewSession(day, factory(alog), alog, opts.Limits)
			result, err := session.Run()
			if err != nil {
				return fmt.Errorf("day %s: %w", r, err)
			}

			results[idx] = result
			log.Info().Int("idx", idx+1).Int("total", len(refs)).Str("day", r.String()).Dur("elapsed", time.Since(start)).Msg("session done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	merged := report.MergeAll(results, opts.MergeProfit)

	name := FileName(refs, now())
	path := filepath.Join(opts.OutputDir, name)
	if err := report.WriteFile(path, merged); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Algorithm:  opts.Algorithm,
		Refs:       refs,
		FileName:   name,
		Path:       path,
		Visualizer: visualizerURL(opts.ServerPort, name),
	}
	for i, ref := range refs {
		profit := results[i].TotalProfit()
		summary.Days = append(summary.Days, DayProfit{Ref: ref, Profit: profit, Products: results[i].FinalProfits()})
		summary.Total += profit
	}

	if len(refs) > 1 {
		for _, dp := range summary.Days {
			log.Info().Str("day", dp.Ref.String()).Float64("profit", dp.Profit).Msg("day profit")
		}
		log.Info().Float64("profit", summary.Total).Msg("total profit")
	}
	log.Info().Str("path", path).Msg("results saved")
	log.Info().Str("url", summary.Visualizer).Msg("visualizer url")

	if opts.OpenBrowser {
		if err := openURL(summary.Visualizer); err != nil {
			log.Warn().Err(err).Msg("could not open browser")
		}
	}

	return summary, nil
}

// DaysLabel joins day selectors into the dash-separated form used in
// bundle names and persisted run records, e.g. "1-0-1-1".
func DaysLabel(refs []ingestion.DayRef) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = ref.String()
	}
	return strings.Join(parts, "-")
}

// FileName builds the bundle name from the day selectors and a wall clock
// reading, e.g. "1-0-1-1_2026-04-12_14-05-09.log".
func FileName(refs []ingestion.DayRef, t time.Time) string {
	return DaysLabel(refs) + "_" + t.Format("2006-01-02_15-04-05") + ".log"
}

func visualizerURL(port, fileName string) string {
	if port == "" {
		port = "8000"
	}
	return fmt.Sprintf("%s?open=http://localhost:%s/backtests/%s", visualizerBase, port, fileName)
}
