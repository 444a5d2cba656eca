package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/backtide/backtide/internal/logger"
	"github.com/backtide/backtide/internal/market"
	"github.com/backtide/backtide/internal/report"
	"github.com/backtide/backtide/internal/trader"
)

// Session replays one historical day through one algorithm instance.
// Timestamps run strictly in ascending order; every instant goes through
// state build, algorithm invocation, limit validation, matching, and
// P&L accounting.
type Session struct {
	day    *market.Day
	algo   trader.Algorithm
	alog   *trader.Log
	limits map[string]int
	log    zerolog.Logger
}

// NewSession wires a session. The algorithm instance must be fresh: it may
// keep private memory between calls, and reusing one across sessions
// leaks that memory between days.
func NewSession(day *market.Day, algo trader.Algorithm, alog *trader.Log, limits map[string]int) *Session {
	return &Session{
		day:    day,
		algo:   algo,
		alog:   alog,
		limits: limits,
		log: logger.With("engine").With().
			Int("round", day.Round).
			Int("day", day.Num).
			Logger(),
	}
}

// Run replays every timestamp of the day and returns the session's log
// bundle. Limit breaches are recorded as rejection rows and the session
// continues; missing data and algorithm errors abort it.
func (s *Session) Run() (report.Result, error) {
	timestamps := s.day.Timestamps()
	if len(timestamps) == 0 {
		return report.Result{}, fmt.Errorf("round %d day %d has no price data", s.day.Round, s.day.Num)
	}

	tradable := s.day.TradableProducts()
	observed := s.day.ObservationProducts()

	for _, product := range tradable {
		if _, ok := s.limits[product]; !ok {
			return report.Result{}, fmt.Errorf("no position limit configured for product %s", product)
		}
	}

	s.log.Debug().
		Int("timestamps", len(timestamps)).
		Strs("tradable", tradable).
		Msg("session starting")

	result := report.Result{Round: s.day.Round, Day: s.day.Num}
	listings := s.day.Listings()
	ledger := newLedger()
	ownTrades := map[string][]market.TradeRecord{}

	for _, timestamp := range timestamps {
		books := make(map[string]*market.OrderBook, len(tradable))
		for _, product := range tradable {
			snap, ok := s.day.SnapshotAt(timestamp, product)
			if !ok {
				return report.Result{}, fmt.Errorf("no price row for %s at timestamp %d", product, timestamp)
			}
			books[product] = market.BookFromSnapshot(snap)
		}

		observations := make(map[string]int, len(observed))
		for _, product := range observed {
			snap, ok := s.day.SnapshotAt(timestamp, product)
			if !ok {
				return report.Result{}, fmt.Errorf("no price row for %s at timestamp %d", product, timestamp)
			}
			observations[product] = int(snap.MidPrice)
		}

		state := &trader.State{
			Listings:     listings,
			MarketTrades: s.day.TradesAt(timestamp),
			Observations: observations,
			OrderDepths:  books,
			OwnTrades:    ownTrades,
			Position:     ledger.openPositions(),
			Timestamp:    timestamp,
		}

		batches, err := s.algo.Run(state)
		if err != nil {
			return report.Result{}, fmt.Errorf("algorithm failed at timestamp %d: %w", timestamp, err)
		}
		result.SandboxRows = append(result.SandboxRows, report.SandboxRow{
			Timestamp: timestamp,
			Text:      s.alog.Drain(),
		})

		for _, product := range tradable {
			if BatchWithinLimit(ledger.position(product), s.limits[product], batches[product]) {
				continue
			}
			result.SubmissionRows = append(result.SubmissionRows, report.SubmissionRow{
				Timestamp: timestamp,
				Message:   RejectionMessage(product, s.limits[product]),
			})
			delete(batches, product)
		}

		// Orders see the book state left by earlier orders in the same batch.
		ownTrades = map[string][]market.TradeRecord{}
		for _, product := range tradable {
			for _, order := range batches[product] {
				book, ok := books[order.Symbol]
				if !ok {
					return report.Result{}, fmt.Errorf("order for %s at timestamp %d has no book", order.Symbol, timestamp)
				}

				fill := Match(book, order, timestamp)
				if len(fill.Trades) == 0 {
					continue
				}
				ownTrades[order.Symbol] = append(ownTrades[order.Symbol], fill.Trades...)
				ledger.apply(order.Symbol, fill)
			}
		}

		for _, product := range tradable {
			snap, _ := s.day.SnapshotAt(timestamp, product)
			profitLoss, err := ledger.markToMarket(product, snap)
			if err != nil {
				return report.Result{}, fmt.Errorf("timestamp %d: %w", timestamp, err)
			}
			// The activity section always reports day 0; the bundle's day
			// identity lives in the file name, not the rows.
			result.ActivityRows = append(result.ActivityRows, report.ActivityRow{
				Timestamp:  timestamp,
				Product:    product,
				Bids:       snap.Bids,
				Asks:       snap.Asks,
				MidPrice:   snap.MidPrice,
				ProfitLoss: profitLoss,
			})
		}
		for _, product := range observed {
			snap, _ := s.day.SnapshotAt(timestamp, product)
			result.ActivityRows = append(result.ActivityRows, report.ActivityRow{
				Timestamp: timestamp,
				Product:   product,
				MidPrice:  snap.MidPrice,
			})
		}
	}

	profits := result.FinalProfits()
	for _, product := range tradable {
		s.log.Info().Str("product", product).Float64("profit", profits[product]).Msg("product result")
	}
	s.log.Info().
		Float64("profit", result.TotalProfit()).
		Msg("session complete")

	return result, nil
}
