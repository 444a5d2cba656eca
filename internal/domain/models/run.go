package models

import "time"

// Run represents one persisted backtest run.
//
// Fields:
//   - ID: Unique identifier of the run (UUID).
//   - Algorithm: Name of the trading algorithm that was executed.
//   - Days: Dash-joined list of the round-day pairs that were replayed
//     (e.g., "1-0-1-1" for round 1, days 0 and 1).
//   - FileName: Name of the log bundle written for this run.
//   - TotalProfit: Profit summed over every replayed day and product.
//   - CreatedAt: When the run finished.
//
// This model is returned by the API when querying /api/v1/runs.
//
// swagger:model Run
type Run struct {
	ID          string    `json:"id" example:"a2e6c3f0-7a51-4a3e-9a7d-2f4b8c1d9e0a"`
	Algorithm   string    `json:"algorithm" example:"marketmaker"`
	Days        string    `json:"days" example:"1-0-1-1"`
	FileName    string    `json:"file_name" example:"1-0-1-1_2026-04-12_14-05-09.log"`
	TotalProfit float64   `json:"total_profit" example:"1245.5"`
	CreatedAt   time.Time `json:"created_at"`
}

// RunResult represents the profit a single product earned on a single
// replayed day within a run.
//
// swagger:model RunResult
type RunResult struct {
	RunID   string  `json:"-"`
	Round   int     `json:"round" example:"1"`
	Day     int     `json:"day" example:"0"`
	Product string  `json:"product" example:"PEARLS"`
	Profit  float64 `json:"profit" example:"612.0"`
}
