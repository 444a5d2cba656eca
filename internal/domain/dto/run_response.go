package dto

import (
	"time"

	"github.com/backtide/backtide/internal/domain/models"
)

// RunResponse represents one element of the JSON array returned by the
// GET /api/v1/runs endpoint.
//
// Fields match the API contract and may differ from internal domain models.
// This ensures loose coupling between the API surface and business logic.
type RunResponse struct {
	ID          string    `json:"id" example:"a2e6c3f0-7a51-4a3e-9a7d-2f4b8c1d9e0a"` // Run identifier
	Algorithm   string    `json:"algorithm" example:"marketmaker"`                   // Algorithm that was backtested
	Days        string    `json:"days" example:"1-0-1-1"`                            // Replayed round-day pairs
	FileName    string    `json:"file_name" example:"1-0-1-1_2026-04-12.log"`        // Log bundle file name
	TotalProfit float64   `json:"total_profit" example:"1245.5"`                     // Profit over all days and products
	CreatedAt   time.Time `json:"created_at"`                                        // When the run finished
}

// RunResultResponse is one per-day per-product profit line inside a
// RunDetailResponse.
type RunResultResponse struct {
	Round   int     `json:"round" example:"1"`
	Day     int     `json:"day" example:"0"`
	Product string  `json:"product" example:"PEARLS"`
	Profit  float64 `json:"profit" example:"612.0"`
}

// RunDetailResponse represents the JSON structure returned by the
// GET /api/v1/runs/{id} endpoint: the run header plus its per-product
// profit breakdown.
type RunDetailResponse struct {
	RunResponse
	Results []RunResultResponse `json:"results"`
}

// NewRunResponse maps a domain run onto the API shape.
func NewRunResponse(run models.Run) RunResponse {
	return RunResponse{
		ID:          run.ID,
		Algorithm:   run.Algorithm,
		Days:        run.Days,
		FileName:    run.FileName,
		TotalProfit: run.TotalProfit,
		CreatedAt:   run.CreatedAt,
	}
}

// NewRunDetailResponse maps a domain run and its results onto the API shape.
// Results is always a non-nil slice so the JSON field renders as an array.
func NewRunDetailResponse(run models.Run, results []models.RunResult) RunDetailResponse {
	detail := RunDetailResponse{
		RunResponse: NewRunResponse(run),
		Results:     make([]RunResultResponse, 0, len(results)),
	}
	for _, rec := range results {
		detail.Results = append(detail.Results, RunResultResponse{
			Round:   rec.Round,
			Day:     rec.Day,
			Product: rec.Product,
			Profit:  rec.Profit,
		})
	}
	return detail
}
