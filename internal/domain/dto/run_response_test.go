package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/backtide/backtide/internal/domain/models"
)

func TestNewRunDetailResponse(t *testing.T) {
	run := models.Run{
		ID:          "run-1",
		Algorithm:   "taker",
		Days:        "1-0",
		FileName:    "1-0_x.log",
		TotalProfit: 10.5,
		CreatedAt:   time.Date(2026, 4, 12, 14, 5, 9, 0, time.UTC),
	}
	results := []models.RunResult{
		{RunID: "run-1", Round: 1, Day: 0, Product: "PEARLS", Profit: 10.5},
	}

	detail := NewRunDetailResponse(run, results)
	if detail.ID != "run-1" || detail.TotalProfit != 10.5 {
		t.Fatalf("unexpected header: %+v", detail.RunResponse)
	}
	if len(detail.Results) != 1 || detail.Results[0].Product != "PEARLS" {
		t.Fatalf("unexpected results: %+v", detail.Results)
	}
}

func TestNewRunDetailResponse_EmptyResultsIsArray(t *testing.T) {
	detail := NewRunDetailResponse(models.Run{ID: "run-1"}, nil)

	data, err := json.Marshal(detail)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"results":[]`) {
		t.Fatalf("results should render as empty array, got %s", data)
	}
}
