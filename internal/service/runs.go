package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/backtide/backtide/internal/backtest"
	"github.com/backtide/backtide/internal/domain/models"
	"github.com/backtide/backtide/internal/storage"
)

// RunsService defines business logic for recording and querying backtest runs.
type RunsService interface {
	RecordRun(ctx context.Context, summary backtest.Summary) (*models.Run, error)
	ListRuns(ctx context.Context, algorithm string, limit int) ([]models.Run, error)
	GetRun(ctx context.Context, id string) (*models.Run, []models.RunResult, error)
	DeleteRun(ctx context.Context, id string) error
}

type runsService struct {
	repo storage.RunsRepository
}

func NewRunsService(repo storage.RunsRepository) RunsService {
	return &runsService{repo: repo}
}

// RecordRun assigns the run an id and a timestamp, flattens the per-day
// product profits into result rows and persists everything in one
// transaction.
func (s *runsService) RecordRun(ctx context.Context, summary backtest.Summary) (*models.Run, error) {
	run := models.Run{
		ID:          uuid.NewString(),
		Algorithm:   summary.Algorithm,
		Days:        backtest.DaysLabel(summary.Refs),
		FileName:    summary.FileName,
		TotalProfit: summary.Total,
		CreatedAt:   time.Now().UTC(),
	}

	var results []models.RunResult
	for _, day := range summary.Days {
		products := make([]string, 0, len(day.Products))
		for product := range day.Products {
			products = append(products, product)
		}
		sort.Strings(products)
		for _, product := range products {
			results = append(results, models.RunResult{
				RunID:   run.ID,
				Round:   day.Ref.Round,
				Day:     day.Ref.Day,
				Product: product,
				Profit:  day.Products[product],
			})
		}
	}

	if err := s.repo.SaveRun(run, results); err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *runsService) ListRuns(ctx context.Context, algorithm string, limit int) ([]models.Run, error) {
	return s.repo.ListRuns(algorithm, limit)
}

// GetRun returns the run header and its result rows, or (nil, nil, nil)
// when no run with that id exists.
func (s *runsService) GetRun(ctx context.Context, id string) (*models.Run, []models.RunResult, error) {
	run, err := s.repo.GetRun(id)
	if err != nil || run == nil {
		return nil, nil, err
	}
	results, err := s.repo.GetRunResults(id)
	if err != nil {
		return nil, nil, err
	}
	return run, results, nil
}

func (s *runsService) DeleteRun(ctx context.Context, id string) error {
	return s.repo.DeleteRun(id)
}
