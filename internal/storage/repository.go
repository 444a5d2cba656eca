package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/backtide/backtide/internal/domain/models"
	pq "github.com/lib/pq"
)

// RunsRepository defines contract for DB operations.
type RunsRepository interface {
	SaveRun(run models.Run, results []models.RunResult) error
	ListRuns(algorithm string, limit int) ([]models.Run, error)
	GetRun(id string) (*models.Run, error)
	GetRunResults(id string) ([]models.RunResult, error)
	DeleteRun(id string) error
}

type runsRepository struct {
	db *sql.DB
}

func NewRunsRepository(db *sql.DB) RunsRepository {
	return &runsRepository{db: db}
}

// SaveRun persists a run and its per-product results in a single transaction.
func (r *runsRepository) SaveRun(run models.Run, results []models.RunResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO runs (id, algorithm, days, file_name, total_profit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.Algorithm, run.Days, run.FileName, run.TotalProfit, run.CreatedAt); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(
		"run_results",
		"run_id",
		"round",
		"day",
		"product",
		"profit",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, rec := range results {
		if _, err := stmt.Exec(
			run.ID,
			rec.Round,
			rec.Day,
			rec.Product,
			rec.Profit,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first, optionally filtered
// by algorithm name.
func (r *runsRepository) ListRuns(algorithm string, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	// $1 onward depend on whether an algorithm filter was provided.
	query := `
		SELECT id, algorithm, days, file_name, total_profit, created_at
		FROM runs`
	var args []interface{}
	if algorithm != "" {
		args = append(args, algorithm)
		query += fmt.Sprintf(" WHERE algorithm = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []models.Run
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(&run.ID, &run.Algorithm, &run.Days, &run.FileName, &run.TotalProfit, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by id, or (nil, nil) when no such run exists.
func (r *runsRepository) GetRun(id string) (*models.Run, error) {
	var run models.Run
	err := r.db.QueryRow(`
		SELECT id, algorithm, days, file_name, total_profit, created_at
		FROM runs
		WHERE id = $1
	`, id).Scan(&run.ID, &run.Algorithm, &run.Days, &run.FileName, &run.TotalProfit, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRunResults returns the per-day per-product profits recorded for a run.
func (r *runsRepository) GetRunResults(id string) ([]models.RunResult, error) {
	rows, err := r.db.Query(`
		SELECT run_id, round, day, product, profit
		FROM run_results
		WHERE run_id = $1
		ORDER BY round, day, product
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []models.RunResult
	for rows.Next() {
		var rec models.RunResult
		if err := rows.Scan(&rec.RunID, &rec.Round, &rec.Day, &rec.Product, &rec.Profit); err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// DeleteRun removes a run together with its per-product results.
func (r *runsRepository) DeleteRun(id string) error {
	_, err := r.db.Exec(`DELETE FROM runs WHERE id = $1`, id)
	return err
}
