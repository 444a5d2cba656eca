//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/backtide/backtide/internal/domain/models"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "backtide",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=backtide sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "backtide")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/storage → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func seedRuns(t *testing.T, repo RunsRepository) (first, second models.Run) {
	t.Helper()
	base := time.Date(2026, 4, 12, 14, 5, 9, 0, time.UTC)

	first = models.Run{
		ID:          "11111111-1111-1111-1111-111111111111",
		Algorithm:   "marketmaker",
		Days:        "1-0-1-1",
		FileName:    "1-0-1-1_2026-04-12_14-05-09.log",
		TotalProfit: 142.5,
		CreatedAt:   base,
	}
	firstResults := []models.RunResult{
		{RunID: first.ID, Round: 1, Day: 0, Product: "BANANAS", Profit: 40.0},
		{RunID: first.ID, Round: 1, Day: 0, Product: "PEARLS", Profit: 60.0},
		{RunID: first.ID, Round: 1, Day: 1, Product: "BANANAS", Profit: 12.5},
		{RunID: first.ID, Round: 1, Day: 1, Product: "PEARLS", Profit: 30.0},
	}
	if err := repo.SaveRun(first, firstResults); err != nil {
		t.Fatalf("seed first run: %v", err)
	}

	second = models.Run{
		ID:          "22222222-2222-2222-2222-222222222222",
		Algorithm:   "taker",
		Days:        "2-0",
		FileName:    "2-0_2026-04-13_09-00-00.log",
		TotalProfit: -18.0,
		CreatedAt:   base.AddDate(0, 0, 1),
	}
	secondResults := []models.RunResult{
		{RunID: second.ID, Round: 2, Day: 0, Product: "PEARLS", Profit: -18.0},
	}
	if err := repo.SaveRun(second, secondResults); err != nil {
		t.Fatalf("seed second run: %v", err)
	}

	return first, second
}

func TestRepository_Integration(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	repo := NewRunsRepository(db)
	first, second := seedRuns(t, repo)

	t.Run("list newest first", func(t *testing.T) {
		runs, err := repo.ListRuns("", 10)
		if err != nil {
			t.Fatalf("ListRuns err: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("want 2 runs, got %d", len(runs))
		}
		if runs[0].ID != second.ID || runs[1].ID != first.ID {
			t.Fatalf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
		}
	})

	t.Run("list filtered by algorithm", func(t *testing.T) {
		runs, err := repo.ListRuns("marketmaker", 10)
		if err != nil {
			t.Fatalf("ListRuns err: %v", err)
		}
		if len(runs) != 1 || runs[0].ID != first.ID {
			t.Fatalf("unexpected runs: %+v", runs)
		}
	})

	t.Run("get existing run", func(t *testing.T) {
		run, err := repo.GetRun(first.ID)
		if err != nil {
			t.Fatalf("GetRun err: %v", err)
		}
		if run == nil {
			t.Fatalf("nil run")
		}
		if run.Algorithm != "marketmaker" || run.TotalProfit != 142.5 {
			t.Fatalf("unexpected run: %+v", run)
		}
	})

	t.Run("get missing run returns nil", func(t *testing.T) {
		run, err := repo.GetRun("33333333-3333-3333-3333-333333333333")
		if err != nil || run != nil {
			t.Fatalf("want nil,nil got run=%+v err=%v", run, err)
		}
	})

	t.Run("results ordered by round, day, product", func(t *testing.T) {
		results, err := repo.GetRunResults(first.ID)
		if err != nil {
			t.Fatalf("GetRunResults err: %v", err)
		}
		if len(results) != 4 {
			t.Fatalf("want 4 results, got %d", len(results))
		}
		want := []string{"BANANAS", "PEARLS", "BANANAS", "PEARLS"}
		for i, rec := range results {
			if rec.Product != want[i] {
				t.Fatalf("result %d: want product %s, got %s", i, want[i], rec.Product)
			}
		}
		if results[2].Day != 1 {
			t.Fatalf("want day 1 at index 2, got %d", results[2].Day)
		}
	})

	t.Run("delete cascades to results", func(t *testing.T) {
		if err := repo.DeleteRun(second.ID); err != nil {
			t.Fatalf("DeleteRun err: %v", err)
		}
		run, err := repo.GetRun(second.ID)
		if err != nil || run != nil {
			t.Fatalf("run still present after delete: run=%+v err=%v", run, err)
		}
		var cnt int
		if err := db.QueryRow("SELECT COUNT(*) FROM run_results WHERE run_id=$1", second.ID).Scan(&cnt); err != nil {
			t.Fatalf("count: %v", err)
		}
		if cnt != 0 {
			t.Fatalf("expected 0 result rows after delete, got %d", cnt)
		}
	})
}
