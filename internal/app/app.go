package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/backtide/backtide/config"
	"github.com/backtide/backtide/internal/api"
	"github.com/backtide/backtide/internal/service"
	"github.com/backtide/backtide/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres() when run persistence is enabled.
//   - Initializes the repository and service layers over that connection.
//   - Creates the HTTP handler layer (bundle streaming works without a database).
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	var svc service.RunsService
	var dbPing func() error
	cleanup := func() {}

	if cfg.Storage.Enabled {
		// Connect to PostgreSQL
		// indirection for unit testing
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}

		// Repository and service layers over the live connection
		svc = service.NewRunsService(storage.NewRunsRepository(db))
		dbPing = db.Ping
		cleanup = func() { _ = db.Close() }
	}

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc, cfg.Engine.OutputDir)

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(dbPing)
	healthHandler.Register(router)

	return router, cleanup, nil
}
