package main

//
//  @title           backtide API
//  @version         1.0
//  @description     Historical market replay and order matching backtest service.
//  @termsOfService  https://github.com/backtide/backtide
//  @contact.name    API Support
//  @contact.url     https://github.com/backtide/backtide
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8000
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        runs
//  @tag.description Endpoints for browsing recorded runs
//
//  @tag.name        backtests
//  @tag.description Result bundle downloads for the visualizer
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/backtide/backtide/config"
	_ "github.com/backtide/backtide/docs" // swagger docs
	"github.com/backtide/backtide/internal/app"
	"github.com/backtide/backtide/internal/backtest"
	"github.com/backtide/backtide/internal/logger"
	"github.com/backtide/backtide/internal/service"
	"github.com/backtide/backtide/internal/storage"
	"github.com/backtide/backtide/internal/strategy"
	"github.com/backtide/backtide/internal/trader"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// newRegistry builds the algorithm registry with every built-in registered.
func newRegistry() *trader.Registry {
	reg := trader.NewRegistry()
	if err := strategy.Register(reg); err != nil {
		logger.L().Fatal().Err(err).Msg("algorithm registration failed")
	}
	return reg
}

// recordRun persists a finished run into Postgres.
//
// The bundle is already on disk at this point; persistence failures still
// exit non-zero so scripted runs notice the missing record.
func recordRun(ctx context.Context, summary backtest.Summary) {
	db, err := app.InitPostgres(config.AppConfig)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("db connect error")
	}
	defer func() { _ = db.Close() }()

	svc := service.NewRunsService(storage.NewRunsRepository(db))
	run, err := svc.RecordRun(ctx, summary)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("recording run failed")
	}
	logger.L().Info().Str("run_id", run.ID).Msg("run recorded")
}

// main is the entry point of the backtide application.
//
// Modes (selected via --mode flag):
//   - run:   Replays the selected historical days against an algorithm and
//     writes the result bundle.
//   - serve: Starts the REST API that serves result bundles and run metadata.
//
// Flags:
//   - --mode:      Execution mode ("run" or "serve"). Default: "run".
//   - --algo:      Algorithm to replay (run mode). Default: "example".
//   - --data:      Directory with round<N> data folders. Defaults to config (DATA_DIR).
//   - --out:       Directory for result bundles. Defaults to config (OUTPUT_DIR).
//   - --merge-pnl: Carry each day's final P&L into the next day's rows.
//   - --open:      Open the visualizer on the written bundle.
//   - --parallel:  How many day sessions to run concurrently (0=auto up to CPU).
//   - --port:      Port for serve mode and visualizer links. Defaults to config (SERVER_PORT).
//
// Positional arguments in run mode are day selectors: "ROUND-DAY" for one
// day or "ROUND" for every day of a round, e.g. "backtide --algo mimic 1 2-0".
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "run", "Mode: run or serve")
	algo := flag.String("algo", "example", "Algorithm to replay")
	dataDir := flag.String("data", config.AppConfig.Engine.DataDir, "Directory with round<N> data folders")
	outDir := flag.String("out", config.AppConfig.Engine.OutputDir, "Directory for result bundles")
	mergePnl := flag.Bool("merge-pnl", false, "Carry each day's final P&L into the next day")
	open := flag.Bool("open", false, "Open the visualizer on the written bundle")
	parallel := flag.Int("parallel", 0, "How many day sessions to run concurrently (0=auto up to CPU)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for serve mode and visualizer links")
	flag.Parse()

	switch *mode {
	case "run":
		// Replay mode: run the backtest and write the result bundle
		logger.L().Info().Msg("running backtest")

		summary, err := backtest.Run(ctx, newRegistry(), backtest.Options{
			Algorithm:   *algo,
			Selectors:   flag.Args(),
			DataDir:     *dataDir,
			OutputDir:   *outDir,
			Limits:      config.AppConfig.Engine.Limits,
			MergeProfit: *mergePnl,
			OpenBrowser: *open,
			Parallel:    *parallel,
			ServerPort:  *port,
		})
		if err != nil {
			logger.L().Fatal().Err(err).Msg("backtest failed")
		}

		if config.AppConfig.Storage.Enabled {
			recordRun(ctx, summary)
		}

	case "serve":
		// Serve mode: start the HTTP server for the visualizer
		logger.L().Info().Msg("starting result server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
