package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/backtide/backtide/internal/domain/dto"
	"github.com/backtide/backtide/internal/middleware"
	"github.com/backtide/backtide/internal/service"
)

// Handler provides HTTP handlers for browsing backtest results.
//
// Responsibilities:
//   - Validate incoming HTTP parameters
//   - Interact with the runs service for persisted run data
//   - Stream result bundles to the visualizer
//   - Return structured JSON responses with appropriate HTTP status codes
//
// The runs service may be nil when run persistence is disabled; the bundle
// endpoint keeps working either way.
type Handler struct {
	svc       service.RunsService
	outputDir string
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.RunsService): Service for persisted runs, nil when storage is disabled.
//   - outputDir (string): Directory the result bundles are written to.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.RunsService, outputDir string) *Handler {
	return &Handler{svc: svc, outputDir: outputDir}
}

// requireRuns aborts with 503 when run persistence is disabled.
func (h *Handler) requireRuns(c *gin.Context) bool {
	if h.svc == nil {
		middleware.AbortWithError(c, http.StatusServiceUnavailable, "run persistence is disabled", nil)
		return false
	}
	return true
}

// GetBundle handles GET /backtests/:name requests.
//
// The hosted visualizer loads result bundles through this endpoint, so the
// route shape must stay http://localhost:<port>/backtests/<file>.
//
// GetBundle godoc
// @Summary      Download a result bundle
// @Description  Streams the named backtest log bundle from the output directory
// @Tags         backtests
// @Produce      plain
// @Param        name  path      string  true  "Bundle file name" example(1-0_2026-04-12_14-05-09.log)
// @Success      200   {string}  string             "Bundle contents"
// @Failure      400   {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse  "Not Found"
// @Router       /backtests/{name} [get]
func (h *Handler) GetBundle(c *gin.Context) {
	// ─── Validate "name" param ────────────────────────────────
	name := c.Param("name")
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".log") {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid bundle name", nil))
		return
	}

	// ─── Resolve inside the output directory only ─────────────
	path := filepath.Join(h.outputDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("bundle not found", nil))
		return
	}

	c.File(path)
}

// ListRuns handles GET /api/v1/runs requests.
//
// Query Parameters:
//   - algorithm (string, optional): Only return runs of this algorithm.
//   - limit (int, optional): Maximum number of runs to return (default 50).
//
// ListRuns godoc
// @Summary      List recorded runs
// @Description  Returns the most recent persisted backtest runs, newest first
// @Tags         runs
// @Produce      json
// @Param        algorithm  query     string  false  "Filter by algorithm name" example(marketmaker)
// @Param        limit      query     int     false  "Maximum number of runs to return" example(20)
// @Success      200        {array}   dto.RunResponse    "Success"
// @Failure      400        {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500        {object}  dto.ErrorResponse  "Internal Error"
// @Failure      503        {object}  dto.ErrorResponse  "Persistence Disabled"
// @Router       /api/v1/runs [get]
func (h *Handler) ListRuns(c *gin.Context) {
	if !h.requireRuns(c) {
		return
	}

	// ─── Parse optional "limit" param ─────────────────────────
	limit := 0
	if s := c.Query("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid limit, expected a non-negative integer", err))
			return
		}
		limit = parsed
	}

	algorithm := strings.TrimSpace(c.Query("algorithm"))

	// ─── Query service (with request context) ─────────────────
	runs, err := h.svc.ListRuns(c.Request.Context(), algorithm, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch runs", err))
		return
	}

	// ─── Build and return response DTOs ───────────────────────
	resp := make([]dto.RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, dto.NewRunResponse(run))
	}

	c.JSON(http.StatusOK, resp)
}

// GetRun handles GET /api/v1/runs/:id requests.
//
// GetRun godoc
// @Summary      Get one run with its profit breakdown
// @Description  Returns the run header and its per-day per-product profits
// @Tags         runs
// @Produce      json
// @Param        id   path      string  true  "Run id (UUID)"
// @Success      200  {object}  dto.RunDetailResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404  {object}  dto.ErrorResponse      "Not Found"
// @Failure      500  {object}  dto.ErrorResponse      "Internal Error"
// @Failure      503  {object}  dto.ErrorResponse      "Persistence Disabled"
// @Router       /api/v1/runs/{id} [get]
func (h *Handler) GetRun(c *gin.Context) {
	if !h.requireRuns(c) {
		return
	}

	// ─── Validate "id" param ──────────────────────────────────
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid run id", err))
		return
	}

	// ─── Query service (with request context) ─────────────────
	run, results, err := h.svc.GetRun(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch run", err))
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("run not found", nil))
		return
	}

	c.JSON(http.StatusOK, dto.NewRunDetailResponse(*run, results))
}

// DeleteRun handles DELETE /api/v1/runs/:id requests.
//
// Deleting an unknown id is a no-op and still returns 204.
//
// DeleteRun godoc
// @Summary      Delete a run
// @Description  Removes a persisted run together with its profit breakdown
// @Tags         runs
// @Param        id  path  string  true  "Run id (UUID)"
// @Success      204  "Deleted"
// @Failure      400  {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Failure      503  {object}  dto.ErrorResponse  "Persistence Disabled"
// @Router       /api/v1/runs/{id} [delete]
func (h *Handler) DeleteRun(c *gin.Context) {
	if !h.requireRuns(c) {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid run id", err))
		return
	}

	if err := h.svc.DeleteRun(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to delete run", err))
		return
	}

	c.Status(http.StatusNoContent)
}
