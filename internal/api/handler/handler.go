// Package handler provides HTTP handlers for all API endpoints. Handlers
// call the core services directly; aggregate views are recomputed from a
// fresh snapshot on each request, never cached.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/guildfordrfc/teamsheet-data/internal/api/respond"
	"github.com/guildfordrfc/teamsheet-data/internal/club"
	"github.com/guildfordrfc/teamsheet-data/internal/config"
	"github.com/guildfordrfc/teamsheet-data/internal/db"
	"github.com/guildfordrfc/teamsheet-data/internal/ingest"
	"github.com/guildfordrfc/teamsheet-data/internal/merge"
	"github.com/guildfordrfc/teamsheet-data/internal/store"
	"github.com/guildfordrfc/teamsheet-data/internal/teamsheet"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool    *db.Pool
	store   store.Store
	cfg     *config.Config
	logger  *slog.Logger
	ingest  *ingest.Service
	merger  *merge.Engine
	schema  teamsheet.PositionSchema
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, st store.Store, cfg *config.Config, logger *slog.Logger) *Handler {
	schema := teamsheet.PositionSchema{
		Starters:        cfg.Starters,
		SquadSize:       cfg.SquadSize,
		AllowUnassigned: cfg.AllowUnassigned,
	}
	return &Handler{
		pool:   pool,
		store:  st,
		cfg:    cfg,
		logger: logger,
		ingest: ingest.New(st, ingest.Options{
			Schema:    schema,
			Threshold: cfg.DuplicateThreshold,
			Strict:    cfg.StrictIngest,
		}, logger),
		merger: merge.NewEngine(st, logger),
		schema: schema,
	}
}

// writeDomainError maps the core error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a 500 with the detail logged, not leaked.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var malformed *club.MalformedInputError
	var invalidMerge *club.InvalidMergeError
	var notFound *club.NotFoundError
	var strict *ingest.StrictIngestError

	switch {
	case errors.As(err, &malformed):
		respond.WriteErrorDetail(w, http.StatusBadRequest, "MALFORMED_INPUT", "Teamsheet could not be parsed", malformed.Error())
	case errors.As(err, &strict):
		respond.WriteErrorDetail(w, http.StatusConflict, "POSSIBLE_DUPLICATES", "Ingest blocked by possible duplicate names", strict.Error())
	case errors.As(err, &invalidMerge):
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_MERGE", "Merge request rejected", invalidMerge.Error())
	case errors.As(err, &notFound):
		respond.WriteErrorDetail(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", notFound.Error())
	default:
		h.logger.Error("Internal error", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Teamsheet Data API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
