package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/guildfordrfc/teamsheet-data/internal/api/handler"
	"github.com/guildfordrfc/teamsheet-data/internal/config"
	"github.com/guildfordrfc/teamsheet-data/internal/db"
	"github.com/guildfordrfc/teamsheet-data/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes. Session/auth handling for the admin surface belongs to the
// deployment's front proxy, not this service.
func NewRouter(pool *db.Pool, st store.Store, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		ExposedHeaders:   []string{"X-Process-Time", "Link"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitBurst, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, st, cfg, logger)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Aggregate views — recomputed from the collection on every request
		r.Get("/leaderboard", h.GetLeaderboard)
		r.Get("/seasons", h.GetSeasons)
		r.Get("/seasons/{season}", h.GetSeasonView)
		r.Get("/players", h.GetPlayers)
		r.Get("/players/{playerID}", h.GetPlayerView)

		// Duplicate review
		r.Get("/duplicates", h.GetDuplicates)

		// Admin mutations
		r.Post("/teamsheets", h.PostTeamsheet)
		r.Put("/matches/{matchID}", h.PutMatch)
		r.Delete("/matches/{matchID}", h.DeleteMatch)
		r.Post("/merges", h.PostMerge)
	})

	return r
}
