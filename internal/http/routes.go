package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"telegram_chess/internal/config"
	"telegram_chess/internal/http/handlers"
	"telegram_chess/internal/http/middleware"
	"telegram_chess/internal/logger"
	"telegram_chess/internal/repository"
	"telegram_chess/internal/service"
	"telegram_chess/internal/session"
	"telegram_chess/internal/ws"
)

// RegisterRoutes wires the read-only HTTP surface: health probes,
// metrics, the session listing API and the spectator websocket.
// db may be nil when no database is configured; the archive
// endpoints report unavailable in that case.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, db *pgxpool.Pool, store *session.Store, hub *ws.Hub, version string) {
	healthHandler := handlers.NewHealthHandler(db, store, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The admin API only exists behind JWT auth. Without a secret the
	// routes are not registered at all.
	if service.JWTEnabled() {
		var archive *repository.ArchiveRepository
		if db != nil {
			archive = repository.NewArchiveRepository(db)
		}
		sessionsHandler := handlers.NewSessionsHandler(store, archive)

		v1 := r.Group("/api/v1")
		v1.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
		v1.GET("/sessions", middleware.JWT(), sessionsHandler.List)
		v1.GET("/players/:id/games", middleware.JWT(), sessionsHandler.PlayerGames)
	} else {
		logger.Warn("JWT_SECRET not set, admin API disabled")
	}

	// Spectator feed
	watchHandler := handlers.NewWatchHandler(store, hub)
	r.GET("/ws/watch/:session", watchHandler.Watch)
}
