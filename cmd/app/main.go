package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram_chess/internal/config"
	"telegram_chess/internal/coordinator"
	"telegram_chess/internal/db"
	httpServer "telegram_chess/internal/http"
	"telegram_chess/internal/logger"
	"telegram_chess/internal/ratelimit"
	"telegram_chess/internal/repository"
	"telegram_chess/internal/rules/chess"
	"telegram_chess/internal/service"
	"telegram_chess/internal/session"
	"telegram_chess/internal/telegram"
	"telegram_chess/internal/ws"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)
	ratelimit.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	var dbPool *pgxpool.Pool
	var archive *repository.ArchiveRepository
	if cfg.DatabaseURL != "" {
		dbPool = db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()
		archive = repository.NewArchiveRepository(dbPool)
	} else {
		logger.Warn("DATABASE_URL not set, games will not be archived")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Fatal("failed to connect to telegram", "error", err)
	}

	store := session.NewStore()
	engine := chess.New()
	directory := telegram.NewChatDirectory(api)
	coord := coordinator.New(store, engine, directory)
	hub := ws.NewHub()
	bot := telegram.NewBot(api, coord, hub, archive, cfg.MoveRateLimit, cfg.MoveRateWindow)

	r := gin.Default()
	httpServer.RegisterRoutes(r, cfg, dbPool, store, hub, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	go bot.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	bot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
