package config

import (
	"os"
	"strconv"
	"time"

	"telegram_chess/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	BotToken string

	// DatabaseURL enables the game archive when set; the bot runs
	// without persistence otherwise.
	DatabaseURL string

	// JWTSecret guards the admin API; admin routes are not registered
	// when it is empty.
	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Move submissions per user per window.
	MoveRateLimit  int
	MoveRateWindow time.Duration

	// API requests per client IP per window.
	APIRateLimit  int
	APIRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment, with .env support for
// local development. Only BOT_TOKEN is mandatory.
func Load() *Config {
	_ = godotenv.Load()

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		AppPort:        port,
		BotToken:       botToken,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		MoveRateLimit:  envInt("MOVE_RATE_LIMIT", 30),
		MoveRateWindow: envSeconds("MOVE_RATE_WINDOW_SECONDS", time.Minute),
		APIRateLimit:   envInt("API_RATE_LIMIT", 60),
		APIRateWindow:  envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		LogLevel:       envDefault("LOG_LEVEL", "info"),
		LogJSON:        os.Getenv("LOG_JSON") == "true",
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
