package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the server's environment-sourced settings.
type Config struct {
	Addr              string
	SessionTTL        time.Duration
	SearchBudget      time.Duration
	SolverBudget      time.Duration
	DefaultDifficulty string
}

// Load reads .env when present, then the environment, falling back to
// defaults suited to local play.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:              getString("ADDR", ":8080"),
		SessionTTL:        getDuration("SESSION_TTL", 30*time.Minute),
		SearchBudget:      getDuration("AI_SEARCH_BUDGET", 50*time.Millisecond),
		SolverBudget:      getDuration("AI_SOLVER_BUDGET", 150*time.Millisecond),
		DefaultDifficulty: getString("AI_DIFFICULTY", "advanced"),
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
