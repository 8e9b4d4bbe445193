package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	TablesFile     string
	ReloadSchedule string
	LogLevel       slog.Level
	MetricsEnabled bool
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getenvDefault("PORT", "8080"),
		TablesFile: os.Getenv("TABLES_FILE"),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}

	// Empty RELOAD_SCHEDULE disables reloads; unset keeps the default
	if v, ok := os.LookupEnv("RELOAD_SCHEDULE"); ok {
		cfg.ReloadSchedule = strings.TrimSpace(v)
	} else {
		cfg.ReloadSchedule = "@every 1m"
	}

	level, err := ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.MetricsEnabled = true
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid METRICS_ENABLED: %q", v)
		}
		cfg.MetricsEnabled = b
	}

	return cfg, nil
}

// ParseLevel maps debug|info|warn|error to a slog level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL: %q", s)
	}
	return level, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", v)
}
