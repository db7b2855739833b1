package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	"vlr-scraper/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	BaseURL    string
	UserAgent  string
	DBPath     string
	ServerPort string
	LogLevel   string

	FetchDelay       time.Duration
	FetchTimeout     time.Duration
	FetchMaxAttempts int
	CrawlWorkers     int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		BaseURL:    getEnv("BASE_URL", constants.BaseURL),
		UserAgent:  getEnv("USER_AGENT", constants.UserAgent),
		DBPath:     getEnv("DB_PATH", "vlr.db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.FetchDelay, err = getDuration("FETCH_DELAY", constants.FetchDelay); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", constants.FetchTimeout); err != nil {
		return nil, err
	}
	if cfg.FetchMaxAttempts, err = getInt("FETCH_MAX_ATTEMPTS", constants.FetchMaxAttempts); err != nil {
		return nil, err
	}
	if cfg.CrawlWorkers, err = getInt("CRAWL_WORKERS", constants.CrawlWorkers); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("fetch_delay", cfg.FetchDelay).
		Dur("fetch_timeout", cfg.FetchTimeout).
		Int("fetch_max_attempts", cfg.FetchMaxAttempts).
		Int("crawl_workers", cfg.CrawlWorkers).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if c.FetchMaxAttempts < 1 {
		return fmt.Errorf("FETCH_MAX_ATTEMPTS must be at least 1, got %d", c.FetchMaxAttempts)
	}
	if c.FetchDelay < 0 {
		return fmt.Errorf("FETCH_DELAY must not be negative")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.CrawlWorkers < 1 {
		return fmt.Errorf("CRAWL_WORKERS must be at least 1, got %d", c.CrawlWorkers)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

var Module = fx.Provide(Load)
