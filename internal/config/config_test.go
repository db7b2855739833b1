package config

import (
	"testing"
	"time"
	"vlr-scraper/internal/constants"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"BASE_URL", "DB_PATH", "FETCH_DELAY", "FETCH_TIMEOUT", "FETCH_MAX_ATTEMPTS", "CRAWL_WORKERS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, constants.BaseURL, cfg.BaseURL)
	require.Equal(t, time.Second, cfg.FetchDelay)
	require.Equal(t, 20*time.Second, cfg.FetchTimeout)
	require.Equal(t, 3, cfg.FetchMaxAttempts)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FETCH_DELAY", "250ms")
	t.Setenv("FETCH_MAX_ATTEMPTS", "5")
	t.Setenv("CRAWL_WORKERS", "2")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, cfg.FetchDelay)
	require.Equal(t, 5, cfg.FetchMaxAttempts)
	require.Equal(t, 2, cfg.CrawlWorkers)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("FETCH_DELAY", "soon")
	_, err := Load(zerolog.Nop())
	require.Error(t, err)

	t.Setenv("FETCH_DELAY", "")
	t.Setenv("FETCH_MAX_ATTEMPTS", "0")
	_, err = Load(zerolog.Nop())
	require.ErrorContains(t, err, "FETCH_MAX_ATTEMPTS")
}
