package database

import (
	"path/filepath"
	"testing"
	"vlr-scraper/internal/config"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesSchema(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "vlr.db")}

	db, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"teams", "players", "events", "matches", "maps", "player_stats"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestNewIsIdempotent(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "vlr.db")}

	first, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO teams (vlr_id, name, tag, rating, last_updated) VALUES ('1', 'Alpha', 'ALP', 1500, CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer second.Close()

	version, err := goose.GetDBVersion(second)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)

	var count int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM teams`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestForeignKeysEnforced(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "vlr.db")}

	db, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO maps (game_id, match_id, map_number, name, team1_score, team2_score) VALUES ('1', 'missing', 1, 'Bind', 13, 7)`)
	assert.Error(t, err)
}
