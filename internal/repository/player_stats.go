package repository

import (
	"context"
	"database/sql"
	"fmt"
	"vlr-scraper/internal/db"
	"vlr-scraper/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type PlayerStatsRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerStatsRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerStatsRepository {
	return &PlayerStatsRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerStatsRepository) ListByPlayer(ctx context.Context, playerID string) ([]domain.PlayerStats, error) {
	records, err := r.queries.ListPlayerStatsByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return toDomainPlayerStatsList(records), nil
}

// insertBatch creates the rows whose (player, map) pair is new and skips the
// rest.
func (r *PlayerStatsRepository) insertBatch(ctx context.Context, qtx *db.Queries, records []domain.PlayerStats) (int, error) {
	created := 0
	for _, record := range records {
		id := record.ID
		if id == "" {
			var err error
			id, err = gonanoid.New()
			if err != nil {
				return 0, fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}

		createdAt, updatedAt := stamps(record.CreatedAt, record.UpdatedAt)
		n, err := qtx.InsertPlayerStatIfAbsent(ctx, db.InsertPlayerStatIfAbsentParams{
			ID:        id,
			PlayerID:  record.PlayerID,
			MapID:     record.MapID,
			Kills:     int64(record.Kills),
			Deaths:    int64(record.Deaths),
			Assists:   int64(record.Assists),
			Acs:       int64(record.ACS),
			Agent:     record.Agent,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert stats for player %s on map %s: %w", record.PlayerID, record.MapID, err)
		}
		created += int(n)
	}
	return created, nil
}

func toDomainPlayerStats(s db.PlayerStat) domain.PlayerStats {
	return domain.PlayerStats{
		ID:        s.ID,
		PlayerID:  s.PlayerID,
		MapID:     s.MapID,
		Kills:     int(s.Kills),
		Deaths:    int(s.Deaths),
		Assists:   int(s.Assists),
		ACS:       int(s.Acs),
		Agent:     s.Agent,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toDomainPlayerStatsList(records []db.PlayerStat) []domain.PlayerStats {
	result := make([]domain.PlayerStats, len(records))
	for i, s := range records {
		result[i] = toDomainPlayerStats(s)
	}
	return result
}
