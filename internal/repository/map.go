package repository

import (
	"context"
	"database/sql"
	"fmt"
	"vlr-scraper/internal/db"
	"vlr-scraper/internal/domain"

	"github.com/rs/zerolog"
)

type MapRepository struct {
	queries   *db.Queries
	db        *sql.DB
	statsRepo *PlayerStatsRepository
	logger    zerolog.Logger
}

func NewMapRepository(sqlDB *sql.DB, queries *db.Queries, statsRepo *PlayerStatsRepository, logger zerolog.Logger) *MapRepository {
	return &MapRepository{
		queries:   queries,
		db:        sqlDB,
		statsRepo: statsRepo,
		logger:    logger,
	}
}

// UpsertWithStats writes the map keyed by game id and inserts any stat rows
// it does not have yet, all in one transaction. Existing stat rows are left
// untouched. Returns how many stat rows were created.
func (r *MapRepository) UpsertWithStats(ctx context.Context, m *domain.Map, stats []domain.PlayerStats) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	createdAt, updatedAt := stamps(m.CreatedAt, m.UpdatedAt)
	err = qtx.UpsertMap(ctx, db.UpsertMapParams{
		GameID:     m.GameID,
		MatchID:    m.MatchID,
		Name:       m.Name,
		MapNumber:  int64(m.MapNumber),
		Team1Score: int64(m.Team1Score),
		Team2Score: int64(m.Team2Score),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert map %s: %w", m.GameID, err)
	}

	created, err := r.statsRepo.insertBatch(ctx, qtx, stats)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit map %s: %w", m.GameID, err)
	}

	r.logger.Debug().
		Str("game_id", m.GameID).
		Str("match_id", m.MatchID).
		Int("stats_created", created).
		Msg("map stored")
	return created, nil
}

func toDomainMap(m db.Map) domain.Map {
	return domain.Map{
		GameID:     m.GameID,
		MatchID:    m.MatchID,
		Name:       m.Name,
		MapNumber:  int(m.MapNumber),
		Team1Score: int(m.Team1Score),
		Team2Score: int(m.Team2Score),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
