package repository

import (
	"context"
	"database/sql"
	"fmt"
	"vlr-scraper/internal/db"
	"vlr-scraper/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (*domain.Player, error) {
	player, err := r.queries.GetPlayer(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	p := toDomainPlayer(player)
	return &p, nil
}

func (r *PlayerRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.queries.GetPlayer(ctx, id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("player_id", id).Msg("failed to look up player")
		return false, err
	}
	return true, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, player *domain.Player) error {
	return upsertPlayer(ctx, r.queries, player)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Player, error) {
	players, err := r.queries.ListPlayersByTeam(ctx, nullString(teamID))
	if err != nil {
		return nil, err
	}

	result := make([]domain.Player, len(players))
	for i, p := range players {
		result[i] = toDomainPlayer(p)
	}
	return result, nil
}

func upsertPlayer(ctx context.Context, q *db.Queries, player *domain.Player) error {
	createdAt, updatedAt := stamps(player.CreatedAt, player.UpdatedAt)
	err := q.UpsertPlayer(ctx, db.UpsertPlayerParams{
		VlrID:       player.VlrID,
		Ign:         player.IGN,
		RealName:    player.RealName,
		TeamID:      nullString(player.TeamID),
		LastUpdated: player.LastUpdated,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", player.VlrID, err)
	}
	return nil
}

func toDomainPlayer(p db.Player) domain.Player {
	return domain.Player{
		VlrID:       p.VlrID,
		IGN:         p.Ign,
		RealName:    p.RealName,
		TeamID:      p.TeamID.String,
		LastUpdated: p.LastUpdated,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
