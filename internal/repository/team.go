package repository

import (
	"context"
	"database/sql"
	"fmt"
	"vlr-scraper/internal/db"
	"vlr-scraper/internal/domain"

	"github.com/rs/zerolog"
)

type TeamRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewTeamRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *TeamRepository {
	return &TeamRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *TeamRepository) Get(ctx context.Context, id string) (*domain.Team, error) {
	team, err := r.queries.GetTeam(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	t := toDomainTeam(team)
	return &t, nil
}

func (r *TeamRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.queries.GetTeam(ctx, id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("team_id", id).Msg("failed to look up team")
		return false, err
	}
	return true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	teams, err := r.queries.ListTeams(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Team, len(teams))
	for i, t := range teams {
		result[i] = toDomainTeam(t)
	}
	return result, nil
}

// UpsertWithRoster writes the team and its players in one transaction.
func (r *TeamRepository) UpsertWithRoster(ctx context.Context, team *domain.Team, roster []domain.Player) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	createdAt, updatedAt := stamps(team.CreatedAt, team.UpdatedAt)
	err = qtx.UpsertTeam(ctx, db.UpsertTeamParams{
		VlrID:       team.VlrID,
		Name:        team.Name,
		Tag:         team.Tag,
		Rating:      int64(team.Rating),
		LastUpdated: team.LastUpdated,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert team %s: %w", team.VlrID, err)
	}

	for i := range roster {
		if err := upsertPlayer(ctx, qtx, &roster[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func toDomainTeam(t db.Team) domain.Team {
	return domain.Team{
		VlrID:       t.VlrID,
		Name:        t.Name,
		Tag:         t.Tag,
		Rating:      int(t.Rating),
		LastUpdated: t.LastUpdated,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
