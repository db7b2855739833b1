package repository

import (
	"context"
	"database/sql"
	"fmt"
	"vlr-scraper/internal/db"
	"vlr-scraper/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// enriched
type MatchWithMaps struct {
	Match domain.Match
	Maps  []MapWithStats
}

type MapWithStats struct {
	Map   domain.Map
	Stats []domain.PlayerStats
}

func (r *MatchRepository) Get(ctx context.Context, id string) (*domain.Match, error) {
	match, err := r.queries.GetMatch(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	m := toDomainMatch(match)
	return &m, nil
}

func (r *MatchRepository) GetWithMaps(ctx context.Context, id string) (*MatchWithMaps, error) {
	match, err := r.queries.GetMatch(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	maps, err := r.queries.ListMapsByMatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list maps for match %s: %w", id, err)
	}
	stats, err := r.queries.ListPlayerStatsByMatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats for match %s: %w", id, err)
	}

	byMap := make(map[string][]domain.PlayerStats, len(maps))
	for _, s := range stats {
		byMap[s.MapID] = append(byMap[s.MapID], toDomainPlayerStats(s))
	}

	result := &MatchWithMaps{
		Match: toDomainMatch(match),
		Maps:  make([]MapWithStats, len(maps)),
	}
	for i, m := range maps {
		result.Maps[i] = MapWithStats{
			Map:   toDomainMap(m),
			Stats: byMap[m.GameID],
		}
	}
	return result, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]domain.Match, error) {
	matches, err := r.queries.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainMatches(matches), nil
}

func (r *MatchRepository) ListUpcoming(ctx context.Context) ([]domain.Match, error) {
	matches, err := r.queries.ListUpcomingMatches(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainMatches(matches), nil
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Match, error) {
	matches, err := r.queries.ListMatchesByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return toDomainMatches(matches), nil
}

// UpsertScheduled never downgrades a finished match or clears its scores.
func (r *MatchRepository) UpsertScheduled(ctx context.Context, match *domain.Match) error {
	createdAt, updatedAt := stamps(match.CreatedAt, match.UpdatedAt)
	err := r.queries.UpsertScheduledMatch(ctx, db.UpsertScheduledMatchParams{
		VlrID:      match.VlrID,
		EventUrl:   match.EventURL,
		Team1ID:    match.Team1ID,
		Team2ID:    match.Team2ID,
		DatePlayed: match.DatePlayed.UTC(),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert scheduled match %s: %w", match.VlrID, err)
	}
	return nil
}

func (r *MatchRepository) UpsertFinished(ctx context.Context, match *domain.Match) error {
	createdAt, updatedAt := stamps(match.CreatedAt, match.UpdatedAt)
	err := r.queries.UpsertFinishedMatch(ctx, db.UpsertFinishedMatchParams{
		VlrID:      match.VlrID,
		EventUrl:   match.EventURL,
		Team1ID:    match.Team1ID,
		Team2ID:    match.Team2ID,
		DatePlayed: match.DatePlayed.UTC(),
		Team1Score: int64(match.Team1Score),
		Team2Score: int64(match.Team2Score),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert finished match %s: %w", match.VlrID, err)
	}
	return nil
}

func toDomainMatch(m db.Match) domain.Match {
	return domain.Match{
		VlrID:      m.VlrID,
		EventURL:   m.EventUrl,
		Team1ID:    m.Team1ID,
		Team2ID:    m.Team2ID,
		DatePlayed: m.DatePlayed.UTC(),
		IsFinished: m.IsFinished,
		Team1Score: int(m.Team1Score),
		Team2Score: int(m.Team2Score),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toDomainMatches(matches []db.Match) []domain.Match {
	result := make([]domain.Match, len(matches))
	for i, m := range matches {
		result[i] = toDomainMatch(m)
	}
	return result
}
