package service

import (
	"context"
	"fmt"
	"vlr-scraper/internal/constants"
	"vlr-scraper/internal/domain"
	"vlr-scraper/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// QueryService backs the read API. It never writes.
type QueryService struct {
	teamRepo   *repository.TeamRepository
	playerRepo *repository.PlayerRepository
	eventRepo  *repository.EventRepository
	matchRepo  *repository.MatchRepository
	statsRepo  *repository.PlayerStatsRepository
	logger     zerolog.Logger
}

func NewQueryService(
	teamRepo *repository.TeamRepository,
	playerRepo *repository.PlayerRepository,
	eventRepo *repository.EventRepository,
	matchRepo *repository.MatchRepository,
	statsRepo *repository.PlayerStatsRepository,
	logger zerolog.Logger,
) *QueryService {
	return &QueryService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		eventRepo:  eventRepo,
		matchRepo:  matchRepo,
		statsRepo:  statsRepo,
		logger:     logger,
	}
}

type TeamDetail struct {
	Team    domain.Team
	Players []domain.Player
}

type PlayerDetail struct {
	Player domain.Player
	Stats  []domain.PlayerStats
}

// MatchSummary is a match with the names a client needs to render it.
type MatchSummary struct {
	Match     domain.Match
	EventName string
	Series    string
	Team1Name string
	Team2Name string
}

type MatchDetail struct {
	MatchSummary
	Maps []repository.MapWithStats
}

func (s *QueryService) Teams(ctx context.Context) ([]domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()
	return s.teamRepo.List(ctx)
}

func (s *QueryService) Team(ctx context.Context, id string) (*TeamDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	team, err := s.teamRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	players, err := s.playerRepo.ListByTeam(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("team_id", id).Msg("failed to list roster")
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	return &TeamDetail{Team: *team, Players: players}, nil
}

func (s *QueryService) Player(ctx context.Context, id string) (*PlayerDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player, err := s.playerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.statsRepo.ListByPlayer(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("player_id", id).Msg("failed to list player stats")
		return nil, fmt.Errorf("failed to list player stats: %w", err)
	}
	return &PlayerDetail{Player: *player, Stats: stats}, nil
}

// Matches lists every match, newest first.
func (s *QueryService) Matches(ctx context.Context) ([]MatchSummary, error) {
	return s.summaries(ctx, s.matchRepo.List)
}

// UpcomingMatches lists unfinished matches, soonest first.
func (s *QueryService) UpcomingMatches(ctx context.Context) ([]MatchSummary, error) {
	return s.summaries(ctx, s.matchRepo.ListUpcoming)
}

// TeamMatches lists the team's matches, newest first.
func (s *QueryService) TeamMatches(ctx context.Context, teamID string) ([]MatchSummary, error) {
	if _, err := s.teamRepo.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return s.summaries(ctx, func(ctx context.Context) ([]domain.Match, error) {
		return s.matchRepo.ListByTeam(ctx, teamID)
	})
}

// EventStages lists every stored stage of the named event.
func (s *QueryService) EventStages(ctx context.Context, name string) ([]domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()
	return s.eventRepo.ListByName(ctx, name)
}

func (s *QueryService) Match(ctx context.Context, id string) (*MatchDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	detail, err := s.matchRepo.GetWithMaps(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := s.teamNames(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.summarize(ctx, detail.Match, names, map[string]*domain.Event{})
	if err != nil {
		return nil, err
	}
	return &MatchDetail{MatchSummary: summary, Maps: detail.Maps}, nil
}

func (s *QueryService) summaries(ctx context.Context, list func(context.Context) ([]domain.Match, error)) ([]MatchSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	var matches []domain.Match
	var names map[string]string

	g.Go(func() error {
		var err error
		matches, err = list(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		names, err = s.teamNames(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to list matches")
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	events := make(map[string]*domain.Event)
	result := make([]MatchSummary, len(matches))
	for i, m := range matches {
		summary, err := s.summarize(ctx, m, names, events)
		if err != nil {
			return nil, err
		}
		result[i] = summary
	}
	return result, nil
}

func (s *QueryService) summarize(ctx context.Context, m domain.Match, names map[string]string, events map[string]*domain.Event) (MatchSummary, error) {
	summary := MatchSummary{
		Match:     m,
		Team1Name: names[m.Team1ID],
		Team2Name: names[m.Team2ID],
	}

	ev, ok := events[m.EventURL]
	if !ok {
		var err error
		ev, err = s.eventRepo.Get(ctx, m.EventURL)
		if err != nil {
			return summary, fmt.Errorf("failed to load event %s: %w", m.EventURL, err)
		}
		events[m.EventURL] = ev
	}
	summary.EventName = ev.Name
	summary.Series = ev.Series
	return summary, nil
}

func (s *QueryService) teamNames(ctx context.Context) (map[string]string, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.VlrID] = t.Name
	}
	return names, nil
}
