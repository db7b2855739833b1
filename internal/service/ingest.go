package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"vlr-scraper/internal/domain"
	"vlr-scraper/internal/ident"
	"vlr-scraper/internal/parser"
	"vlr-scraper/internal/repository"

	"github.com/rs/zerolog"
)

var ErrMissingDependency = errors.New("missing dependency")

type DependencyKind string

const (
	KindTeam   DependencyKind = "team"
	KindPlayer DependencyKind = "player"
	KindEvent  DependencyKind = "event"
)

// MissingDependencyError reports a referenced row that has not been ingested
// yet. Key is the team or player id, or the event stage URL.
type MissingDependencyError struct {
	Kind DependencyKind
	Key  string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing %s %s", e.Kind, e.Key)
}

func (e *MissingDependencyError) Is(target error) bool {
	return target == ErrMissingDependency
}

type IngestService struct {
	teamRepo   *repository.TeamRepository
	playerRepo *repository.PlayerRepository
	eventRepo  *repository.EventRepository
	matchRepo  *repository.MatchRepository
	mapRepo    *repository.MapRepository
	locks      *keyLock
	now        func() time.Time
	logger     zerolog.Logger
}

func NewIngestService(
	teamRepo *repository.TeamRepository,
	playerRepo *repository.PlayerRepository,
	eventRepo *repository.EventRepository,
	matchRepo *repository.MatchRepository,
	mapRepo *repository.MapRepository,
	logger zerolog.Logger,
) *IngestService {
	return &IngestService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		eventRepo:  eventRepo,
		matchRepo:  matchRepo,
		mapRepo:    mapRepo,
		locks:      newKeyLock(),
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

// Exists reports whether the row a dependency points at is already stored.
func (s *IngestService) Exists(ctx context.Context, kind DependencyKind, key string) (bool, error) {
	switch kind {
	case KindTeam:
		return s.teamRepo.Exists(ctx, key)
	case KindPlayer:
		return s.playerRepo.Exists(ctx, key)
	case KindEvent:
		return s.eventRepo.Exists(ctx, key)
	default:
		return false, fmt.Errorf("unknown dependency kind %q", kind)
	}
}

// IngestEvent stores one row per stage, all sharing the event name.
func (s *IngestService) IngestEvent(ctx context.Context, raw *parser.RawEvent) error {
	if len(raw.Stages) != len(raw.StageURLs) {
		return fmt.Errorf("event %q has %d stages but %d stage urls", raw.Name, len(raw.Stages), len(raw.StageURLs))
	}

	keys := make([]string, len(raw.StageURLs))
	events := make([]domain.Event, len(raw.StageURLs))
	for i, u := range raw.StageURLs {
		keys[i] = eventKey(u)
		events[i] = domain.Event{VlrURL: u, Name: raw.Name, Series: raw.Stages[i]}
	}

	unlock := s.locks.lockAll(keys...)
	defer unlock()

	if err := s.eventRepo.UpsertBatch(ctx, events); err != nil {
		s.logger.Error().Err(err).Str("event", raw.Name).Msg("failed to store event")
		return fmt.Errorf("failed to store event %q: %w", raw.Name, err)
	}

	s.logger.Info().Str("event", raw.Name).Int("stages", len(events)).Msg("event ingested")
	return nil
}

// IngestTeam stores the team and points every roster player at it. All URLs
// are validated before anything is written.
func (s *IngestService) IngestTeam(ctx context.Context, raw *parser.RawTeam, teamURL string) error {
	teamID, err := ident.TeamID(teamURL)
	if err != nil {
		return err
	}

	now := s.now()
	keys := []string{teamKey(teamID)}
	roster := make([]domain.Player, len(raw.Roster))
	for i, entry := range raw.Roster {
		playerID, err := ident.PlayerID(entry.URL)
		if err != nil {
			return fmt.Errorf("team %s roster: %w", teamID, err)
		}
		keys = append(keys, playerKey(playerID))
		roster[i] = domain.Player{
			VlrID:       playerID,
			IGN:         entry.IGN,
			RealName:    entry.RealName,
			TeamID:      teamID,
			LastUpdated: now,
		}
	}

	unlock := s.locks.lockAll(keys...)
	defer unlock()

	team := &domain.Team{
		VlrID:       teamID,
		Name:        raw.Name,
		Tag:         raw.Tag,
		Rating:      raw.Rating,
		LastUpdated: now,
	}
	if err := s.teamRepo.UpsertWithRoster(ctx, team, roster); err != nil {
		s.logger.Error().Err(err).Str("team_id", teamID).Msg("failed to store team")
		return fmt.Errorf("failed to store team %s: %w", teamID, err)
	}

	s.logger.Info().Str("team_id", teamID).Str("team", raw.Name).Msg("team ingested")
	return nil
}

// IngestPlayer requires the player's team to be stored already.
func (s *IngestService) IngestPlayer(ctx context.Context, raw *parser.RawPlayer, playerURL string) error {
	playerID, err := ident.PlayerID(playerURL)
	if err != nil {
		return err
	}
	teamID, err := ident.TeamID(raw.TeamURL)
	if err != nil {
		return fmt.Errorf("player %s team: %w", playerID, err)
	}

	unlock := s.locks.lock(playerKey(playerID))
	defer unlock()

	if err := s.require(ctx, KindTeam, teamID); err != nil {
		return err
	}

	player := &domain.Player{
		VlrID:       playerID,
		IGN:         raw.IGN,
		RealName:    raw.RealName,
		TeamID:      teamID,
		LastUpdated: s.now(),
	}
	if err := s.playerRepo.Upsert(ctx, player); err != nil {
		s.logger.Error().Err(err).Str("player_id", playerID).Msg("failed to store player")
		return fmt.Errorf("failed to store player %s: %w", playerID, err)
	}

	s.logger.Info().Str("player_id", playerID).Str("ign", raw.IGN).Msg("player ingested")
	return nil
}

// IngestMatch stores a scheduled or finished match. For a finished match the
// match row is written first, then each map together with its stats. A failure
// on a later map leaves the match row and earlier maps in place.
func (s *IngestService) IngestMatch(ctx context.Context, raw parser.RawMatch, matchURL string) error {
	header := raw.Header()

	matchID, err := ident.MatchID(matchURL)
	if err != nil {
		return err
	}
	team1ID, err := ident.TeamID(header.Team1URL)
	if err != nil {
		return fmt.Errorf("match %s team 1: %w", matchID, err)
	}
	team2ID, err := ident.TeamID(header.Team2URL)
	if err != nil {
		return fmt.Errorf("match %s team 2: %w", matchID, err)
	}

	unlock := s.locks.lock(matchKey(matchID))
	defer unlock()

	if err := s.require(ctx, KindEvent, header.EventURL); err != nil {
		return err
	}
	if err := s.require(ctx, KindTeam, team1ID); err != nil {
		return err
	}
	if err := s.require(ctx, KindTeam, team2ID); err != nil {
		return err
	}

	match := &domain.Match{
		VlrID:      matchID,
		EventURL:   header.EventURL,
		Team1ID:    team1ID,
		Team2ID:    team2ID,
		DatePlayed: header.Date,
	}

	switch m := raw.(type) {
	case parser.ScheduledMatch:
		if err := s.matchRepo.UpsertScheduled(ctx, match); err != nil {
			s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to store scheduled match")
			return err
		}
		s.logger.Info().Str("match_id", matchID).Time("date_played", header.Date).Msg("scheduled match ingested")
		return nil

	case parser.FinishedMatch:
		match.IsFinished = true
		match.Team1Score = m.Team1Score
		match.Team2Score = m.Team2Score
		if err := s.matchRepo.UpsertFinished(ctx, match); err != nil {
			s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to store finished match")
			return err
		}

		created := 0
		for i, rm := range m.Maps {
			n, err := s.ingestMap(ctx, matchID, i+1, rm)
			if err != nil {
				s.logger.Warn().Err(err).Str("match_id", matchID).Int("map_number", i+1).Msg("match stored partially")
				return fmt.Errorf("match %s map %d: %w", matchID, i+1, err)
			}
			created += n
		}

		s.logger.Info().
			Str("match_id", matchID).
			Int("maps", m.MapsPlayed()).
			Int("stats_created", created).
			Msg("finished match ingested")
		return nil

	default:
		return fmt.Errorf("match %s: unsupported match variant %T", matchID, raw)
	}
}

func (s *IngestService) ingestMap(ctx context.Context, matchID string, number int, rm parser.RawMap) (int, error) {
	rows := rm.Stats()
	stats := make([]domain.PlayerStats, len(rows))
	for i, row := range rows {
		playerID, err := ident.PlayerID(row.PlayerURL)
		if err != nil {
			return 0, err
		}
		if err := s.require(ctx, KindPlayer, playerID); err != nil {
			return 0, err
		}
		stats[i] = domain.PlayerStats{
			PlayerID: playerID,
			MapID:    rm.GameID,
			Kills:    row.Kills,
			Deaths:   row.Deaths,
			Assists:  row.Assists,
			ACS:      row.ACS,
			Agent:    row.Agent,
		}
	}

	m := &domain.Map{
		GameID:     rm.GameID,
		MatchID:    matchID,
		Name:       rm.Name,
		MapNumber:  number,
		Team1Score: rm.Team1Score,
		Team2Score: rm.Team2Score,
	}
	return s.mapRepo.UpsertWithStats(ctx, m, stats)
}

func (s *IngestService) require(ctx context.Context, kind DependencyKind, key string) error {
	ok, err := s.Exists(ctx, kind, key)
	if err != nil {
		return fmt.Errorf("failed to look up %s %s: %w", kind, key, err)
	}
	if !ok {
		return &MissingDependencyError{Kind: kind, Key: key}
	}
	return nil
}
