package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
	"vlr-scraper/internal/config"
	"vlr-scraper/internal/database"
	"vlr-scraper/internal/db"
	"vlr-scraper/internal/parser"
	"vlr-scraper/internal/repository"
	"vlr-scraper/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://www.vlr.gg"

func newTestServer(t *testing.T) (http.Handler, *service.IngestService) {
	t.Helper()

	logger := zerolog.Nop()
	sqlDB, err := database.New(&config.Config{DBPath: filepath.Join(t.TempDir(), "vlr.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	q := db.New(sqlDB)
	teams := repository.NewTeamRepository(sqlDB, q, logger)
	players := repository.NewPlayerRepository(sqlDB, q, logger)
	events := repository.NewEventRepository(sqlDB, q, logger)
	matches := repository.NewMatchRepository(sqlDB, q, logger)
	stats := repository.NewPlayerStatsRepository(sqlDB, q, logger)
	maps := repository.NewMapRepository(sqlDB, q, stats, logger)

	ingest := service.NewIngestService(teams, players, events, matches, maps, logger)
	query := service.NewQueryService(teams, players, events, matches, stats, logger)
	return NewServer(query, logger).Routes(), ingest
}

func roster(first int) [5]parser.RosterEntry {
	var r [5]parser.RosterEntry
	for i := range r {
		id := first + i
		r[i] = parser.RosterEntry{IGN: fmt.Sprintf("ign%d", id), RealName: "Real", URL: fmt.Sprintf("%s/player/%d/x", base, id)}
	}
	return r
}

func statLines(first int) [5]parser.RawPlayerStat {
	var s [5]parser.RawPlayerStat
	for i := range s {
		s[i] = parser.RawPlayerStat{PlayerURL: fmt.Sprintf("%s/player/%d/x", base, first+i), Kills: 20 - i, Deaths: 10, Assists: 5, ACS: 250 - 10*i, Agent: "Jett"}
	}
	return s
}

func seed(t *testing.T, ingest *service.IngestService) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, ingest.IngestEvent(ctx, &parser.RawEvent{
		Name:      "Masters",
		Stages:    []string{"Playoffs"},
		StageURLs: []string{base + "/event/1/masters/playoffs"},
	}))
	require.NoError(t, ingest.IngestTeam(ctx, &parser.RawTeam{Name: "Alpha", Tag: "ALP", Rating: 1800, Roster: roster(101)}, base+"/team/10/alpha"))
	require.NoError(t, ingest.IngestTeam(ctx, &parser.RawTeam{Name: "Bravo", Tag: "BRV", Rating: 1700, Roster: roster(201)}, base+"/team/20/bravo"))

	header := func(day int) parser.MatchHeader {
		return parser.MatchHeader{
			EventURL: base + "/event/1/masters/playoffs",
			Date:     time.Date(2025, 6, day, 18, 0, 0, 0, time.UTC),
			Team1URL: base + "/team/10/alpha",
			Team2URL: base + "/team/20/bravo",
		}
	}

	// two upcoming matches stored out of date order, and one finished
	require.NoError(t, ingest.IngestMatch(ctx, parser.ScheduledMatch{MatchHeader: header(20)}, base+"/3003/late"))
	require.NoError(t, ingest.IngestMatch(ctx, parser.ScheduledMatch{MatchHeader: header(10)}, base+"/3002/early"))
	require.NoError(t, ingest.IngestMatch(ctx, parser.FinishedMatch{
		MatchHeader: header(1),
		Team1Score:  1,
		Team2Score:  0,
		Maps: []parser.RawMap{{
			GameID: "7001", Name: "Lotus", Team1Score: 13, Team2Score: 5,
			Team1Stats: statLines(101), Team2Stats: statLines(201),
		}},
	}, base+"/3001/done"))
}

func get(t *testing.T, h http.Handler, path string, out interface{}) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestUpcomingMatchesOrderedByDate(t *testing.T) {
	h, ingest := newTestServer(t)
	seed(t, ingest)

	var matches []MatchResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/upcoming_matches", &matches))
	require.Len(t, matches, 2)
	assert.Equal(t, "3002", matches[0].VlrID)
	assert.Equal(t, "3003", matches[1].VlrID)
	assert.Equal(t, "Alpha", matches[0].Team1)
	assert.Equal(t, "Masters", matches[0].Event)
	assert.Equal(t, "2025-06-10T18:00:00Z", matches[0].DatePlayed)
}

func TestMatchesNewestFirst(t *testing.T) {
	h, ingest := newTestServer(t)
	seed(t, ingest)

	var matches []MatchResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/matches", &matches))
	require.Len(t, matches, 3)
	assert.Equal(t, []string{"3003", "3002", "3001"}, []string{matches[0].VlrID, matches[1].VlrID, matches[2].VlrID})
}

func TestMatchDetail(t *testing.T) {
	h, ingest := newTestServer(t)
	seed(t, ingest)

	var match MatchDetailResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/match/3001", &match))
	assert.True(t, match.IsFinished)
	assert.Equal(t, 1, match.Team1Score)
	require.Len(t, match.Maps, 1)
	assert.Equal(t, "Lotus", match.Maps[0].Name)
	require.Len(t, match.Maps[0].Stats, 10)
	assert.Equal(t, 250, match.Maps[0].Stats[0].ACS)
}

func TestTeamAndPlayer(t *testing.T) {
	h, ingest := newTestServer(t)
	seed(t, ingest)

	var teams []TeamResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/teams", &teams))
	require.Len(t, teams, 2)
	assert.Equal(t, "Alpha", teams[0].Name)

	var team TeamDetailResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/team/20", &team))
	assert.Equal(t, "BRV", team.Tag)
	assert.Len(t, team.Players, 5)

	var player PlayerDetailResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/player/101", &player))
	assert.Equal(t, "ign101", player.IGN)
	assert.Equal(t, "10", player.TeamID)
	assert.Len(t, player.Stats, 1)
}

func TestTeamMatches(t *testing.T) {
	h, ingest := newTestServer(t)
	seed(t, ingest)

	var matches []MatchResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/team/10/matches", &matches))
	require.Len(t, matches, 3)
	assert.Equal(t, "3003", matches[0].VlrID)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/team/404/matches", nil))
}

func TestEventStages(t *testing.T) {
	h, ingest := newTestServer(t)
	seed(t, ingest)

	var events []EventResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/events?name=Masters", &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Playoffs", events[0].Series)
	assert.Equal(t, base+"/event/1/masters/playoffs", events[0].VlrURL)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/events", nil))
}

func TestUnknownIDsAreNotFound(t *testing.T) {
	h, ingest := newTestServer(t)
	seed(t, ingest)

	for _, path := range []string{"/api/team/404", "/api/match/404", "/api/player/404"} {
		assert.Equal(t, http.StatusNotFound, get(t, h, path, nil), path)
	}
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/teams", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
