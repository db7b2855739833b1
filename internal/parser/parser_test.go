package parser

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const base = "https://www.vlr.gg"

func newParser(t *testing.T) *Parser {
	t.Helper()
	p, err := New(base)
	require.NoError(t, err)
	return p
}

func fixture(t *testing.T, name, pageURL string) *goquery.Document {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()
	return document(t, f, pageURL)
}

func inline(t *testing.T, html, pageURL string) *goquery.Document {
	t.Helper()
	return document(t, strings.NewReader(html), pageURL)
}

func document(t *testing.T, r io.Reader, pageURL string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(r)
	require.NoError(t, err)
	doc.Url, err = url.Parse(pageURL)
	require.NoError(t, err)
	return doc
}

func requireParseError(t *testing.T, err error, page Page) *ParseError {
	t.Helper()
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
	require.Equal(t, page, pe.Page)
	return pe
}

func TestUpcomingMatchURLs(t *testing.T) {
	p := newParser(t)
	urls, err := p.UpcomingMatchURLs(fixture(t, "home.html", base))
	require.NoError(t, err)
	require.Equal(t, []string{
		base + "/498628/fnatic-vs-team-heretics-valorant-champions-2025-gf",
		base + "/510001/sentinels-vs-g2-esports-challengers-2025",
	}, urls)
}

func TestEventMatchURLs(t *testing.T) {
	p := newParser(t)
	urls, err := p.EventMatchURLs(fixture(t, "event_matches.html", base+"/event/matches/2283"))
	require.NoError(t, err)
	require.Equal(t, []string{
		base + "/498626/paper-rex-vs-fnatic-valorant-champions-2025-ubsf",
		base + "/498627/team-heretics-vs-mibr-valorant-champions-2025-ubsf",
		base + "/498628/fnatic-vs-team-heretics-valorant-champions-2025-gf",
	}, urls)
}

func TestTeamMatchURLs(t *testing.T) {
	p := newParser(t)
	urls, err := p.TeamMatchURLs(fixture(t, "team_matches.html", base+"/team/matches/2593/fnatic"))
	require.NoError(t, err)
	require.Len(t, urls, 3)
	require.Equal(t, base+"/471230/fnatic-vs-navi-masters-toronto-2025", urls[2])
}

func TestTeamMatchURLsBoundedToPageSize(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, `<a class="wf-card fc-flex m-item" href="/%d/m"></a>`, 400000+i)
	}
	p := newParser(t)
	urls, err := p.TeamMatchURLs(inline(t, "<html><body>"+b.String()+"</body></html>", base+"/team/matches/1/x"))
	require.NoError(t, err)
	require.Len(t, urls, 50)
	require.Equal(t, base+"/400000/m", urls[0])
}

func TestEvent(t *testing.T) {
	p := newParser(t)
	ev, err := p.Event(fixture(t, "event.html", base+"/event/2283/valorant-champions-2025"))
	require.NoError(t, err)

	want := &RawEvent{
		Name:   "Valorant Champions 2025",
		Stages: []string{"Group Stage", "Playoffs"},
		StageURLs: []string{
			base + "/event/2283/valorant-champions-2025/group-stage",
			base + "/event/2283/valorant-champions-2025/playoffs",
		},
	}
	if diff := cmp.Diff(want, ev); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestEventMisalignedStages(t *testing.T) {
	html := `<html><body>
<div class="event-desc-inner"><h1 class="wf-title">Masters</h1></div>
<div class="wf-subnav-item-title">Group Stage</div>
<div class="wf-subnav-item-title">Playoffs</div>
<div class="wf-subnav mod-dark"><a href="/event/1/masters/group-stage"></a></div>
</body></html>`
	p := newParser(t)
	_, err := p.Event(inline(t, html, base+"/event/1/masters"))
	pe := requireParseError(t, err, PageEvent)
	require.Equal(t, base+"/event/1/masters", pe.URL)
}

func TestTeam(t *testing.T) {
	p := newParser(t)
	team, err := p.Team(fixture(t, "team.html", base+"/team/2593/fnatic"))
	require.NoError(t, err)

	require.Equal(t, "FNATIC", team.Name)
	require.Equal(t, "FNC", team.Tag)
	require.Equal(t, 1812, team.Rating)
	require.Equal(t, RosterEntry{RealName: "Player One", IGN: "p101", URL: base + "/player/101/p101"}, team.Roster[0])
	require.Equal(t, RosterEntry{RealName: "Player Five", IGN: "p105", URL: base + "/player/105/p105"}, team.Roster[4])
	for _, r := range team.Roster {
		require.NotContains(t, r.URL, "999", "staff must not be part of the active roster")
	}
}

func TestTeamShortRoster(t *testing.T) {
	html := `<html><body>
<div class="team-header-name"><h1 class="wf-title">Tiny</h1><h2 class="wf-title team-header-tag">TNY</h2></div>
<div class="rating-num">1500</div>
<div class="team-roster-item"><a href="/player/1/a"><div class="team-roster-item-name-alias">a</div><div class="team-roster-item-name-real">A</div></a></div>
<div class="team-roster-item"><a href="/player/2/b"><div class="team-roster-item-name-alias">b</div><div class="team-roster-item-name-real">B</div></a></div>
</body></html>`
	p := newParser(t)
	_, err := p.Team(inline(t, html, base+"/team/5/tiny"))
	pe := requireParseError(t, err, PageTeam)
	require.Contains(t, pe.Reason, "roster")
}

func TestPlayer(t *testing.T) {
	p := newParser(t)
	pl, err := p.Player(fixture(t, "player.html", base+"/player/101/p101"))
	require.NoError(t, err)
	require.Equal(t, &RawPlayer{IGN: "p101", RealName: "Player One", TeamURL: base + "/team/2593/fnatic"}, pl)
}

func TestPlayerWithoutTeam(t *testing.T) {
	html := `<html><body><h1 class="wf-title">loner</h1><h2 class="player-real-name">Lo Ner</h2></body></html>`
	p := newParser(t)
	_, err := p.Player(inline(t, html, base+"/player/7/loner"))
	requireParseError(t, err, PagePlayer)
}

func TestScheduledMatch(t *testing.T) {
	p := newParser(t)
	m, err := p.Match(fixture(t, "match_scheduled.html", base+"/498628/fnatic-vs-team-heretics"))
	require.NoError(t, err)

	sm, ok := m.(ScheduledMatch)
	require.True(t, ok, "expected ScheduledMatch, got %T", m)
	want := MatchHeader{
		EventURL: base + "/event/2283/valorant-champions-2025/playoffs",
		Date:     time.Date(2025, 5, 1, 22, 0, 0, 0, time.UTC),
		Team1URL: base + "/team/2593/fnatic",
		Team2URL: base + "/team/1001/team-heretics",
	}
	if diff := cmp.Diff(want, sm.Header()); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestFinishedMatch(t *testing.T) {
	p := newParser(t)
	m, err := p.Match(fixture(t, "match_finished.html", base+"/498628/fnatic-vs-team-heretics"))
	require.NoError(t, err)

	fm, ok := m.(FinishedMatch)
	require.True(t, ok, "expected FinishedMatch, got %T", m)
	require.Equal(t, 2, fm.Team1Score)
	require.Equal(t, 0, fm.Team2Score)
	require.Equal(t, time.Date(2025, 5, 1, 22, 0, 0, 0, time.UTC), fm.Date)

	// the combined "all" block is dropped
	require.Equal(t, 2, fm.MapsPlayed())
	require.Equal(t, "163001", fm.Maps[0].GameID)
	require.Equal(t, "Ascent", fm.Maps[0].Name)
	require.Equal(t, 13, fm.Maps[0].Team1Score)
	require.Equal(t, 9, fm.Maps[0].Team2Score)
	require.Equal(t, "163002", fm.Maps[1].GameID)
	require.Equal(t, "Bind", fm.Maps[1].Name)
	require.Equal(t, 11, fm.Maps[1].Team2Score)

	agents := []string{"Jett", "Sova", "Omen", "Killjoy", "Skye"}
	for mi, rm := range fm.Maps {
		mapNo := mi + 1
		for team, stats := range [][5]RawPlayerStat{rm.Team1Stats, rm.Team2Stats} {
			for j, st := range stats {
				want := RawPlayerStat{
					PlayerURL: fmt.Sprintf("%s/player/%d0%d/p%d0%d", base, team+1, j+1, team+1, j+1),
					Kills:     10 + 5*team + j + mapNo,
					Deaths:    8 + j,
					Assists:   2 + j + mapNo,
					ACS:       200 + 10*j + 5*team,
					Agent:     agents[j],
				}
				if diff := cmp.Diff(want, st); diff != "" {
					t.Fatalf("map %d team %d row %d (-want +got):\n%s", mapNo, team+1, j, diff)
				}
			}
		}
	}
	require.Len(t, fm.Maps[0].Stats(), 10)
}

func TestFinishedMatchNonNumericStat(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "match_finished.html"))
	require.NoError(t, err)
	html := strings.Replace(string(raw), `<span class="side mod-side mod-both">11</span>`, `<span class="side mod-side mod-both">—</span>`, 1)
	require.NotEqual(t, string(raw), html)

	p := newParser(t)
	_, err = p.Match(inline(t, html, base+"/498628/x"))
	pe := requireParseError(t, err, PageMatch)
	require.Contains(t, pe.Reason, "not a number")
}

func TestMatchMissingTeams(t *testing.T) {
	html := `<html><body>
<div class="match-header-super"><a href="/event/1/x/main"></a><div class="moment-tz-convert" data-utc-ts="2025-05-01 18:00:00"></div></div>
<div class="match-header-vs"><a href="/team/1/a"></a><div class="match-header-vs-note">final</div></div>
</body></html>`
	p := newParser(t)
	_, err := p.Match(inline(t, html, base+"/1/x"))
	pe := requireParseError(t, err, PageMatch)
	require.Contains(t, pe.Reason, "team links")
}

func TestMatchDateUsesEasternOffsetForDate(t *testing.T) {
	p := newParser(t)

	summer, err := p.matchDate("2025-05-01 18:00:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 5, 1, 22, 0, 0, 0, time.UTC), summer)
	require.Equal(t, time.UTC, summer.Location())

	winter, err := p.matchDate("2025-01-15 18:00:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC), winter)

	_, err = p.matchDate("May 1st 6pm")
	require.Error(t, err)
}
