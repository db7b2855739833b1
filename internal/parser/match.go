package parser

import (
	"strings"
	"time"
	"vlr-scraper/internal/constants"

	"github.com/PuerkitoBio/goquery"
)

const combinedMapID = "all"

// Match parses a match page into a ScheduledMatch or, once the status note
// reads "final", a FinishedMatch with per-map stats.
func (p *Parser) Match(doc *goquery.Document) (RawMatch, error) {
	pg := p.page(doc, PageMatch)

	header, err := pg.matchHeader()
	if err != nil {
		return nil, err
	}

	status, err := pg.text(doc.Selection, ".match-header-vs-note")
	if err != nil {
		return nil, err
	}
	if strings.ToLower(status) != "final" {
		return ScheduledMatch{MatchHeader: header}, nil
	}

	scores := doc.Find(".match-header-vs-score .js-spoiler span")
	if scores.Length() < 3 {
		return nil, pg.fail("expected 3 score elements, found %d", scores.Length())
	}
	team1Score, err := pg.atoi(scores.Eq(0).Text(), "team 1 match score")
	if err != nil {
		return nil, err
	}
	team2Score, err := pg.atoi(scores.Eq(2).Text(), "team 2 match score")
	if err != nil {
		return nil, err
	}

	blocks := doc.Find(".vm-stats-container .vm-stats-game").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("data-game-id")
		return id != combinedMapID
	})

	maps := make([]RawMap, 0, blocks.Length())
	for i := 0; i < blocks.Length(); i++ {
		m, err := pg.mapBlock(blocks.Eq(i), i+1)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}

	return FinishedMatch{
		MatchHeader: header,
		Team1Score:  team1Score,
		Team2Score:  team2Score,
		Maps:        maps,
	}, nil
}

func (pg page) matchHeader() (MatchHeader, error) {
	var h MatchHeader
	doc := pg.doc

	eventLink, err := pg.one(doc.Selection, ".match-header-super a")
	if err != nil {
		return h, err
	}
	if h.EventURL, err = pg.href(eventLink); err != nil {
		return h, err
	}

	stamp, err := pg.one(doc.Selection, ".moment-tz-convert")
	if err != nil {
		return h, err
	}
	ts, err := pg.attr(stamp, "data-utc-ts")
	if err != nil {
		return h, err
	}
	if h.Date, err = pg.p.matchDate(ts); err != nil {
		return h, pg.fail("bad match timestamp %q: %v", ts, err)
	}

	teams := doc.Find(".match-header-vs a")
	if teams.Length() != 2 {
		return h, pg.fail("expected 2 team links, found %d", teams.Length())
	}
	if h.Team1URL, err = pg.href(teams.Eq(0)); err != nil {
		return h, err
	}
	if h.Team2URL, err = pg.href(teams.Eq(1)); err != nil {
		return h, err
	}

	return h, nil
}

// matchDate reads the site's timestamp, which is US-Eastern wall time despite
// the attribute name, and returns it in UTC.
func (p *Parser) matchDate(ts string) (time.Time, error) {
	local, err := time.ParseInLocation(constants.DateLayout, strings.TrimSpace(ts), p.loc)
	if err != nil {
		return time.Time{}, err
	}
	return local.UTC(), nil
}

func (pg page) mapBlock(block *goquery.Selection, n int) (RawMap, error) {
	var m RawMap
	var err error

	if m.GameID, err = pg.attr(block, "data-game-id"); err != nil {
		return m, err
	}

	scores := block.Find(".vm-stats-game-header .team .score")
	if scores.Length() != 2 {
		return m, pg.fail("map %d: expected 2 round scores, found %d", n, scores.Length())
	}
	if m.Team1Score, err = pg.atoi(scores.Eq(0).Text(), "team 1 round score"); err != nil {
		return m, err
	}
	if m.Team2Score, err = pg.atoi(scores.Eq(1).Text(), "team 2 round score"); err != nil {
		return m, err
	}

	name, err := pg.text(block, ".vm-stats-game-header .map span")
	if err != nil {
		return m, err
	}
	m.Name = strings.TrimSpace(strings.ReplaceAll(name, "PICK", ""))
	if m.Name == "" {
		return m, pg.fail("map %d: empty map name", n)
	}

	bodies := block.Find("tbody")
	if bodies.Length() != constants.TeamsPerMap {
		return m, pg.fail("map %d: expected %d stat tables, found %d", n, constants.TeamsPerMap, bodies.Length())
	}
	for team, out := range []*[constants.RosterSize]RawPlayerStat{&m.Team1Stats, &m.Team2Stats} {
		rows := bodies.Eq(team).Find("tr")
		if rows.Length() != constants.RosterSize {
			return m, pg.fail("map %d team %d: expected %d player rows, found %d", n, team+1, constants.RosterSize, rows.Length())
		}
		for i := 0; i < constants.RosterSize; i++ {
			if out[i], err = pg.statRow(rows.Eq(i)); err != nil {
				return m, err
			}
		}
	}

	return m, nil
}

func (pg page) statRow(row *goquery.Selection) (RawPlayerStat, error) {
	var st RawPlayerStat

	link, err := pg.one(row, ".mod-player a")
	if err != nil {
		return st, err
	}
	if st.PlayerURL, err = pg.href(link); err != nil {
		return st, err
	}

	img, err := pg.one(row, ".mod-agents img")
	if err != nil {
		return st, err
	}
	if st.Agent, err = pg.attr(img, "title"); err != nil {
		return st, err
	}

	// ACS is the second stat cell; the rest are located by class.
	cells := row.Find(".mod-stat")
	if cells.Length() < 2 {
		return st, pg.fail("expected stat cells, found %d", cells.Length())
	}
	if st.ACS, err = pg.number(cells.Eq(1), ".side.mod-side.mod-both"); err != nil {
		return st, err
	}
	if st.Kills, err = pg.number(row, ".mod-stat.mod-vlr-kills .side.mod-side.mod-both"); err != nil {
		return st, err
	}
	if st.Deaths, err = pg.number(row, ".mod-stat.mod-vlr-deaths .side.mod-both"); err != nil {
		return st, err
	}
	if st.Assists, err = pg.number(row, ".mod-stat.mod-vlr-assists .side.mod-both"); err != nil {
		return st, err
	}

	return st, nil
}
