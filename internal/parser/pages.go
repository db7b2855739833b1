package parser

import (
	"strings"
	"vlr-scraper/internal/constants"

	"github.com/PuerkitoBio/goquery"
)

func (p *Parser) Event(doc *goquery.Document) (*RawEvent, error) {
	pg := p.page(doc, PageEvent)

	name, err := pg.text(doc.Selection, ".event-desc-inner .wf-title")
	if err != nil {
		return nil, err
	}

	var stages []string
	doc.Find(".wf-subnav-item-title").Each(func(_ int, s *goquery.Selection) {
		stages = append(stages, strings.TrimSpace(s.Text()))
	})
	stageURLs, err := pg.hrefs(doc.Find(".wf-subnav.mod-dark a"))
	if err != nil {
		return nil, err
	}

	if len(stages) == 0 {
		return nil, pg.fail("no stages found")
	}
	if len(stages) != len(stageURLs) {
		return nil, pg.fail("found %d stage names but %d stage urls", len(stages), len(stageURLs))
	}

	return &RawEvent{Name: name, Stages: stages, StageURLs: stageURLs}, nil
}

func (p *Parser) Team(doc *goquery.Document) (*RawTeam, error) {
	pg := p.page(doc, PageTeam)

	name, err := pg.text(doc.Selection, ".team-header-name .wf-title")
	if err != nil {
		return nil, err
	}
	tag, err := pg.text(doc.Selection, ".team-header-name .wf-title.team-header-tag")
	if err != nil {
		return nil, err
	}

	rows := doc.Find(".team-roster-item")
	if rows.Length() < constants.RosterSize {
		return nil, pg.fail("expected at least %d roster entries, found %d", constants.RosterSize, rows.Length())
	}

	team := &RawTeam{Name: name, Tag: tag}
	for i := 0; i < constants.RosterSize; i++ {
		row := rows.Eq(i)

		link, err := pg.one(row, "a")
		if err != nil {
			return nil, err
		}
		u, err := pg.href(link)
		if err != nil {
			return nil, err
		}
		ign, err := pg.text(row, ".team-roster-item-name-alias")
		if err != nil {
			return nil, err
		}
		realName, err := pg.text(row, ".team-roster-item-name-real")
		if err != nil {
			return nil, err
		}
		team.Roster[i] = RosterEntry{RealName: realName, IGN: ign, URL: u}
	}

	rating, err := pg.text(doc.Selection, ".rating-num")
	if err != nil {
		return nil, err
	}
	team.Rating, err = pg.atoi(strings.ReplaceAll(rating, ",", ""), "team rating")
	if err != nil {
		return nil, err
	}

	return team, nil
}

func (p *Parser) Player(doc *goquery.Document) (*RawPlayer, error) {
	pg := p.page(doc, PagePlayer)

	ign, err := pg.text(doc.Selection, ".wf-title")
	if err != nil {
		return nil, err
	}
	realName, err := pg.text(doc.Selection, ".player-real-name")
	if err != nil {
		return nil, err
	}
	teamLink, err := pg.one(doc.Selection, ".wf-card .wf-module-item.mod-first")
	if err != nil {
		return nil, err
	}
	teamURL, err := pg.href(teamLink)
	if err != nil {
		return nil, err
	}

	return &RawPlayer{IGN: ign, RealName: realName, TeamURL: teamURL}, nil
}
