package parser

import (
	"vlr-scraper/internal/constants"

	"github.com/PuerkitoBio/goquery"
)

// UpcomingMatchURLs lists the matches in the homepage's upcoming widget.
func (p *Parser) UpcomingMatchURLs(doc *goquery.Document) ([]string, error) {
	pg := p.page(doc, PageHome)
	return pg.hrefs(doc.Find(".js-home-matches-upcoming .wf-module.wf-card.mod-home-matches a"))
}

// EventMatchURLs lists every match card, finished or upcoming, on an event's
// match page.
func (p *Parser) EventMatchURLs(doc *goquery.Document) ([]string, error) {
	pg := p.page(doc, PageEventMatches)
	return pg.hrefs(doc.Find(".wf-card a.wf-module-item.match-item"))
}

func (p *Parser) TeamMatchURLs(doc *goquery.Document) ([]string, error) {
	pg := p.page(doc, PageTeamMatches)
	urls, err := pg.hrefs(doc.Find("a.wf-card.fc-flex.m-item"))
	if err != nil {
		return nil, err
	}
	if len(urls) > constants.TeamMatchesPageSize {
		urls = urls[:constants.TeamMatchesPageSize]
	}
	return urls, nil
}
