// Package parser turns vlr.gg pages into typed records. Every parser takes a
// goquery document, so fixtures and live fetches go through the same code.
package parser

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
	"vlr-scraper/internal/constants"

	"github.com/PuerkitoBio/goquery"
)

type Page string

const (
	PageHome         Page = "home"
	PageEvent        Page = "event"
	PageEventMatches Page = "event_matches"
	PageMatch        Page = "match"
	PageTeam         Page = "team"
	PageTeamMatches  Page = "team_matches"
	PagePlayer       Page = "player"
)

// ParseError means the page did not have the structure the parser expects.
type ParseError struct {
	URL    string
	Page   Page
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s page %s: %s", e.Page, e.URL, e.Reason)
}

type Parser struct {
	base *url.URL
	loc  *time.Location
}

func New(baseURL string) (*Parser, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	loc, err := time.LoadLocation(constants.SourceTZ)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", constants.SourceTZ, err)
	}
	return &Parser{base: base, loc: loc}, nil
}

func (p *Parser) BaseURL() string {
	return p.base.String()
}

// page carries the document and its kind so helpers can build errors.
type page struct {
	p    *Parser
	doc  *goquery.Document
	kind Page
}

func (p *Parser) page(doc *goquery.Document, kind Page) page {
	return page{p: p, doc: doc, kind: kind}
}

func (pg page) fail(format string, args ...any) error {
	u := ""
	if pg.doc != nil && pg.doc.Url != nil {
		u = pg.doc.Url.String()
	}
	return &ParseError{URL: u, Page: pg.kind, Reason: fmt.Sprintf(format, args...)}
}

// one returns the first match of selector under s, or a ParseError.
func (pg page) one(s *goquery.Selection, selector string) (*goquery.Selection, error) {
	found := s.Find(selector).First()
	if found.Length() == 0 {
		return nil, pg.fail("missing %q", selector)
	}
	return found, nil
}

func (pg page) text(s *goquery.Selection, selector string) (string, error) {
	found, err := pg.one(s, selector)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(found.Text()), nil
}

func (pg page) number(s *goquery.Selection, selector string) (int, error) {
	txt, err := pg.text(s, selector)
	if err != nil {
		return 0, err
	}
	return pg.atoi(txt, selector)
}

func (pg page) atoi(txt, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(txt))
	if err != nil {
		return 0, pg.fail("%s: not a number: %q", what, txt)
	}
	return n, nil
}

func (pg page) attr(s *goquery.Selection, name string) (string, error) {
	v, ok := s.Attr(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", pg.fail("missing %s attribute on <%s>", name, goquery.NodeName(s))
	}
	return v, nil
}

// href resolves the href of s against the base origin.
func (pg page) href(s *goquery.Selection) (string, error) {
	raw, err := pg.attr(s, "href")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", pg.fail("bad href %q: %v", raw, err)
	}
	return pg.p.base.ResolveReference(ref).String(), nil
}

func (pg page) hrefs(sel *goquery.Selection) ([]string, error) {
	urls := make([]string, 0, sel.Length())
	var err error
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var u string
		u, err = pg.href(s)
		if err != nil {
			return false
		}
		urls = append(urls, u)
		return true
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}
