package service

import (
	"context"
	"fmt"
	"sync"
	"vlr-scraper/internal/config"
	"vlr-scraper/internal/constants"
	"vlr-scraper/internal/ident"
	"vlr-scraper/internal/parser"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves a page as a parsed document. *api.VLRClient implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

type Failure struct {
	URL string
	Err error
}

// Report summarises one crawl. A failed match never stops the others.
type Report struct {
	Total    int
	Ingested int
	Failures []Failure
}

type Crawler struct {
	fetcher Fetcher
	parser  *parser.Parser
	ingest  *IngestService
	workers int
	refresh bool
	logger  zerolog.Logger
}

func NewCrawler(fetcher Fetcher, p *parser.Parser, ingest *IngestService, cfg *config.Config, logger zerolog.Logger) *Crawler {
	workers := cfg.CrawlWorkers
	if workers < 1 {
		workers = constants.CrawlWorkers
	}
	return &Crawler{
		fetcher: fetcher,
		parser:  p,
		ingest:  ingest,
		workers: workers,
		logger:  logger,
	}
}

// WithRefresh returns a crawler that re-fetches teams and events even when
// they are already stored. Players are refreshed through their team's roster.
func (c *Crawler) WithRefresh(refresh bool) *Crawler {
	cp := *c
	cp.refresh = refresh
	return &cp
}

// CrawlUpcoming ingests every match listed on the homepage.
func (c *Crawler) CrawlUpcoming(ctx context.Context) (*Report, error) {
	home := c.parser.BaseURL()
	doc, err := c.fetcher.Fetch(ctx, home)
	if err != nil {
		return nil, err
	}
	urls, err := c.parser.UpcomingMatchURLs(doc)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Int("matches", len(urls)).Msg("crawling upcoming matches")
	return c.newRun().matches(ctx, urls)
}

// CrawlEvent ingests the event's stages and then every match it lists.
func (c *Crawler) CrawlEvent(ctx context.Context, eventURL string) (*Report, error) {
	listURL, err := ident.EventMatchesURL(eventURL)
	if err != nil {
		return nil, err
	}

	run := c.newRun()
	if err := run.fetchEvent(ctx, eventURL); err != nil {
		return nil, err
	}

	doc, err := c.fetcher.Fetch(ctx, listURL)
	if err != nil {
		return nil, err
	}
	urls, err := c.parser.EventMatchURLs(doc)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Str("event_url", eventURL).Int("matches", len(urls)).Msg("crawling event matches")
	return run.matches(ctx, urls)
}

// CrawlTeam ingests the team and then its recent match history.
func (c *Crawler) CrawlTeam(ctx context.Context, teamURL string) (*Report, error) {
	teamID, err := ident.TeamID(teamURL)
	if err != nil {
		return nil, err
	}
	listURL, err := ident.TeamMatchesURL(teamURL)
	if err != nil {
		return nil, err
	}

	run := c.newRun()
	if err := run.once(teamKey(teamID), func() error { return run.fetchTeam(ctx, teamURL) }); err != nil {
		return nil, err
	}

	doc, err := c.fetcher.Fetch(ctx, listURL)
	if err != nil {
		return nil, err
	}
	urls, err := c.parser.TeamMatchURLs(doc)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Str("team_id", teamID).Int("matches", len(urls)).Msg("crawling team matches")
	return run.matches(ctx, urls)
}

// CrawlMatch ingests one match along with any event, team or player it
// references that is not stored yet.
func (c *Crawler) CrawlMatch(ctx context.Context, matchURL string) error {
	return c.newRun().match(ctx, matchURL)
}

// crawlRun holds the per-run dedup state so a dependency shared by many
// matches is fetched once.
type crawlRun struct {
	c     *Crawler
	group singleflight.Group

	mu   sync.Mutex
	done map[string]error

	reportMu sync.Mutex
	report   Report
}

func (c *Crawler) newRun() *crawlRun {
	return &crawlRun{c: c, done: make(map[string]error)}
}

func (r *crawlRun) matches(ctx context.Context, urls []string) (*Report, error) {
	seen := make(map[string]struct{}, len(urls))

	var g errgroup.Group
	g.SetLimit(r.c.workers)
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}

		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r.record(u, r.match(ctx, u))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return &r.report, err
	}

	r.c.logger.Info().
		Int("total", r.report.Total).
		Int("ingested", r.report.Ingested).
		Int("failed", len(r.report.Failures)).
		Msg("crawl finished")
	return &r.report, nil
}

func (r *crawlRun) record(u string, err error) {
	r.reportMu.Lock()
	defer r.reportMu.Unlock()

	r.report.Total++
	if err != nil {
		r.c.logger.Warn().Err(err).Str("url", u).Msg("match failed")
		r.report.Failures = append(r.report.Failures, Failure{URL: u, Err: err})
		return
	}
	r.report.Ingested++
}

func (r *crawlRun) match(ctx context.Context, matchURL string) error {
	matchID, err := ident.MatchID(matchURL)
	if err != nil {
		return err
	}

	return r.once(matchKey(matchID), func() error {
		doc, err := r.c.fetcher.Fetch(ctx, matchURL)
		if err != nil {
			return err
		}
		raw, err := r.c.parser.Match(doc)
		if err != nil {
			return err
		}

		if err := r.dependencies(ctx, raw); err != nil {
			return fmt.Errorf("match %s dependencies: %w", matchID, err)
		}

		ingestCtx, cancel := context.WithTimeout(ctx, constants.IngestTimeout)
		defer cancel()
		return r.c.ingest.IngestMatch(ingestCtx, raw, matchURL)
	})
}

// dependencies makes sure the event, both teams and, for a finished match,
// every player with a stat line are stored. Teams go first since their
// rosters usually cover the players.
func (r *crawlRun) dependencies(ctx context.Context, raw parser.RawMatch) error {
	h := raw.Header()

	if err := r.ensure(ctx, KindEvent, h.EventURL, func() error { return r.fetchEvent(ctx, h.EventURL) }); err != nil {
		return err
	}
	for _, teamURL := range []string{h.Team1URL, h.Team2URL} {
		if err := r.ensureTeam(ctx, teamURL); err != nil {
			return err
		}
	}

	fm, ok := raw.(parser.FinishedMatch)
	if !ok {
		return nil
	}
	for _, m := range fm.Maps {
		for _, st := range m.Stats() {
			if err := r.ensurePlayer(ctx, st.PlayerURL); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *crawlRun) ensureTeam(ctx context.Context, teamURL string) error {
	teamID, err := ident.TeamID(teamURL)
	if err != nil {
		return err
	}
	return r.ensure(ctx, KindTeam, teamID, func() error { return r.fetchTeam(ctx, teamURL) })
}

func (r *crawlRun) ensurePlayer(ctx context.Context, playerURL string) error {
	playerID, err := ident.PlayerID(playerURL)
	if err != nil {
		return err
	}
	return r.ensure(ctx, KindPlayer, playerID, func() error {
		doc, err := r.c.fetcher.Fetch(ctx, playerURL)
		if err != nil {
			return err
		}
		raw, err := r.c.parser.Player(doc)
		if err != nil {
			return err
		}
		if err := r.ensureTeam(ctx, raw.TeamURL); err != nil {
			return err
		}
		return r.c.ingest.IngestPlayer(ctx, raw, playerURL)
	})
}

// ensure runs fetch once per run for key, skipping it when the row is
// already stored and refresh does not apply.
func (r *crawlRun) ensure(ctx context.Context, kind DependencyKind, key string, fetch func() error) error {
	return r.once(string(kind)+":"+key, func() error {
		if !r.c.refresh || kind == KindPlayer {
			ok, err := r.c.ingest.Exists(ctx, kind, key)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
		r.c.logger.Debug().Str("kind", string(kind)).Str("key", key).Msg("fetching dependency")
		return fetch()
	})
}

func (r *crawlRun) once(key string, fn func() error) error {
	r.mu.Lock()
	if err, ok := r.done[key]; ok {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	_, err, _ := r.group.Do(key, func() (interface{}, error) {
		err := fn()
		r.mu.Lock()
		r.done[key] = err
		r.mu.Unlock()
		return nil, err
	})
	return err
}

func (r *crawlRun) fetchEvent(ctx context.Context, eventURL string) error {
	doc, err := r.c.fetcher.Fetch(ctx, eventURL)
	if err != nil {
		return err
	}
	raw, err := r.c.parser.Event(doc)
	if err != nil {
		return err
	}
	if err := r.c.ingest.IngestEvent(ctx, raw); err != nil {
		return err
	}

	// every stage row now exists, so later lookups for them can be skipped
	r.mu.Lock()
	for _, u := range raw.StageURLs {
		if _, ok := r.done[string(KindEvent)+":"+u]; !ok {
			r.done[string(KindEvent)+":"+u] = nil
		}
	}
	r.mu.Unlock()
	return nil
}

func (r *crawlRun) fetchTeam(ctx context.Context, teamURL string) error {
	doc, err := r.c.fetcher.Fetch(ctx, teamURL)
	if err != nil {
		return err
	}
	raw, err := r.c.parser.Team(doc)
	if err != nil {
		return err
	}
	return r.c.ingest.IngestTeam(ctx, raw, teamURL)
}
