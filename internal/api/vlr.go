package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"
	"vlr-scraper/internal/config"
	"vlr-scraper/internal/constants"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// FetchError is returned once every attempt for a URL has failed.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

// VLRClient fetches pages from a single origin. Requests are serialized and
// every attempt is followed by the politeness delay.
type VLRClient struct {
	client      *fasthttp.Client
	userAgent   string
	delay       time.Duration
	timeout     time.Duration
	maxAttempts int
	logger      zerolog.Logger

	mu          sync.Mutex
	lastAttempt time.Time

	statsMu sync.RWMutex
	stats   Stats
}

type Stats struct {
	Requests      int       `json:"requests"`
	Failures      int       `json:"failures"`
	Pages         int       `json:"pages"`
	LastRequestAt time.Time `json:"last_request_at"`
}

func NewVLRClient(cfg *config.Config, logger zerolog.Logger) *VLRClient {
	return &VLRClient{
		userAgent:   cfg.UserAgent,
		delay:       cfg.FetchDelay,
		timeout:     cfg.FetchTimeout,
		maxAttempts: cfg.FetchMaxAttempts,
		logger:      logger,
		client: &fasthttp.Client{
			MaxConnsPerHost:     constants.FetchMaxConns,
			ReadTimeout:         cfg.FetchTimeout,
			WriteTimeout:        cfg.FetchTimeout,
			MaxIdleConnDuration: constants.FetchIdleConn,
		},
	}
}

func (c *VLRClient) Stats() Stats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

func (c *VLRClient) record(failed bool) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	c.stats.Requests++
	if failed {
		c.stats.Failures++
	} else {
		c.stats.Pages++
	}
	c.stats.LastRequestAt = time.Now()
}

// Fetch retrieves url and parses it into a queryable document.
func (c *VLRClient) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	attempts := 0
	for attempts < c.maxAttempts {
		if err := c.throttle(ctx); err != nil {
			if lastErr != nil {
				err = errors.Join(lastErr, err)
			}
			return nil, &FetchError{URL: rawURL, Attempts: attempts, Err: err}
		}
		attempts++

		doc, finalURL, err := c.attempt(ctx, pageURL)
		c.lastAttempt = time.Now()
		c.record(err != nil)

		if err == nil {
			c.logger.Debug().Str("url", rawURL).Str("final_url", finalURL.String()).Int("attempt", attempts).Msg("page fetched")
			doc.Url = finalURL
			return doc, nil
		}

		lastErr = err
		c.logger.Warn().Err(err).Str("url", rawURL).Int("attempt", attempts).Msg("fetch attempt failed")
	}

	return nil, &FetchError{URL: rawURL, Attempts: attempts, Err: lastErr}
}

// attempt performs one GET, following up to FetchMaxRedirects redirects
// within the same deadline, and returns the document with the URL it was
// finally served from.
func (c *VLRClient) attempt(ctx context.Context, pageURL *url.URL) (*goquery.Document, *url.URL, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	current := pageURL
	for redirects := 0; ; redirects++ {
		req.SetRequestURI(current.String())
		resp.Reset()
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, nil, err
		}
		if !fasthttp.StatusCodeIsRedirect(resp.StatusCode()) {
			break
		}

		location := resp.Header.Peek(fasthttp.HeaderLocation)
		if len(location) == 0 {
			return nil, nil, &StatusError{Code: resp.StatusCode()}
		}
		if redirects >= constants.FetchMaxRedirects {
			return nil, nil, fasthttp.ErrTooManyRedirects
		}
		next, err := current.Parse(string(location))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redirect location %q: %w", location, err)
		}
		c.logger.Debug().Str("from", current.String()).Str("to", next.String()).Msg("following redirect")
		current = next
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, nil, &StatusError{Code: resp.StatusCode()}
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, current, nil
}

// throttle blocks until the politeness delay since the previous attempt,
// successful or not, has elapsed.
func (c *VLRClient) throttle(ctx context.Context) error {
	if c.lastAttempt.IsZero() || c.delay <= 0 {
		return ctx.Err()
	}
	remaining := c.delay - time.Since(c.lastAttempt)
	if remaining <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(remaining)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
