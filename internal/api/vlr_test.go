package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"vlr-scraper/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(delay time.Duration, attempts int) *VLRClient {
	return NewVLRClient(&config.Config{
		UserAgent:        "vlr-scraper-test",
		FetchDelay:       delay,
		FetchTimeout:     2 * time.Second,
		FetchMaxAttempts: attempts,
	}, zerolog.Nop())
}

func TestFetchRetriesUntilSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "vlr-scraper-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`<html><body><h1 class="wf-title">ok</h1></body></html>`))
	}))
	defer srv.Close()

	c := newTestClient(10*time.Millisecond, 3)
	doc, err := c.Fetch(context.Background(), srv.URL+"/team/1/x")
	require.NoError(t, err)
	require.Equal(t, "ok", doc.Find(".wf-title").Text())
	require.Equal(t, "/team/1/x", doc.Url.Path)
	require.EqualValues(t, 3, hits.Load())

	stats := c.Stats()
	require.Equal(t, 3, stats.Requests)
	require.Equal(t, 2, stats.Failures)
	require.Equal(t, 1, stats.Pages)
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(time.Millisecond, 3)
	target := srv.URL + "/498628/a-vs-b"
	_, err := c.Fetch(context.Background(), target)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, target, fe.URL)
	require.Equal(t, 3, fe.Attempts)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.Code)
	require.EqualValues(t, 3, hits.Load())
}

func TestFetchFollowsRedirects(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/team/2593" {
			http.Redirect(w, r, "/team/2593/fnatic", http.StatusMovedPermanently)
			return
		}
		w.Write([]byte(`<html><body><h1 class="wf-title">FNATIC</h1></body></html>`))
	}))
	defer srv.Close()

	c := newTestClient(time.Millisecond, 3)
	doc, err := c.Fetch(context.Background(), srv.URL+"/team/2593")
	require.NoError(t, err)
	assert.Equal(t, "FNATIC", doc.Find(".wf-title").Text())
	assert.Equal(t, "/team/2593/fnatic", doc.Url.Path)
	assert.EqualValues(t, 2, hits.Load())

	stats := c.Stats()
	assert.Equal(t, 1, stats.Requests)
	assert.Equal(t, 0, stats.Failures)
	assert.Equal(t, 1, stats.Pages)
}

func TestFetchRedirectLoopFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	c := newTestClient(time.Millisecond, 1)
	_, err := c.Fetch(context.Background(), srv.URL+"/loop")

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, 1, fe.Attempts)
}

func TestFetchTransportErrorIsRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL + "/"
	srv.Close()

	c := newTestClient(time.Millisecond, 2)
	_, err := c.Fetch(context.Background(), target)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, 2, fe.Attempts)
	require.Equal(t, 2, c.Stats().Failures)
}

func TestFetchWaitsPolitenessDelayBetweenRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	delay := 50 * time.Millisecond
	c := newTestClient(delay, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	require.GreaterOrEqual(t, time.Since(start), 2*delay)
}

func TestFetchStopsOnCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(time.Second, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx, srv.URL)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, 1, fe.Attempts)
}
