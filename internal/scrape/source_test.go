// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrhoades1/job-application-system/internal/discover"
	"github.com/jrhoades1/job-application-system/internal/staging"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

type blockingTransport struct {
	allowed http.RoundTripper
}

func (t blockingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Hostname() != "127.0.0.1" {
		return nil, errors.New("blocked non-local request: " + req.URL.Host)
	}
	return t.allowed.RoundTrip(req)
}

func newSourcer(t *testing.T, searchHandler, pageHandler http.HandlerFunc) (*Sourcer, *staging.MemStore, *staging.MemStore, *httptest.Server) {
	t.Helper()
	pages := httptest.NewServer(pageHandler)
	t.Cleanup(pages.Close)
	search := httptest.NewServer(searchHandler)
	t.Cleanup(search.Close)

	client := &http.Client{Transport: blockingTransport{allowed: http.DefaultTransport}}
	parsed := staging.NewMemStore()
	sourced := staging.NewMemStore()

	return &Sourcer{
		Parsed:  parsed,
		Sourced: sourced,
		Finder: &discover.Finder{
			Client:          client,
			Limiter:         discover.NewHostLimiter(100, 10),
			UserAgent:       "test-agent",
			ExcludedDomains: []string{"linkedin.com", "indeed.com"},
			SearchBase:      search.URL,
		},
		Scraper: &Scraper{Client: client, UserAgent: "test-agent"},
	}, parsed, sourced, pages
}

func TestSourceBatch(t *testing.T) {
	page := `<html><body><h1>Senior Platform Engineer</h1>
<div class="job-description"><p>` + loremFiller + `</p></div></body></html>`

	var pagesURL string
	s, parsed, sourced, pages := newSourcer(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<a class="result__a" href="` + pagesURL + `/jobs/123">Posting</a>`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(page))
		})
	pagesURL = pages.URL

	require.NoError(t, staging.WriteJSON(parsed, "100", []types.JobLead{
		{Type: types.RecordJobLead, Company: "Zr9x Labs", Role: "Senior Platform Engineer", EmailUID: "100", LeadIndex: 0},
		{Type: types.RecordNotJob, EmailUID: "100", LeadIndex: 0},
	}))

	var buf bytes.Buffer
	result, err := s.SourceBatch(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Sourced)

	var outcome types.SourcedResult
	require.NoError(t, staging.ReadJSON(sourced, "100_0", &outcome))
	assert.Equal(t, types.StatusSourced, outcome.Status)
	require.NotNil(t, outcome.Scraped)
	assert.Equal(t, "Senior Platform Engineer", outcome.Scraped.Title)
	require.NotNil(t, outcome.MatchValidation)
	assert.True(t, outcome.MatchValidation.IsMatch)
	require.NotNil(t, outcome.CareerPage)
	assert.InDelta(t, 0.85, outcome.CareerPage.Confidence, 0.001)
}

func TestSourceBatchUnresolvedNoPage(t *testing.T) {
	s, parsed, sourced, _ := newSourcer(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>no results</body></html>"))
		},
		func(w http.ResponseWriter, r *http.Request) {})

	require.NoError(t, staging.WriteJSON(parsed, "100", []types.JobLead{
		{Type: types.RecordJobLead, Company: "Zr9x Labs", Role: "Engineer", EmailUID: "100", LeadIndex: 0},
	}))

	var buf bytes.Buffer
	result, err := s.SourceBatch(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Unresolved)

	var outcome types.SourcedResult
	require.NoError(t, staging.ReadJSON(sourced, "100_0", &outcome))
	assert.Equal(t, types.StatusUnresolved, outcome.Status)
	assert.Contains(t, outcome.UnresolvedReason, "no career page")
}

func TestSourceBatchSkipsSourced(t *testing.T) {
	s, parsed, sourced, _ := newSourcer(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>no results</body></html>"))
		},
		func(w http.ResponseWriter, r *http.Request) {})

	require.NoError(t, staging.WriteJSON(parsed, "100", []types.JobLead{
		{Type: types.RecordJobLead, Company: "Zr9x Labs", Role: "Engineer", EmailUID: "100", LeadIndex: 0},
	}))
	require.NoError(t, staging.WriteJSON(sourced, "100_0", types.SourcedResult{Status: types.StatusSourced}))

	var buf bytes.Buffer
	result, err := s.SourceBatch(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 1, result.Skipped)

	// RetryUnresolved reprocesses it.
	s.RetryUnresolved = true
	result, err = s.SourceBatch(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}

func TestSourceBatchLimit(t *testing.T) {
	s, parsed, _, _ := newSourcer(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>no results</body></html>"))
		},
		func(w http.ResponseWriter, r *http.Request) {})
	s.Limit = 1

	require.NoError(t, staging.WriteJSON(parsed, "100", []types.JobLead{
		{Type: types.RecordJobLead, Company: "Zr9x Labs", Role: "Engineer", EmailUID: "100", LeadIndex: 0},
		{Type: types.RecordJobLead, Company: "Qv7 Systems", Role: "Analyst", EmailUID: "100", LeadIndex: 1},
	}))

	var buf bytes.Buffer
	result, err := s.SourceBatch(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}
