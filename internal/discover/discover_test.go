// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

// localOnlyTransport refuses anything that is not a local test server,
// so the direct-probe strategy cannot leave the test environment.
type localOnlyTransport struct {
	inner http.RoundTripper
}

func (t localOnlyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Hostname() != "127.0.0.1" {
		return nil, errors.New("blocked non-local request: " + req.URL.Host)
	}
	return t.inner.RoundTrip(req)
}

func localClient() *http.Client {
	return &http.Client{Transport: localOnlyTransport{inner: http.DefaultTransport}}
}

func newTestFinder(client *http.Client) *Finder {
	return &Finder{
		Client:    client,
		Limiter:   NewHostLimiter(100, 10),
		UserAgent: "test-agent",
		ExcludedDomains: []string{
			"linkedin.com", "indeed.com", "glassdoor.com", "ziprecruiter.com",
		},
	}
}

func TestDetectATS(t *testing.T) {
	tests := []struct {
		url  string
		want types.ATSType
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", types.ATSGreenhouse},
		{"https://job-boards.greenhouse.io/acme", types.ATSGreenhouse},
		{"https://jobs.lever.co/acme/abc-def", types.ATSLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers", types.ATSWorkday},
		{"https://jobs.ashbyhq.com/acme", types.ATSAshby},
		{"https://careers.icims.com/jobs/123", types.ATSICIMS},
		{"https://jobs.smartrecruiters.com/Acme/123", types.ATSSmartRecruiters},
		{"https://www.acme.com/careers", types.ATSNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectATS(tt.url), tt.url)
	}
}

func TestIsJobListingURL(t *testing.T) {
	assert.True(t, isJobListingURL("https://www.acme.com/jobs/12345"))
	assert.True(t, isJobListingURL("https://boards.greenhouse.io/acme/jobs/4021"))
	assert.True(t, isJobListingURL("https://jobs.lever.co/acme/0f8f8e-1ab2"))
	assert.True(t, isJobListingURL("https://acme.com/positions/991"))
	assert.False(t, isJobListingURL("https://www.acme.com/careers"))
	assert.False(t, isJobListingURL("https://acme.com/"))
}

func TestIsCareerURLExcludesBoards(t *testing.T) {
	f := newTestFinder(nil)
	assert.False(t, f.isCareerURL("https://www.linkedin.com/jobs/view/123"))
	assert.False(t, f.isCareerURL("https://www.google.com/search?q=acme"))
	assert.True(t, f.isCareerURL("https://www.acme.com/careers"))
	assert.True(t, f.isCareerURL("https://boards.greenhouse.io/acme"))
}

func TestSearchCareersUnwrapsRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "Acme careers")
		w.Write([]byte(`<html><body>
<a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.acme.com%2Fcareers&rut=x">Acme Careers</a>
<a class="result__a" href="https://www.linkedin.com/jobs/view/1">Acme on LinkedIn</a>
<a class="result__a" href="https://boards.greenhouse.io/acme">Acme jobs</a>
</body></html>`))
	}))
	defer srv.Close()

	f := newTestFinder(srv.Client())
	f.SearchBase = srv.URL

	urls := f.searchCareers(context.Background(), "Acme", "Platform Engineer")
	require.Len(t, urls, 2)
	assert.Equal(t, "https://www.acme.com/careers", urls[0])
	assert.Equal(t, "https://boards.greenhouse.io/acme", urls[1])
}

func TestSearchCareersPausesBetweenSearches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a class="result__a" href="https://www.acme.com/careers">Acme Careers</a>`))
	}))
	defer srv.Close()

	var slept []time.Duration
	f := newTestFinder(srv.Client())
	f.SearchBase = srv.URL
	f.SearchDelay = 2 * time.Second
	f.Sleep = func(d time.Duration) { slept = append(slept, d) }

	f.searchCareers(context.Background(), "Acme", "Platform Engineer")
	f.searchCareers(context.Background(), "Acme", "Staff Engineer")

	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, slept)
}

func TestSearchCareersNoDelayConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a class="result__a" href="https://www.acme.com/careers">Acme Careers</a>`))
	}))
	defer srv.Close()

	f := newTestFinder(srv.Client())
	f.SearchBase = srv.URL
	f.Sleep = func(time.Duration) { t.Fatal("sleep called with zero delay") }

	urls := f.searchCareers(context.Background(), "Acme", "Platform Engineer")
	assert.NotEmpty(t, urls)
}

func TestFindJobLinkOnPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
<a href="/about">About us</a>
<a href="/jobs/1">Marketing Coordinator</a>
<a href="/jobs/2">Senior Platform Engineer</a>
<a href="https://example.org/jobs/3">Platform Engineering Manager</a>
</body></html>`))
	}))
	defer srv.Close()

	f := newTestFinder(srv.Client())
	link := f.findJobLinkOnPage(context.Background(), srv.URL+"/careers", "Senior Platform Engineer")
	assert.Equal(t, srv.URL+"/jobs/2", link)
}

func TestFindCareerPageViaSearch(t *testing.T) {
	// Listing page served locally; the search endpoint points at it.
	var target string
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><h1>Job</h1></body></html>"))
	}))
	defer pages.Close()
	target = pages.URL + "/jobs/12345"

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a class="result__a" href="` + target + `">Posting</a>`))
	}))
	defer search.Close()

	f := newTestFinder(localClient())
	f.SearchBase = search.URL

	page, err := f.FindCareerPage(context.Background(), "Nonexistent Co 987654", "Engineer")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, target, page.URL)
	assert.InDelta(t, 0.85, page.Confidence, 0.001)
}

func TestFindCareerPageNoResults(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>no results</body></html>"))
	}))
	defer search.Close()

	f := newTestFinder(localClient())
	f.SearchBase = search.URL

	page, err := f.FindCareerPage(context.Background(), "Nonexistent Co 987654", "Engineer")
	require.NoError(t, err)
	assert.Nil(t, page)
}
