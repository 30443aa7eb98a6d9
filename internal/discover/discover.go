// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover locates the career-site URL for a job lead. Two
// strategies run in order: direct probing of common careers URL patterns
// derived from the company name, then a DuckDuckGo HTML search. Job-board
// domains are excluded throughout; the pipeline wants the company's own
// posting, not the aggregator's copy.
package discover

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jrhoades1/job-application-system/internal/httputil"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

// Discovery confidences: a URL that looks like a specific posting beats
// a role link scanned off a careers page, which beats the bare careers
// page itself.
const (
	confidenceListingURL = 0.85
	confidenceRoleLink   = 0.8
	confidenceCareerPage = 0.5
)

var jobListingPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/jobs?/\d+`),
	regexp.MustCompile(`/jobs?/[a-z0-9-]+/\d+`),
	regexp.MustCompile(`/positions?/\d+`),
	regexp.MustCompile(`/postings?/\d+`),
	regexp.MustCompile(`/[a-z-]+/jobs?/[a-z0-9-]+`),
}

var jobListingURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`greenhouse\.io/[^/]+/jobs/\d+`),
	regexp.MustCompile(`lever\.co/[^/]+/[a-f0-9-]+`),
	regexp.MustCompile(`ashbyhq\.com/[^/]+/[a-f0-9-]+`),
}

var careerIndicators = []string{
	"/careers", "/jobs", "/job/", "/career", "/openings",
	"/positions", "/opportunities", "/apply", "/hiring",
	"greenhouse.io", "lever.co", "myworkdayjobs.com",
	"icims.com", "smartrecruiters.com", "ashbyhq.com",
	"bamboohr.com",
}

var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)
	hyphenRe   = regexp.MustCompile(`[^a-z0-9]+`)
	uddgRe     = regexp.MustCompile(`uddg=([^&]+)`)
	linkWordRe = regexp.MustCompile(`\b[a-z]{3,}\b`)
)

// searchURL is swappable for tests.
var searchBase = "https://html.duckduckgo.com/html/"

// Finder discovers career pages for leads.
type Finder struct {
	Client          *http.Client
	Limiter         *HostLimiter
	UserAgent       string
	ExcludedDomains []string

	// SearchBase overrides the DuckDuckGo endpoint; empty means the
	// real one.
	SearchBase string

	// SearchDelay adds a fixed pause before each search request, on
	// top of the per-host limiter.
	SearchDelay time.Duration

	// Sleep is injectable for tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// FindCareerPage returns where the posting for (company, role) most
// likely lives, or nil when nothing was found. Not finding a page is not
// an error; network failures inside individual strategies degrade to an
// empty candidate list.
func (f *Finder) FindCareerPage(ctx context.Context, company, role string) (*types.CareerPage, error) {
	urls := f.candidateURLs(ctx, company, role)

	for _, candidate := range urls {
		atsType := DetectATS(candidate)

		if isJobListingURL(candidate) {
			return &types.CareerPage{URL: candidate, ATSType: atsType, Confidence: confidenceListingURL}, nil
		}

		if specific := f.findJobLinkOnPage(ctx, candidate, role); specific != "" {
			return &types.CareerPage{URL: specific, ATSType: DetectATS(specific), Confidence: confidenceRoleLink}, nil
		}

		// The general careers page is still worth scraping.
		return &types.CareerPage{URL: candidate, ATSType: atsType, Confidence: confidenceCareerPage}, nil
	}
	return nil, nil
}

// candidateURLs combines direct probes (first) with search results,
// deduplicated in order, capped at five.
func (f *Finder) candidateURLs(ctx context.Context, company, role string) []string {
	all := f.probeDirectURLs(ctx, company)
	all = append(all, f.searchCareers(ctx, company, role)...)

	seen := make(map[string]bool)
	var unique []string
	for _, u := range all {
		if seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}
	if len(unique) > 5 {
		unique = unique[:5]
	}
	return unique
}

// probeDirectURLs tries common careers URL shapes built from the company
// name. The first pattern that answers 200 with a career-looking final
// URL wins.
func (f *Finder) probeDirectURLs(ctx context.Context, company string) []string {
	lower := strings.ToLower(company)
	slug := nonAlnumRe.ReplaceAllString(lower, "")
	slugHyphen := strings.Trim(hyphenRe.ReplaceAllString(lower, "-"), "-")
	if slug == "" {
		return nil
	}

	patterns := []string{
		fmt.Sprintf("https://www.%s.com/careers", slug),
		fmt.Sprintf("https://www.%s.com/jobs", slug),
		fmt.Sprintf("https://%s.com/careers", slug),
		fmt.Sprintf("https://%s.com/company/careers", slug),
		fmt.Sprintf("https://careers.%s.com", slug),
		fmt.Sprintf("https://boards.greenhouse.io/%s", slug),
		fmt.Sprintf("https://jobs.lever.co/%s", slug),
		fmt.Sprintf("https://jobs.ashbyhq.com/%s", slug),
		fmt.Sprintf("https://jobs.smartrecruiters.com/%s", slugHyphen),
	}

	for _, probe := range patterns {
		if err := f.Limiter.WaitURL(ctx, probe); err != nil {
			return nil
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, probe, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", f.UserAgent)
		resp, err := f.Client.Do(req)
		if err != nil {
			continue
		}
		final := resp.Request.URL.String()
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK && f.isCareerURL(final) {
			return []string{final}
		}
	}
	return nil
}

// searchCareers queries the DuckDuckGo HTML endpoint for
// "{company} careers {role}" and unwraps its redirect links.
func (f *Finder) searchCareers(ctx context.Context, company, role string) []string {
	base := f.SearchBase
	if base == "" {
		base = searchBase
	}
	query := url.Values{"q": {fmt.Sprintf("%s careers %s", company, role)}}
	searchURL := base + "?" + query.Encode()

	if f.SearchDelay > 0 {
		sleep := f.Sleep
		if sleep == nil {
			sleep = time.Sleep
		}
		sleep(f.SearchDelay)
	}
	if err := f.Limiter.WaitURL(ctx, searchURL); err != nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, 0)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	var urls []string
	doc.Find("a.result__a").Each(func(_ int, s *goquery.Selection) {
		if len(urls) >= 5 {
			return
		}
		href, _ := s.Attr("href")
		var target string
		if m := uddgRe.FindStringSubmatch(href); m != nil {
			if decoded, err := url.QueryUnescape(m[1]); err == nil {
				target = decoded
			}
		} else if strings.HasPrefix(href, "http") {
			target = href
		}
		if target != "" && f.isCareerURL(target) {
			urls = append(urls, target)
		}
	})
	return urls
}

// findJobLinkOnPage scans a general careers page for the link whose text
// best overlaps the role's significant words. At least two shared words
// are required.
func (f *Finder) findJobLinkOnPage(ctx context.Context, pageURL, role string) string {
	if err := f.Limiter.WaitURL(ctx, pageURL); err != nil {
		return ""
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, 0)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	roleWords := significantWords(role)

	var bestLink string
	bestScore := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if len(text) < 5 {
			return
		}
		overlap := 0
		for w := range significantWords(text) {
			if roleWords[w] {
				overlap++
			}
		}
		if overlap < 2 || overlap <= bestScore {
			return
		}

		href, _ := s.Attr("href")
		if strings.HasPrefix(href, "/") {
			base, err := url.Parse(pageURL)
			if err != nil {
				return
			}
			href = base.Scheme + "://" + base.Host + href
		} else if !strings.HasPrefix(href, "http") {
			return
		}
		bestScore = overlap
		bestLink = href
	})
	return bestLink
}

func significantWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range linkWordRe.FindAllString(strings.ToLower(s), -1) {
		switch w {
		case "the", "and", "for", "with":
			continue
		}
		words[w] = true
	}
	return words
}

// isCareerURL rejects job-board and search-engine domains; everything
// else is a plausible careers page, with ATS domains and career-looking
// paths always accepted.
func (f *Finder) isCareerURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	domain := strings.ToLower(parsed.Host)
	for _, exc := range f.ExcludedDomains {
		if strings.Contains(domain, exc) {
			return false
		}
	}
	if strings.Contains(domain, "google.") {
		return false
	}
	return true
}

func isJobListingURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	path := strings.ToLower(parsed.Path)
	for _, re := range jobListingPathPatterns {
		if re.MatchString(path) {
			return true
		}
	}
	lower := strings.ToLower(raw)
	for _, re := range jobListingURLPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}
