// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape pulls job-description content off career pages. Known
// tracking systems get targeted selectors; everything else goes through a
// generic extractor that hunts for the main content block. JS-rendered
// systems can fall back to a headless browser.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jrhoades1/job-application-system/internal/httputil"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

// minDescriptionChars is the completeness bar: anything shorter is almost
// always a JS shell, not the posting.
const minDescriptionChars = 200

const maxGenericDescription = 10000

var compensationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$[\d,]+(?:k|K)?\s*[-–to]+\s*\$[\d,]+(?:k|K)?`),
	regexp.MustCompile(`\$[\d,]+\s*[-–to]+\s*\$[\d,]+`),
	regexp.MustCompile(`(?i)(?:salary|compensation|pay)[\s:]+\$[\d,kK]+`),
	regexp.MustCompile(`\$\d{2,3}(?:,\d{3})*(?:\s*[-–]\s*\$\d{2,3}(?:,\d{3})*)?`),
}

// Browser renders a JS-heavy page and returns extracted fields. The
// chromedp implementation lives in the browser subpackage; nil disables
// the fallback.
type Browser interface {
	Render(ctx context.Context, url string) (title, location, description string, err error)
}

// Scraper fetches and extracts job postings.
type Scraper struct {
	Client    *http.Client
	UserAgent string

	// Browser handles Workday-style JS pages when set.
	Browser Browser

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// Scrape routes a URL to the right extractor for its tracking system.
// Errors are network-level only; a page with no usable content comes back
// with an empty description, which the caller treats as unresolved.
func (s *Scraper) Scrape(ctx context.Context, url string, ats types.ATSType) (types.ScrapedJob, error) {
	if s.Browser != nil && needsBrowser(ats) {
		if job, err := s.scrapeWithBrowser(ctx, url, ats); err == nil && job.DescriptionText != "" {
			return job, nil
		}
		// Fall through to static scraping.
	}

	switch ats {
	case types.ATSGreenhouse:
		return s.scrapeGreenhouse(ctx, url)
	case types.ATSLever:
		return s.scrapeLever(ctx, url)
	default:
		return s.scrapeGeneric(ctx, url)
	}
}

// needsBrowser reports whether the tracking system serves an empty shell
// to plain HTTP clients.
func needsBrowser(ats types.ATSType) bool {
	switch ats {
	case types.ATSWorkday, types.ATSICIMS, types.ATSSuccessFactors:
		return true
	}
	return false
}

func (s *Scraper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return doc, nil
}

// scrapeGreenhouse handles boards.greenhouse.io, which serves static HTML
// with stable selectors.
func (s *Scraper) scrapeGreenhouse(ctx context.Context, url string) (types.ScrapedJob, error) {
	doc, err := s.fetchDocument(ctx, url)
	if err != nil {
		return types.ScrapedJob{URL: url}, err
	}

	title := firstText(doc, ".app-title, h1.heading")
	company := firstText(doc, ".company-name, .company")
	location := firstText(doc, ".location, .body--metadata")
	description := blockText(doc.Find("#content, .content, .job-post-content").First())

	return s.buildResult(url, types.ATSGreenhouse, title, company, location, description), nil
}

// scrapeLever handles jobs.lever.co.
func (s *Scraper) scrapeLever(ctx context.Context, url string) (types.ScrapedJob, error) {
	doc, err := s.fetchDocument(ctx, url)
	if err != nil {
		return types.ScrapedJob{URL: url}, err
	}

	title := firstText(doc, ".posting-headline h2, h1")
	company := firstText(doc, ".main-header-logo, .posting-headline .company")
	location := firstText(doc, ".posting-categories .location, .workplaceTypes")

	var sections []string
	doc.Find(".posting-page .section-wrapper, .posting-page .content").Each(func(_ int, sel *goquery.Selection) {
		if text := blockText(sel); text != "" {
			sections = append(sections, text)
		}
	})
	description := strings.Join(sections, "\n\n")
	if description == "" {
		description = blockText(doc.Find(".content, .posting-page").First())
	}

	return s.buildResult(url, types.ATSLever, title, company, location, description), nil
}

// scrapeGeneric handles unknown page formats: strip chrome, then try
// job-description selectors, then header-led sections, then the whole
// body capped to a sane length.
func (s *Scraper) scrapeGeneric(ctx context.Context, url string) (types.ScrapedJob, error) {
	doc, err := s.fetchDocument(ctx, url)
	if err != nil {
		return types.ScrapedJob{URL: url}, err
	}

	doc.Find("script, style, nav, footer, header, .cookie-banner").Remove()

	title := firstText(doc, "h1")
	if title == "" {
		title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
	}
	company, _ := doc.Find(`meta[property="og:site_name"]`).Attr("content")
	location := firstText(doc, "[class*='location'], [data-automation*='location']")

	description := genericDescription(doc)
	return s.buildResult(url, types.ATSNone, title, company, location, description), nil
}

func genericDescription(doc *goquery.Document) string {
	selectors := []string{
		"[class*='job-description']", "[class*='job-detail']",
		"[class*='posting-detail']", "[class*='jd-']",
		"[id*='job-description']", "[id*='job-detail']",
		"article", "main", "[role='main']",
	}
	for _, sel := range selectors {
		if el := doc.Find(sel).First(); el.Length() > 0 {
			if text := blockText(el); len(text) > minDescriptionChars {
				return text
			}
		}
	}

	// Header-led sections: collect each job-looking header with the
	// content up to the next header.
	jobHeaders := []string{
		"description", "responsibilities", "requirements",
		"qualifications", "about the role", "what you'll do",
		"who you are", "about you", "skills", "experience",
	}
	var sections []string
	doc.Find("h1, h2, h3, h4, strong, b").Each(func(_ int, header *goquery.Selection) {
		headerText := strings.ToLower(strings.TrimSpace(header.Text()))
		matched := false
		for _, jh := range jobHeaders {
			if strings.Contains(headerText, jh) {
				matched = true
				break
			}
		}
		if !matched {
			return
		}
		var parts []string
		for sib := header.Next(); sib.Length() > 0; sib = sib.Next() {
			if goquery.NodeName(sib) == "h1" || goquery.NodeName(sib) == "h2" ||
				goquery.NodeName(sib) == "h3" || goquery.NodeName(sib) == "h4" {
				break
			}
			if text := blockText(sib); text != "" {
				parts = append(parts, text)
			}
		}
		sections = append(sections, strings.TrimSpace(header.Text())+"\n"+strings.Join(parts, "\n"))
	})
	if len(sections) > 0 {
		return strings.Join(sections, "\n\n")
	}

	body := blockText(doc.Find("body").First())
	if len(body) > maxGenericDescription {
		body = body[:maxGenericDescription]
	}
	return body
}

func (s *Scraper) scrapeWithBrowser(ctx context.Context, url string, ats types.ATSType) (types.ScrapedJob, error) {
	title, location, description, err := s.Browser.Render(ctx, url)
	if err != nil {
		return types.ScrapedJob{URL: url}, fmt.Errorf("browser render %s: %w", url, err)
	}
	return s.buildResult(url, ats, title, "", location, description), nil
}

func (s *Scraper) buildResult(url string, ats types.ATSType, title, company, location, description string) types.ScrapedJob {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return types.ScrapedJob{
		URL:                   url,
		ATSType:               ats,
		Title:                 strings.TrimSpace(title),
		Company:               strings.TrimSpace(company),
		Location:              strings.TrimSpace(location),
		DescriptionText:       description,
		Compensation:          ExtractCompensation(description),
		DescriptionIncomplete: len(description) < minDescriptionChars,
		ScrapedAt:             now().UTC(),
	}
}

// ExtractCompensation returns the first salary-looking string in text,
// verbatim, or empty.
func ExtractCompensation(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range compensationPatterns {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func firstText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// blockText renders a selection as newline-separated trimmed lines, the
// shape the requirement extractor expects.
func blockText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	raw := sel.Text()
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
