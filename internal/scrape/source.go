// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jrhoades1/job-application-system/internal/discover"
	"github.com/jrhoades1/job-application-system/internal/match"
	"github.com/jrhoades1/job-application-system/internal/staging"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

// BatchResult holds the outcome of a batch source run.
type BatchResult struct {
	Total      int
	Sourced    int
	Unresolved int
	Skipped    int
	Failed     int
}

// HasFailures reports whether any leads failed at the store level.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Sourcer runs the source stage: parsed leads in, sourced postings out.
// Every lead gets exactly one artifact under its uid_index key; leads
// whose posting could not be found or scraped become unresolved records.
type Sourcer struct {
	Parsed  staging.Store
	Sourced staging.Store

	Finder  *discover.Finder
	Scraper *Scraper

	// ScrapeDelay throttles between the page discovery and the scrape.
	ScrapeDelay time.Duration

	// Limit bounds one batch; zero means no limit.
	Limit int

	// RetryUnresolved reprocesses leads whose previous run was
	// unresolved (or any already-sourced lead).
	RetryUnresolved bool

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time

	// Sleep is injectable for tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// SourceBatch walks all parsed lead files in key order and sources every
// job lead without a sourced artifact. Per-lead failures become
// unresolved artifacts, never errors.
func (s *Sourcer) SourceBatch(ctx context.Context, w io.Writer) (BatchResult, error) {
	keys, err := s.Parsed.Keys()
	if err != nil {
		return BatchResult{}, fmt.Errorf("listing parsed leads: %w", err)
	}

	var leads []types.JobLead
	for _, key := range keys {
		var records []types.JobLead
		if err := staging.ReadJSON(s.Parsed, key, &records); err != nil {
			fmt.Fprintf(w, "  warning: unreadable parsed file %s: %v\n", key, err)
			continue
		}
		for _, rec := range records {
			if rec.Type == types.RecordJobLead {
				leads = append(leads, rec)
			}
		}
	}

	var result BatchResult
	for _, lead := range leads {
		if s.Limit > 0 && result.Total >= s.Limit {
			break
		}
		if !s.RetryUnresolved && s.Sourced.Exists(lead.Key()) {
			result.Skipped++
			continue
		}
		result.Total++

		fmt.Fprintf(w, "  [%d] %s: %s\n", result.Total, lead.Company, lead.Role)
		outcome, err := s.sourceLead(ctx, lead, w)
		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "    failed: %v\n", err)
			continue
		}
		if outcome.Status == types.StatusSourced {
			result.Sourced++
		} else {
			result.Unresolved++
		}
	}
	return result, nil
}

func (s *Sourcer) sourceLead(ctx context.Context, lead types.JobLead, w io.Writer) (types.SourcedResult, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	sleep := time.Sleep
	if s.Sleep != nil {
		sleep = s.Sleep
	}

	page, err := s.Finder.FindCareerPage(ctx, lead.Company, lead.Role)
	if err != nil {
		return types.SourcedResult{}, err
	}
	if page == nil {
		fmt.Fprintf(w, "    no career page found\n")
		return s.saveUnresolved(lead, nil, nil, "no career page found for company", now())
	}
	fmt.Fprintf(w, "    found: %.80s (ats: %s)\n", page.URL, atsLabel(page.ATSType))

	if s.ScrapeDelay > 0 {
		sleep(s.ScrapeDelay)
	}

	scraped, err := s.Scraper.Scrape(ctx, page.URL, page.ATSType)
	if err != nil {
		fmt.Fprintf(w, "    scrape failed: %v\n", err)
		return s.saveUnresolved(lead, nil, page, fmt.Sprintf("scrape failed: %v", err), now())
	}
	if scraped.DescriptionText == "" {
		fmt.Fprintf(w, "    no description content\n")
		return s.saveUnresolved(lead, &scraped, page, "no description content on page", now())
	}

	validation := match.ValidateJobMatch(lead, scraped)
	if !validation.IsMatch {
		fmt.Fprintf(w, "    warning: low match confidence (%.2f)\n", validation.Confidence)
	}

	outcome := types.SourcedResult{
		Lead:            lead,
		Scraped:         &scraped,
		MatchValidation: &validation,
		CareerPage:      page,
		Status:          types.StatusSourced,
		SourcedAt:       now().UTC(),
	}
	if err := staging.WriteJSON(s.Sourced, lead.Key(), outcome); err != nil {
		return types.SourcedResult{}, err
	}
	fmt.Fprintf(w, "    sourced: %d chars, match confidence %.2f\n",
		len(scraped.DescriptionText), validation.Confidence)
	return outcome, nil
}

func (s *Sourcer) saveUnresolved(lead types.JobLead, scraped *types.ScrapedJob, page *types.CareerPage, reason string, at time.Time) (types.SourcedResult, error) {
	outcome := types.SourcedResult{
		Lead:             lead,
		Scraped:          scraped,
		CareerPage:       page,
		Status:           types.StatusUnresolved,
		UnresolvedReason: reason,
		SourcedAt:        at.UTC(),
	}
	if err := staging.WriteJSON(s.Sourced, lead.Key(), outcome); err != nil {
		return types.SourcedResult{}, err
	}
	return outcome, nil
}

func atsLabel(ats types.ATSType) string {
	if ats == types.ATSNone {
		return "generic"
	}
	return string(ats)
}
