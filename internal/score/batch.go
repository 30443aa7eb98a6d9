// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jrhoades1/job-application-system/internal/staging"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

// Fallback requirement extraction caps how many free-text lines of an
// unstructured description get scored.
const maxFallbackRequirements = 15

// BatchResult holds the outcome of a batch score run.
type BatchResult struct {
	Total       int
	Scored      int
	AutoSkipped int
	Unresolved  int
	Skipped     int
	Failed      int
}

// HasFailures reports whether any artifacts failed to read or write.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Outcome is the full result of a score run: the counters plus the leads
// themselves, partitioned for the ranking and review steps that follow.
type Outcome struct {
	Result BatchResult

	// Leads are the scored leads that survived auto-skip, unranked.
	Leads []types.ScoredLead

	AutoSkipped []types.SkippedLead
	Unresolved  []types.SkippedLead
}

// Scorer runs the score stage: sourced postings in, scored leads out.
type Scorer struct {
	Sourced staging.Store
	Scored  staging.Store

	Achievements types.Achievements
	AutoSkip     types.AutoSkipRules
	Preferences  types.UserPreferences

	// Rescore recomputes leads that already have a scored artifact.
	Rescore bool

	// BatchID overrides the generated batch id; empty generates one.
	BatchID string

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// ScoreBatch walks all sourced artifacts in key order. Unresolved sourced
// results pass through to the unresolved list; everything else is scored
// against the achievements inventory, persisted, then filtered by the
// auto-skip rules. Already-scored leads are reloaded rather than
// recomputed unless Rescore is set.
func (s *Scorer) ScoreBatch(w io.Writer) (Outcome, error) {
	keys, err := s.Sourced.Keys()
	if err != nil {
		return Outcome{}, fmt.Errorf("listing sourced artifacts: %w", err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	batchID := s.BatchID
	if batchID == "" {
		batchID = NewBatchID(now())
	}

	var out Outcome
	for _, key := range keys {
		var sourced types.SourcedResult
		if err := staging.ReadJSON(s.Sourced, key, &sourced); err != nil {
			out.Result.Failed++
			fmt.Fprintf(w, "  warning: unreadable sourced file %s: %v\n", key, err)
			continue
		}
		out.Result.Total++

		if sourced.Status == types.StatusUnresolved {
			out.Result.Unresolved++
			out.Unresolved = append(out.Unresolved, types.SkippedLead{
				Company:  orUnknown(sourced.Lead.Company),
				Role:     orUnknown(sourced.Lead.Role),
				Reason:   orDefault(sourced.UnresolvedReason, "Unknown"),
				EmailUID: sourced.Lead.EmailUID,
			})
			continue
		}
		if sourced.Scraped == nil || sourced.Scraped.DescriptionText == "" {
			out.Result.Unresolved++
			out.Unresolved = append(out.Unresolved, types.SkippedLead{
				Company:  orUnknown(sourced.Lead.Company),
				Role:     orUnknown(sourced.Lead.Role),
				Reason:   "No description text available",
				EmailUID: sourced.Lead.EmailUID,
			})
			continue
		}

		var scored types.ScoredLead
		if !s.Rescore && s.Scored.Exists(key) {
			if err := staging.ReadJSON(s.Scored, key, &scored); err != nil {
				out.Result.Failed++
				fmt.Fprintf(w, "  warning: unreadable scored file %s: %v\n", key, err)
				continue
			}
			out.Result.Skipped++
		} else {
			scored = s.scoreLead(sourced, batchID)
			if err := staging.WriteJSON(s.Scored, key, scored); err != nil {
				out.Result.Failed++
				fmt.Fprintf(w, "  warning: saving scored file %s: %v\n", key, err)
				continue
			}
			out.Result.Scored++
			fmt.Fprintf(w, "  scored: %s (%s, %.1f%%)\n",
				key, scored.ScoreResult.Overall, scored.ScoreResult.MatchPercentage)
		}

		if reason, skip := CheckAutoSkip(scored, s.AutoSkip); skip {
			out.Result.AutoSkipped++
			out.AutoSkipped = append(out.AutoSkipped, types.SkippedLead{
				Company:  scored.Company,
				Role:     scored.Role,
				Reason:   reason,
				Score:    scored.ScoreResult.Overall,
				EmailUID: scored.EmailUID,
			})
			continue
		}
		out.Leads = append(out.Leads, scored)
	}

	return out, nil
}

func (s *Scorer) scoreLead(sourced types.SourcedResult, batchID string) types.ScoredLead {
	lead := sourced.Lead
	scraped := sourced.Scraped
	description := scraped.DescriptionText

	requirements := ExtractRequirements(description)

	allReqs := append([]string{}, requirements.HardRequirements...)
	allReqs = append(allReqs, requirements.Preferred...)
	if len(allReqs) == 0 {
		allReqs = fallbackRequirements(description)
	}

	matches := make([]types.RequirementMatch, 0, len(allReqs))
	for _, req := range allReqs {
		matches = append(matches, ScoreRequirement(req, s.Achievements))
	}

	return types.ScoredLead{
		Company:         lead.Company,
		Role:            lead.Role,
		SourcePlatform:  lead.SourcePlatform,
		EmailUID:        lead.EmailUID,
		EmailDate:       lead.EmailDate,
		RawSubject:      lead.RawSubject,
		Confidence:      lead.Confidence,
		CareerPageURL:   scraped.URL,
		DescriptionText: description,
		Compensation:    scraped.Compensation,
		ScoreResult:     CalculateOverallScore(matches),
		Matches:         matches,
		Requirements:    requirements,
		EmploymentType:  DetectEmploymentType(description),
		LocationInfo:    DetectLocationMatch(description, s.Preferences),
		RedFlags:        requirements.RedFlags,
		PipelineBatch:   batchID,
	}
}

// fallbackRequirements treats requirement-looking free-text lines as the
// scoring input when a description has no recognizable structure at all.
func fallbackRequirements(description string) []string {
	var reqs []string
	for _, line := range strings.Split(stripApplicationForm(description), "\n") {
		stripped := strings.TrimSpace(line)
		if len(stripped) > 20 && isRequirement(stripped) {
			reqs = append(reqs, stripped)
			if len(reqs) >= maxFallbackRequirements {
				break
			}
		}
	}
	return reqs
}

// NewBatchID builds a date-prefixed batch identifier with a short random
// suffix so reruns on the same day stay distinguishable.
func NewBatchID(t time.Time) string {
	return fmt.Sprintf("%s_%s", t.Format("2006-01-02"), uuid.NewString()[:6])
}

func orUnknown(s string) string {
	return orDefault(s, "Unknown")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
