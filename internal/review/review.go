// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review builds the ranked review queue and walks the user
// through triaging it.
package review

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

const (
	QueueFile     = "review_queue.json"
	QueueMDFile   = "review_queue.md"
	maxTopMatches = 3
	maxTopGaps    = 2
	reqPreviewLen = 60
)

// QueueLead is one ranked lead in the review queue, trimmed to what the
// triage view needs.
type QueueLead struct {
	Rank    int               `json:"rank"`
	Company string            `json:"company"`
	Role    string            `json:"role"`
	Score   types.ScoreResult `json:"score"`

	TopMatches []string `json:"top_matches,omitempty"`
	TopGaps    []string `json:"top_gaps,omitempty"`

	SourcePlatform    string               `json:"source_platform"`
	EmailUID          string               `json:"email_uid"`
	EmailDate         string               `json:"email_date,omitempty"`
	CareerPageURL     string               `json:"career_page_url"`
	ApplicationFolder string               `json:"application_folder,omitempty"`
	EmploymentType    types.EmploymentType `json:"employment_type"`
	Location          string               `json:"location,omitempty"`
	RemoteStatus      string               `json:"remote_status"`
	Compensation      string               `json:"compensation,omitempty"`
	Confidence        float64              `json:"confidence"`
	RedFlags          []string             `json:"red_flags,omitempty"`
	DedupNote         string               `json:"dedup_note,omitempty"`
	Status            string               `json:"status"`
}

// Queue is the full review queue artifact for one pipeline batch.
type Queue struct {
	BatchID     string              `json:"batch_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Leads       []QueueLead         `json:"leads"`
	AutoSkipped []types.SkippedLead `json:"auto_skipped"`
	Unresolved  []types.SkippedLead `json:"unresolved"`
}

// BuildQueue assembles the review queue from ranked leads plus the
// auto-skipped and unresolved lists carried through from scoring.
func BuildQueue(batchID string, generatedAt time.Time, ranked []types.ScoredLead, autoSkipped, unresolved []types.SkippedLead) Queue {
	q := Queue{
		BatchID:     batchID,
		GeneratedAt: generatedAt,
		Leads:       make([]QueueLead, 0, len(ranked)),
		AutoSkipped: emptyNotNil(autoSkipped),
		Unresolved:  emptyNotNil(unresolved),
	}

	for _, lead := range ranked {
		q.Leads = append(q.Leads, QueueLead{
			Rank:              lead.Rank,
			Company:           lead.Company,
			Role:              lead.Role,
			Score:             lead.ScoreResult,
			TopMatches:        topRequirements(lead.Matches, types.MatchStrong, maxTopMatches),
			TopGaps:           topRequirements(lead.Matches, types.MatchGap, maxTopGaps),
			SourcePlatform:    lead.SourcePlatform,
			EmailUID:          lead.EmailUID,
			EmailDate:         lead.EmailDate,
			CareerPageURL:     lead.CareerPageURL,
			ApplicationFolder: lead.ApplicationFolder,
			EmploymentType:    lead.EmploymentType,
			Location:          lead.LocationInfo.Location,
			RemoteStatus:      lead.LocationInfo.RemoteStatus,
			Compensation:      lead.Compensation,
			Confidence:        lead.Confidence,
			RedFlags:          lead.RedFlags,
			DedupNote:         lead.DedupNote,
			Status:            "pending_review",
		})
	}
	return q
}

func topRequirements(matches []types.RequirementMatch, mt types.MatchType, limit int) []string {
	var out []string
	for _, m := range matches {
		if m.MatchType != mt {
			continue
		}
		req := m.Requirement
		if len(req) > reqPreviewLen {
			req = req[:reqPreviewLen]
		}
		out = append(out, req)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Save writes the queue JSON and its markdown summary into dir.
func Save(dir string, q Queue) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating review dir: %w", err)
	}

	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding review queue: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, QueueFile), data, 0o644); err != nil {
		return fmt.Errorf("writing review queue: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, QueueMDFile), []byte(Markdown(q)), 0o644); err != nil {
		return fmt.Errorf("writing review summary: %w", err)
	}
	return nil
}

// Load reads the queue JSON from dir.
func Load(dir string) (Queue, error) {
	data, err := os.ReadFile(filepath.Join(dir, QueueFile))
	if err != nil {
		return Queue{}, err
	}
	var q Queue
	if err := json.Unmarshal(data, &q); err != nil {
		return Queue{}, fmt.Errorf("decoding review queue: %w", err)
	}
	return q, nil
}

var tierOrder = []types.Tier{types.TierStrong, types.TierGood, types.TierStretch, types.TierLongShot}

// Markdown renders the human-readable summary: leads grouped by tier in
// descending order, then the unresolved and auto-skipped lists.
func Markdown(q Queue) string {
	var b strings.Builder

	b.WriteString("# Review Queue\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", q.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "**Batch:** %s\n", q.BatchID)
	fmt.Fprintf(&b, "**Leads:** %d | **Auto-skipped:** %d | **Unresolved:** %d\n\n",
		len(q.Leads), len(q.AutoSkipped), len(q.Unresolved))

	byTier := map[types.Tier][]QueueLead{}
	for _, lead := range q.Leads {
		tier := lead.Score.Overall
		if types.TierRank(tier) == types.TierRank(types.TierLongShot) {
			tier = types.TierLongShot
		}
		byTier[tier] = append(byTier[tier], lead)
	}

	for _, tier := range tierOrder {
		leads := byTier[tier]
		if len(leads) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s (%d)\n\n", tierHeading(tier), len(leads))

		for _, lead := range leads {
			var flags []string
			if len(lead.RedFlags) > 0 {
				flags = append(flags, "RED FLAGS")
			}
			if lead.EmploymentType != types.EmploymentFullTime && lead.EmploymentType != types.EmploymentUnknown {
				flags = append(flags, strings.ToUpper(string(lead.EmploymentType)))
			}
			if lead.DedupNote != "" {
				flags = append(flags, lead.DedupNote)
			}
			flagStr := ""
			if len(flags) > 0 {
				flagStr = fmt.Sprintf(" [%s]", strings.Join(flags, ", "))
			}

			fmt.Fprintf(&b, "**[%d] %s: %s**\n", lead.Rank, lead.Company, lead.Role)
			fmt.Fprintf(&b, "  Score: %.1f%% match | Source: %s%s\n",
				lead.Score.MatchPercentage, lead.SourcePlatform, flagStr)
			if len(lead.TopMatches) > 0 {
				fmt.Fprintf(&b, "  Matches: %s\n", strings.Join(lead.TopMatches, ", "))
			}
			if len(lead.TopGaps) > 0 {
				fmt.Fprintf(&b, "  Gaps: %s\n", strings.Join(lead.TopGaps, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(q.Unresolved) > 0 {
		fmt.Fprintf(&b, "## Unresolved (%d)\n\n", len(q.Unresolved))
		for _, item := range q.Unresolved {
			fmt.Fprintf(&b, "- **%s**: %s (%s)\n", item.Company, item.Role, item.Reason)
		}
		b.WriteString("\n")
	}

	if len(q.AutoSkipped) > 0 {
		fmt.Fprintf(&b, "## Auto-Skipped (%d)\n\n", len(q.AutoSkipped))
		for _, item := range q.AutoSkipped {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", item.Company, item.Role, item.Reason)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func tierHeading(tier types.Tier) string {
	words := strings.Fields(strings.ReplaceAll(string(tier), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func emptyNotNil(s []types.SkippedLead) []types.SkippedLead {
	if s == nil {
		return []types.SkippedLead{}
	}
	return s
}
