// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MatchType classifies one requirement against the achievements inventory.
// The three values are mutually exclusive.
type MatchType string

const (
	MatchStrong  MatchType = "strong"
	MatchPartial MatchType = "partial"
	MatchGap     MatchType = "gap"
)

// Tier is the overall fit verdict for a scored job.
type Tier string

const (
	TierStrong   Tier = "strong"
	TierGood     Tier = "good"
	TierStretch  Tier = "stretch"
	TierLongShot Tier = "long_shot"
)

// TierRank orders tiers for ranking: strong=0 … long_shot=3. Unknown
// values rank last.
func TierRank(t Tier) int {
	switch t {
	case TierStrong:
		return 0
	case TierGood:
		return 1
	case TierStretch:
		return 2
	default:
		return 3
	}
}

// RequirementSet is the structured decomposition of a job description.
type RequirementSet struct {
	HardRequirements []string `json:"hard_requirements"`
	Preferred        []string `json:"preferred"`
	Responsibilities []string `json:"responsibilities"`
	Keywords         []string `json:"keywords"`
	RedFlags         []string `json:"red_flags"`
}

// RequirementMatch is the scored outcome for a single requirement.
type RequirementMatch struct {
	Requirement string    `json:"requirement"`
	MatchType   MatchType `json:"match_type"`
	Evidence    string    `json:"evidence"`
	Category    string    `json:"category"`
}

// ScoreResult aggregates a job's requirement matches into a tier verdict.
// Tier is monotone in match percentage and gap count: a job with any gap
// can never be TierStrong.
type ScoreResult struct {
	Overall         Tier    `json:"overall"`
	MatchPercentage float64 `json:"match_percentage"`
	StrongCount     int     `json:"strong_count"`
	PartialCount    int     `json:"partial_count"`
	GapCount        int     `json:"gap_count"`
}

// EmploymentType is the best-effort employment classification of a posting.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentContract EmploymentType = "contract"
	EmploymentPartTime EmploymentType = "part_time"
	EmploymentTemp     EmploymentType = "temp"
	EmploymentUnknown  EmploymentType = "unknown"
)

// LocationInfo is the location/remote assessment of a posting against the
// user's preferred location.
type LocationInfo struct {
	Match        bool   `json:"match"`
	Location     string `json:"location"`
	RemoteStatus string `json:"remote_status"`
}

// ScoredLead is one fully scored job, ready for ranking and review.
type ScoredLead struct {
	Company        string `json:"company"`
	Role           string `json:"role"`
	SourcePlatform string `json:"source_platform"`
	EmailUID       string `json:"email_uid"`
	EmailDate      string `json:"email_date"`
	RawSubject     string `json:"raw_subject"`

	Confidence      float64 `json:"confidence"`
	CareerPageURL   string  `json:"career_page_url"`
	DescriptionText string  `json:"description_text"`
	Compensation    string  `json:"compensation,omitempty"`

	ScoreResult    ScoreResult        `json:"score_result"`
	Matches        []RequirementMatch `json:"matches"`
	Requirements   RequirementSet     `json:"requirements"`
	EmploymentType EmploymentType     `json:"employment_type"`
	LocationInfo   LocationInfo       `json:"location_info"`
	RedFlags       []string           `json:"red_flags,omitempty"`

	PipelineBatch string `json:"pipeline_batch"`

	// Rank is the 1-based position after ranking; zero before.
	Rank int `json:"rank,omitempty"`

	// DedupNote is set when an application for this (company, role)
	// already exists in the index.
	DedupNote         string `json:"dedup_note,omitempty"`
	SkippedDedup      bool   `json:"skipped_dedup,omitempty"`
	ApplicationFolder string `json:"application_folder,omitempty"`
}

// SkippedLead records a lead removed from the ranked set, either by an
// auto-skip rule or because it never produced a scoreable description.
type SkippedLead struct {
	Company  string `json:"company"`
	Role     string `json:"role"`
	Reason   string `json:"reason"`
	Score    Tier   `json:"score,omitempty"`
	EmailUID string `json:"email_uid,omitempty"`
}

// Achievements maps a category name to its ordered achievement strings.
// Loaded once per run from the achievements document; read-only afterwards.
// Iteration during scoring uses the separate Categories order so that
// tie-breaking is reproducible.
type Achievements struct {
	Categories []string
	Items      map[string][]string
}

// Total returns the number of achievement strings across all categories.
func (a Achievements) Total() int {
	n := 0
	for _, items := range a.Items {
		n += len(items)
	}
	return n
}
