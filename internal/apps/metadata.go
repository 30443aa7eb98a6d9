// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apps

import (
	"fmt"
	"time"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

// Application lifecycle statuses stored in the index and metadata.
const (
	StatusPendingReview = "pending_review"
	StatusToApply       = "to_apply"
	StatusApplied       = "applied"
	StatusInterviewing  = "interviewing"
	StatusOffer         = "offer"
	StatusRejected      = "rejected"
	StatusWithdrawn     = "withdrawn"
	StatusSkipped       = "skipped"
)

// ValidStatuses enumerates every recognized application status.
var ValidStatuses = []string{
	StatusPendingReview, StatusToApply, StatusApplied, StatusInterviewing,
	StatusOffer, StatusRejected, StatusWithdrawn, StatusSkipped,
}

// IsValidStatus reports whether s is a recognized application status.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// MatchScore is the scoring summary embedded in application metadata.
type MatchScore struct {
	Overall             string   `yaml:"overall" json:"overall"`
	RequirementsMatched []string `yaml:"requirements_matched" json:"requirements_matched"`
	RequirementsPartial []string `yaml:"requirements_partial" json:"requirements_partial"`
	Gaps                []string `yaml:"gaps" json:"gaps"`
	AddressableGaps     []string `yaml:"addressable_gaps" json:"addressable_gaps"`
	HardGaps            []string `yaml:"hard_gaps" json:"hard_gaps"`
	Keywords            []string `yaml:"keywords" json:"keywords"`
}

// Offer captures offer terms once one arrives; all fields start null.
type Offer struct {
	Salary           *string `yaml:"salary" json:"salary"`
	Equity           *string `yaml:"equity" json:"equity"`
	SigningBonus     *string `yaml:"signing_bonus" json:"signing_bonus"`
	Remote           string  `yaml:"remote,omitempty" json:"remote,omitempty"`
	BenefitsNotes    *string `yaml:"benefits_notes" json:"benefits_notes"`
	DecisionDeadline *string `yaml:"decision_deadline" json:"decision_deadline"`
}

// Metadata is the per-application record written to metadata.yaml. The
// pipeline fills the sourcing and scoring fields; the rest track the
// application's lifecycle by hand and start null.
type Metadata struct {
	Company      string `yaml:"company" json:"company"`
	Role         string `yaml:"role" json:"role"`
	Location     string `yaml:"location" json:"location"`
	Compensation string `yaml:"compensation,omitempty" json:"compensation,omitempty"`

	AppliedDate  *string `yaml:"applied_date" json:"applied_date"`
	Source       string  `yaml:"source" json:"source"`
	SourceURL    string  `yaml:"source_url" json:"source_url"`
	Status       string  `yaml:"status" json:"status"`
	FollowUpDate *string `yaml:"follow_up_date" json:"follow_up_date"`
	Contact      string  `yaml:"contact" json:"contact"`

	ResumeVersion      *string `yaml:"resume_version" json:"resume_version"`
	CoverLetter        *string `yaml:"cover_letter" json:"cover_letter"`
	FormerEmployer     bool    `yaml:"former_employer" json:"former_employer"`
	FormerEmployerRole *string `yaml:"former_employer_role" json:"former_employer_role"`
	Notes              string  `yaml:"notes" json:"notes"`

	MatchScore         MatchScore `yaml:"match_score" json:"match_score"`
	TailoringIntensity *string    `yaml:"tailoring_intensity" json:"tailoring_intensity"`

	InterviewDate      *string `yaml:"interview_date" json:"interview_date"`
	InterviewRound     *string `yaml:"interview_round" json:"interview_round"`
	InterviewType      *string `yaml:"interview_type" json:"interview_type"`
	InterviewNotesFile *string `yaml:"interview_notes_file" json:"interview_notes_file"`

	RejectionDate     *string `yaml:"rejection_date" json:"rejection_date"`
	RejectionReason   *string `yaml:"rejection_reason" json:"rejection_reason"`
	RejectionInsights *string `yaml:"rejection_insights" json:"rejection_insights"`

	Offer         Offer    `yaml:"offer" json:"offer"`
	OfferAccepted *bool    `yaml:"offer_accepted" json:"offer_accepted"`
	LearningFlags []string `yaml:"learning_flags" json:"learning_flags"`

	EmailUID           string               `yaml:"email_uid,omitempty" json:"email_uid,omitempty"`
	PipelineBatch      string               `yaml:"pipeline_batch,omitempty" json:"pipeline_batch,omitempty"`
	PipelineConfidence float64              `yaml:"pipeline_confidence,omitempty" json:"pipeline_confidence,omitempty"`
	EmploymentType     types.EmploymentType `yaml:"employment_type" json:"employment_type"`
	SkipDate           *string              `yaml:"skip_date" json:"skip_date"`
	SkipReason         *string              `yaml:"skip_reason" json:"skip_reason"`
}

// NewMetadata builds the metadata record for a pipeline-sourced lead.
func NewMetadata(lead types.ScoredLead, today time.Time) Metadata {
	subject := lead.RawSubject
	if subject == "" {
		subject = "N/A"
	}
	if len(subject) > 80 {
		subject = subject[:80]
	}

	return Metadata{
		Company:      lead.Company,
		Role:         lead.Role,
		Location:     lead.LocationInfo.Location,
		Compensation: lead.Compensation,
		Source:       orDefault(lead.SourcePlatform, "Email Pipeline"),
		SourceURL:    lead.CareerPageURL,
		Status:       StatusPendingReview,
		Notes: fmt.Sprintf("Sourced via email pipeline on %s. Email subject: %s",
			today.Format("2006-01-02"), subject),
		MatchScore: MatchScore{
			Overall:             string(lead.ScoreResult.Overall),
			RequirementsMatched: requirementsByType(lead.Matches, types.MatchStrong),
			RequirementsPartial: requirementsByType(lead.Matches, types.MatchPartial),
			Gaps:                requirementsByType(lead.Matches, types.MatchGap),
			AddressableGaps:     []string{},
			HardGaps:            []string{},
			Keywords:            lead.Requirements.Keywords,
		},
		Offer:              Offer{Remote: lead.LocationInfo.RemoteStatus},
		LearningFlags:      []string{},
		EmailUID:           lead.EmailUID,
		PipelineBatch:      lead.PipelineBatch,
		PipelineConfidence: lead.Confidence,
		EmploymentType:     lead.EmploymentType,
	}
}

func requirementsByType(matches []types.RequirementMatch, mt types.MatchType) []string {
	out := []string{}
	for _, m := range matches {
		if m.MatchType == mt {
			out = append(out, m.Requirement)
		}
	}
	return out
}
