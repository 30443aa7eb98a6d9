// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// ATSType identifies the applicant tracking system hosting a posting.
type ATSType string

const (
	ATSWorkday         ATSType = "workday"
	ATSGreenhouse      ATSType = "greenhouse"
	ATSLever           ATSType = "lever"
	ATSICIMS           ATSType = "icims"
	ATSSuccessFactors  ATSType = "successfactors"
	ATSSmartRecruiters ATSType = "smartrecruiters"
	ATSAshby           ATSType = "ashby"
	ATSBambooHR        ATSType = "bamboohr"
	ATSJobvite         ATSType = "jobvite"
	ATSNone            ATSType = ""
)

// CareerPage is the discovery result for a lead: where the posting lives
// and how confident discovery is that the URL is the specific posting
// rather than a general careers page.
type CareerPage struct {
	URL        string  `json:"url"`
	ATSType    ATSType `json:"ats_type"`
	Confidence float64 `json:"confidence"`
}

// ScrapedJob is the scraped content of one job posting.
type ScrapedJob struct {
	URL     string  `json:"url"`
	ATSType ATSType `json:"ats_type"`

	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	DescriptionText string `json:"description_text"`

	// Compensation is the first salary-looking string found in the
	// description, verbatim. Empty when none was found.
	Compensation string `json:"compensation,omitempty"`

	// DescriptionIncomplete is true when the description is implausibly
	// short (under 200 characters), usually a JS-rendered page.
	DescriptionIncomplete bool `json:"description_incomplete"`

	ScrapedAt time.Time `json:"scraped_at"`
}

// MatchValidation reports how well a scraped posting matches the lead it
// was discovered for.
type MatchValidation struct {
	IsMatch           bool    `json:"is_match"`
	Confidence        float64 `json:"confidence"`
	TitleSimilarity   float64 `json:"title_similarity"`
	CompanySimilarity float64 `json:"company_similarity"`
}

// SourcedStatus is the outcome of the source stage for one lead.
type SourcedStatus string

const (
	StatusSourced    SourcedStatus = "sourced"
	StatusUnresolved SourcedStatus = "unresolved"
)

// SourcedResult is the per-lead artifact of the source stage, written to
// staging/sourced/<uid>_<index>.json. Unresolved results carry a reason
// and whatever partial scrape data exists.
type SourcedResult struct {
	Lead            JobLead          `json:"lead"`
	Scraped         *ScrapedJob      `json:"scraped,omitempty"`
	MatchValidation *MatchValidation `json:"match_validation,omitempty"`
	CareerPage      *CareerPage      `json:"career_page,omitempty"`

	Status           SourcedStatus `json:"status"`
	UnresolvedReason string        `json:"unresolved_reason,omitempty"`
	SourcedAt        time.Time     `json:"sourced_at"`
}

// SimilarRole is a best-effort alternative posting found on a company's
// careers page when the exact role was not located.
type SimilarRole struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// StagingKey builds the deterministic file key for a lead within an email.
func StagingKey(emailUID string, leadIndex int) string {
	return fmt.Sprintf("%s_%d", emailUID, leadIndex)
}
