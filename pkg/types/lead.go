// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RecordType tags the entries of a parsed-lead file. Every raw email produces
// exactly one parsed file; not-job and unresolved outcomes are first-class
// records, not errors.
type RecordType string

const (
	RecordJobLead    RecordType = "job_lead"
	RecordNotJob     RecordType = "not_job"
	RecordUnresolved RecordType = "unresolved"
)

// JobLead is one extracted (company, role) candidate. Multi-lead emails
// produce several, distinguished by LeadIndex. The (EmailUID, LeadIndex)
// pair is the deterministic key for downstream staging files.
type JobLead struct {
	Type RecordType `json:"type"`

	Company        string `json:"company,omitempty"`
	Role           string `json:"role,omitempty"`
	SourcePlatform string `json:"source_platform,omitempty"`

	// Confidence is the extraction heuristic's self-assessment, in [0, 1].
	Confidence float64 `json:"confidence,omitempty"`

	Location    string `json:"location,omitempty"`
	SalaryRange string `json:"salary_range,omitempty"`

	// Recruiter outreach extras.
	RecruiterName    string `json:"recruiter_name,omitempty"`
	RecruiterCompany string `json:"recruiter_company,omitempty"`
	IsStaffingAgency bool   `json:"is_staffing_agency,omitempty"`

	EmailUID   string `json:"email_uid"`
	EmailDate  string `json:"email_date,omitempty"`
	RawSubject string `json:"raw_subject,omitempty"`
	LeadIndex  int    `json:"lead_index"`

	// Reason explains not_job and unresolved records.
	Reason string `json:"reason,omitempty"`
}

// Key returns the deterministic staging key for this lead: "<uid>_<index>".
func (l JobLead) Key() string {
	return StagingKey(l.EmailUID, l.LeadIndex)
}

// RecruiterInfo is the intermediate result of parsing recruiter outreach.
// TargetCompany and RoleHint may both be empty; the caller decides whether
// that makes the email unresolved.
type RecruiterInfo struct {
	RecruiterName    string
	RecruiterCompany string
	TargetCompany    string
	RoleHint         string
	IsStaffingAgency bool
	Confidence       float64
}
