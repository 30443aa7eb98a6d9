// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns raw staged emails into job-lead records. Each raw
// email produces exactly one parsed artifact under the same key, holding
// one or more lead, not-job, or unresolved records. Extraction never
// raises an error for bad content; it degrades to an unresolved record
// so a single hostile email cannot stall the batch.
package parse

import (
	"fmt"
	"io"

	"github.com/jrhoades1/job-application-system/internal/classify"
	"github.com/jrhoades1/job-application-system/internal/emailtext"
	"github.com/jrhoades1/job-application-system/internal/staging"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

// BatchResult holds the outcome of a batch parse run.
type BatchResult struct {
	Total      int
	Parsed     int
	Skipped    int
	Failed     int
	SingleJob  int
	MultiJob   int
	Recruiter  int
	NotJob     int
	Unresolved int
	LeadsFound int
}

// HasFailures reports whether any raw emails failed to parse at the
// store level. Unresolved content is not a failure.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Parser runs the parse stage over a pair of staging stores.
type Parser struct {
	Raw     staging.Store
	Parsed  staging.Store
	Config  types.PipelineConfig
	Reparse bool
}

// ParseEmail classifies one email and produces its lead records. The
// result is never empty: unextractable emails get a single record
// explaining why.
func ParseEmail(e types.RawEmail, cfg types.PipelineConfig) ([]types.JobLead, BatchResult) {
	var stats BatchResult

	if e.ForwardInfo == nil {
		info := emailtext.DetectForward(e.From, e.Subject, emailtext.BodyText(e.BodyText, e.BodyHTML))
		if info.IsForwarded {
			e.ForwardInfo = &info
		}
	}

	tmpl := templateFor(e, cfg.SenderTemplates)
	emailType := classify.Classify(e, cfg.SenderTemplates)

	stamp := func(l *types.JobLead, idx int) {
		l.EmailUID = e.UID
		l.EmailDate = e.Date
		l.RawSubject = e.Subject
		l.LeadIndex = idx
	}

	switch emailType {
	case types.EmailNotJob:
		stats.NotJob++
		rec := types.JobLead{Type: types.RecordNotJob, Reason: "email classified as non-job content"}
		stamp(&rec, 0)
		return []types.JobLead{rec}, stats

	case types.EmailMultiJob:
		stats.MultiJob++
		leads := extractMulti(e, tmpl, cfg.CompanyAliases)
		if len(leads) == 0 {
			stats.Unresolved++
			rec := types.JobLead{Type: types.RecordUnresolved, Reason: "multi-job email but no leads extracted"}
			stamp(&rec, 0)
			return []types.JobLead{rec}, stats
		}
		stats.LeadsFound += len(leads)
		for i := range leads {
			stamp(&leads[i], i)
		}
		return leads, stats

	case types.EmailSingleJob:
		stats.SingleJob++
		lead := extractSingle(e, tmpl, cfg.CompanyAliases)
		if lead == nil {
			stats.Unresolved++
			rec := types.JobLead{Type: types.RecordUnresolved, Reason: "single-job email but could not extract company/role"}
			stamp(&rec, 0)
			return []types.JobLead{rec}, stats
		}
		stats.LeadsFound++
		stamp(lead, 0)
		return []types.JobLead{*lead}, stats

	case types.EmailRecruiterGeneric:
		stats.Recruiter++
		info := ParseRecruiter(e, cfg.CompanyAliases)
		if info.TargetCompany != "" && info.RoleHint != "" {
			stats.LeadsFound++
			rec := types.JobLead{
				Type:             types.RecordJobLead,
				Company:          info.TargetCompany,
				Role:             info.RoleHint,
				SourcePlatform:   "Recruiter",
				Confidence:       info.Confidence,
				RecruiterName:    info.RecruiterName,
				RecruiterCompany: info.RecruiterCompany,
				IsStaffingAgency: info.IsStaffingAgency,
			}
			stamp(&rec, 0)
			return []types.JobLead{rec}, stats
		}
		stats.Unresolved++
		rec := types.JobLead{
			Type:             types.RecordUnresolved,
			Reason:           "recruiter email without specific company/role",
			RecruiterName:    info.RecruiterName,
			RecruiterCompany: info.RecruiterCompany,
		}
		stamp(&rec, 0)
		return []types.JobLead{rec}, stats
	}

	stats.Unresolved++
	rec := types.JobLead{Type: types.RecordUnresolved, Reason: "could not classify email type"}
	stamp(&rec, 0)
	return []types.JobLead{rec}, stats
}

// ParseBatch processes every raw email whose key has no parsed artifact
// yet, in sorted key order. Reparse reprocesses everything. Progress goes
// to w.
func (p *Parser) ParseBatch(w io.Writer) (BatchResult, error) {
	keys, err := p.Raw.Keys()
	if err != nil {
		return BatchResult{}, fmt.Errorf("listing raw emails: %w", err)
	}

	var result BatchResult
	for _, key := range keys {
		if !p.Reparse && p.Parsed.Exists(key) {
			result.Skipped++
			continue
		}
		result.Total++

		var e types.RawEmail
		if err := staging.ReadJSON(p.Raw, key, &e); err != nil {
			result.Failed++
			fmt.Fprintf(w, "  failed: %s: %v\n", key, err)
			continue
		}
		if e.UID == "" {
			e.UID = key
		}

		records, stats := ParseEmail(e, p.Config)
		result.SingleJob += stats.SingleJob
		result.MultiJob += stats.MultiJob
		result.Recruiter += stats.Recruiter
		result.NotJob += stats.NotJob
		result.Unresolved += stats.Unresolved
		result.LeadsFound += stats.LeadsFound

		if err := staging.WriteJSON(p.Parsed, key, records); err != nil {
			result.Failed++
			fmt.Fprintf(w, "  failed: %s: %v\n", key, err)
			continue
		}
		result.Parsed++
		fmt.Fprintf(w, "  parsed: %s (%d records)\n", key, len(records))
	}
	return result, nil
}

func templateFor(e types.RawEmail, templates map[string]types.SenderTemplate) types.SenderTemplate {
	domain := emailtext.SenderDomain(emailtext.EffectiveFrom(e))
	if tmpl, ok := templates[domain]; ok {
		return tmpl
	}
	return templates["_default"]
}
