// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/jrhoades1/job-application-system/internal/emailtext"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

// Extraction confidences. Subject-line hits are most reliable; body
// fallbacks and looser separators score lower.
const (
	confidenceSubject       = 0.8
	confidenceLinkedInCard  = 0.85
	confidenceIndeedTwoLine = 0.7
	confidenceRoleAtCompany = 0.75
	confidenceCompanyDash   = 0.6
	bodyFallbackPenalty     = 0.1
)

var (
	// "Company · Location" is the marker line of a LinkedIn job card.
	middleDotRe = regexp.MustCompile(`^([^·<\[\(]+?)\s*·\s*(.+)$`)

	cardURLSuffixRe = regexp.MustCompile(`\s*<https?://[^>]+>\s*`)
	cardLinkPrefix  = regexp.MustCompile(`^\[.*?\]\s*`)
	salaryLineRe    = regexp.MustCompile(`^\$[\d,]+K?\s*[-–]\s*\$[\d,]+K?`)

	indeedTwoLineRe = regexp.MustCompile(`(?m)(?P<role>[A-Z][^\n]{5,80})\n(?P<company>[A-Z][^\n-]{2,60})\s*[-–]\s*(?P<location>[^\n]+)`)

	roleAtCompanyRe = regexp.MustCompile(`(?im)(?P<role>(?:Senior|Sr\.?|Junior|Jr\.?|Lead|Staff|Principal|Chief|` +
		`Director|VP|Vice President|Head|Manager|Engineer|Architect|` +
		`Developer|Designer|Analyst|Scientist|Consultant)[^\n]{0,60}?)` +
		`\s+at\s+` +
		`(?P<company>[A-Z][^\n,]{1,60})`)

	companyDashRoleRe = regexp.MustCompile(`(?m)(?P<company>[A-Z][^\n|–-]{2,40})\s*[|–-]\s*` +
		`(?P<role>(?:Senior|Sr|Lead|Staff|Principal|Director|VP|` +
		`Head|Manager|Engineer|Architect|Developer)[^\n]{0,60})`)

	bodyRoleAtRe = regexp.MustCompile(`(?i)(?P<role>(?:Senior|Sr\.?|Director|VP|Vice President|Head|Manager|` +
		`Lead|Chief|Engineer|Architect|Principal)[^.\n]{0,60}?)` +
		`\s+at\s+` +
		`(?P<company>[A-Z][^.\n,]{1,60})`)

	bodyHiringRe = regexp.MustCompile(`(?P<company>[A-Z][^\n]{1,40})\s+is\s+(?:hiring|looking for)`)
)

var roleKeywords = []string{
	"director", "manager", "engineer", "developer", "architect",
	"lead", "head", "vp", "vice president", "chief", "officer",
	"senior", "staff", "principal", "analyst", "scientist",
	"designer", "consultant", "coordinator", "specialist",
}

var companyBoilerplate = []string{
	"unsubscribe", "view in browser", "privacy policy", "terms of",
	"click here", "learn more", "see all", "view all",
	"this email", "was sent", "copyright", "all rights",
}

func isLikelyRole(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range roleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isLikelyCompany(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	if len(lower) < 2 || len(lower) > 60 {
		return false
	}
	for _, nc := range companyBoilerplate {
		if strings.Contains(lower, nc) {
			return false
		}
	}
	return true
}

// extractSingle pulls one (company, role) from a single-job notification:
// the sender template's subject patterns first, then body fallbacks at a
// confidence penalty. Returns nil when neither field could be recovered.
func extractSingle(e types.RawEmail, tmpl types.SenderTemplate, aliases map[string][]string) *types.JobLead {
	subject := e.Subject
	if e.ForwardInfo != nil && e.ForwardInfo.IsForwarded {
		subject = e.ForwardInfo.OriginalSubject
	}
	bodyText := emailtext.BodyText(e.BodyText, e.BodyHTML)
	domain := emailtext.SenderDomain(emailtext.EffectiveFrom(e))

	var company, role string
	var confidence float64

	for _, pat := range tmpl.SubjectPatterns {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			continue
		}
		m := re.FindStringSubmatch(subject)
		if m == nil {
			continue
		}
		if idx := re.SubexpIndex("company"); idx > 0 && idx < len(m) {
			company = strings.TrimSpace(m[idx])
		}
		if idx := re.SubexpIndex("role"); idx > 0 && idx < len(m) {
			role = strings.TrimSpace(m[idx])
		}
		if company != "" || role != "" {
			confidence = confidenceSubject
			break
		}
	}

	if company == "" || role == "" {
		bodyCompany, bodyRole, bodyConf := extractFromBody(bodyText)
		if company == "" && bodyCompany != "" {
			company = bodyCompany
			confidence = max(confidence, bodyConf-bodyFallbackPenalty)
		}
		if role == "" && bodyRole != "" {
			role = bodyRole
			confidence = max(confidence, bodyConf-bodyFallbackPenalty)
		}
	}

	if company != "" {
		company = ResolveCompanyName(company, aliases)
	}
	if role != "" {
		role = NormalizeRoleTitle(role)
	}
	if company == "" && role == "" {
		return nil
	}

	if company == "" {
		company = "Unknown"
	}
	if role == "" {
		role = "Unknown Role"
	}
	return &types.JobLead{
		Type:           types.RecordJobLead,
		Company:        company,
		Role:           role,
		SourcePlatform: platformName(domain),
		Confidence:     round2(confidence),
	}
}

// extractFromBody is the subject-pattern fallback: "Role at Company" first,
// then "Company is hiring".
func extractFromBody(bodyText string) (company, role string, confidence float64) {
	confidence = 0.5
	if m := bodyRoleAtRe.FindStringSubmatch(bodyText); m != nil {
		role = strings.TrimSpace(m[bodyRoleAtRe.SubexpIndex("role")])
		company = strings.TrimSpace(m[bodyRoleAtRe.SubexpIndex("company")])
		confidence = 0.7
		return company, role, confidence
	}
	if m := bodyHiringRe.FindStringSubmatch(bodyText); m != nil {
		company = strings.TrimSpace(m[bodyHiringRe.SubexpIndex("company")])
	}
	return company, role, confidence
}

// extractMulti dispatches to the sender template's block parser and falls
// back to the generic text scan when the specific parser yields nothing.
func extractMulti(e types.RawEmail, tmpl types.SenderTemplate, aliases map[string][]string) []types.JobLead {
	bodyText := emailtext.BodyText(e.BodyText, e.BodyHTML)
	if e.ForwardInfo != nil && e.ForwardInfo.IsForwarded && e.ForwardInfo.OriginalBodyText != "" {
		bodyText = e.ForwardInfo.OriginalBodyText
	}
	domain := emailtext.SenderDomain(emailtext.EffectiveFrom(e))

	var leads []types.JobLead
	switch tmpl.BodyParseStrategy {
	case "linkedin_cards":
		leads = parseLinkedInCards(bodyText)
		if len(leads) == 0 {
			leads = parseTextJobBlocks(bodyText)
		}
	case "indeed_list":
		leads = parseIndeedList(bodyText)
		if len(leads) == 0 {
			leads = parseTextJobBlocks(bodyText)
		}
	default:
		leads = parseTextJobBlocks(bodyText)
	}

	platform := platformName(domain)
	out := leads[:0]
	for _, lead := range leads {
		lead.SourcePlatform = platform
		lead.Company = ResolveCompanyName(lead.Company, aliases)
		lead.Role = NormalizeRoleTitle(lead.Role)
		if lead.Company == "" || lead.Role == "" {
			continue
		}
		out = append(out, lead)
	}
	return out
}

// parseLinkedInCards walks the plain-text rendering of a LinkedIn job
// alert. Each card's marker is a "Company · Location" line (U+00B7 middle
// dot); the role title sits one to four lines above it, and an optional
// salary range sits on the line below. The look-back is brittle to
// template changes on LinkedIn's side, so the generic scanner backs it up.
func parseLinkedInCards(text string) []types.JobLead {
	var leads []types.JobLead
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		m := middleDotRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		company := strings.TrimSpace(m[1])
		location := strings.TrimSpace(m[2])

		if len(company) < 2 || len(company) > 60 {
			continue
		}
		lower := strings.ToLower(company)
		if strings.Contains(lower, "unsubscribe") || strings.Contains(lower, "copyright") ||
			strings.Contains(lower, "linkedin") || strings.Contains(lower, "see all") ||
			strings.Contains(lower, "©") {
			continue
		}

		var role string
		for j := i - 1; j >= 0 && j >= i-4; j-- {
			prev := strings.TrimSpace(lines[j])
			prev = strings.TrimSpace(cardURLSuffixRe.ReplaceAllString(prev, ""))
			prev = strings.TrimSpace(cardLinkPrefix.ReplaceAllString(prev, ""))
			if prev == "" || strings.HasPrefix(prev, "<") || strings.HasPrefix(prev, "[") ||
				strings.HasPrefix(prev, "http") {
				continue
			}
			if isLikelyRole(prev) && len(prev) < 100 {
				role = prev
				break
			}
		}
		if role == "" {
			continue
		}

		lead := types.JobLead{
			Type:       types.RecordJobLead,
			Company:    company,
			Role:       role,
			Location:   location,
			Confidence: confidenceLinkedInCard,
		}
		if i+1 < len(lines) {
			if sm := salaryLineRe.FindString(strings.TrimSpace(lines[i+1])); sm != "" {
				lead.SalaryRange = sm
			}
		}
		leads = append(leads, lead)
	}
	return leads
}

// parseIndeedList handles Indeed's two-line "Role\nCompany - Location"
// digest format.
func parseIndeedList(text string) []types.JobLead {
	var leads []types.JobLead
	for _, m := range indeedTwoLineRe.FindAllStringSubmatch(text, -1) {
		role := strings.TrimSpace(m[indeedTwoLineRe.SubexpIndex("role")])
		company := strings.TrimSpace(m[indeedTwoLineRe.SubexpIndex("company")])
		location := strings.TrimSpace(m[indeedTwoLineRe.SubexpIndex("location")])
		if !isLikelyRole(role) || !isLikelyCompany(company) {
			continue
		}
		leads = append(leads, types.JobLead{
			Type:       types.RecordJobLead,
			Company:    company,
			Role:       role,
			Location:   location,
			Confidence: confidenceIndeedTwoLine,
		})
	}
	return leads
}

// parseTextJobBlocks is the generic scan: "Role at Company" over the whole
// body, then "Company - Role" / "Company | Role" only when the first
// pattern found nothing. Pattern order is the priority order.
func parseTextJobBlocks(text string) []types.JobLead {
	var leads []types.JobLead
	for _, m := range roleAtCompanyRe.FindAllStringSubmatch(text, -1) {
		leads = append(leads, types.JobLead{
			Type:       types.RecordJobLead,
			Company:    strings.TrimSpace(m[roleAtCompanyRe.SubexpIndex("company")]),
			Role:       strings.TrimSpace(m[roleAtCompanyRe.SubexpIndex("role")]),
			Confidence: confidenceRoleAtCompany,
		})
	}
	if len(leads) > 0 {
		return leads
	}
	for _, m := range companyDashRoleRe.FindAllStringSubmatch(text, -1) {
		leads = append(leads, types.JobLead{
			Type:       types.RecordJobLead,
			Company:    strings.TrimSpace(m[companyDashRoleRe.SubexpIndex("company")]),
			Role:       strings.TrimSpace(m[companyDashRoleRe.SubexpIndex("role")]),
			Confidence: confidenceCompanyDash,
		})
	}
	return leads
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
