// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/jrhoades1/job-application-system/internal/emailtext"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

const (
	confidenceRecruiterBare   = 0.4
	confidenceRecruiterTarget = 0.6
)

var (
	recruiterCompanyRe = regexp.MustCompile(`(?:at|with|for|client)\s+(?:is\s+)?(?P<company>[A-Z][^\n,.]{2,40})`)
	recruiterRoleRe    = regexp.MustCompile(`(?i)(?:role|position|opportunity)\s*(?:of|for|as|:)\s*(?P<role>[^\n.]{5,60})`)
	recruiterSubjRole  = regexp.MustCompile(`(?i)(?:Senior|Sr|Director|VP|Head|Manager|Lead|Chief|Engineer|Architect|Principal)[^-|]*`)
)

var staffingIndicators = []string{
	"staffing", "recruiting", "talent", "placement", "robert half",
	"randstad", "adecco", "manpower", "kelly services", "hays",
	"insight global", "tek systems", "kforce", "apex",
}

// ParseRecruiter digs the hiring company and role hint out of recruiter
// outreach. Either field may come back empty; confidence stays low because
// outreach text is noisier than job-board notifications.
func ParseRecruiter(e types.RawEmail, aliases map[string][]string) types.RecruiterInfo {
	bodyText := emailtext.BodyText(e.BodyText, e.BodyHTML)

	info := types.RecruiterInfo{
		RecruiterName:    emailtext.SenderName(e.From),
		RecruiterCompany: emailtext.SenderDomain(e.From),
	}

	if m := recruiterCompanyRe.FindStringSubmatch(bodyText); m != nil {
		info.TargetCompany = strings.TrimSpace(m[recruiterCompanyRe.SubexpIndex("company")])
	}
	if m := recruiterRoleRe.FindStringSubmatch(bodyText); m != nil {
		info.RoleHint = strings.TrimSpace(m[recruiterRoleRe.SubexpIndex("role")])
	}
	if info.RoleHint == "" {
		if m := recruiterSubjRole.FindString(e.Subject); m != "" {
			info.RoleHint = strings.TrimSpace(m)
		}
	}

	haystack := strings.ToLower(info.RecruiterCompany + " " + e.From)
	for _, ind := range staffingIndicators {
		if strings.Contains(haystack, ind) {
			info.IsStaffingAgency = true
			break
		}
	}

	if info.TargetCompany != "" {
		info.TargetCompany = ResolveCompanyName(info.TargetCompany, aliases)
		info.Confidence = confidenceRecruiterTarget
	} else {
		info.Confidence = confidenceRecruiterBare
	}
	if info.RoleHint != "" {
		info.RoleHint = NormalizeRoleTitle(info.RoleHint)
	}
	return info
}
