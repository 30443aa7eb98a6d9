// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"strings"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

// atsHostPatterns maps each tracking system to the URL substrings that
// identify it. Order within a slice does not matter; detection scans
// systems in a fixed order so results are reproducible.
var atsHostPatterns = []struct {
	ats      types.ATSType
	patterns []string
}{
	{types.ATSWorkday, []string{"myworkdayjobs.com", "wd1.myworkdayjobs", "wd5.myworkdayjobs"}},
	{types.ATSGreenhouse, []string{"boards.greenhouse.io", "job-boards.greenhouse.io"}},
	{types.ATSLever, []string{"jobs.lever.co"}},
	{types.ATSICIMS, []string{"icims.com"}},
	{types.ATSSuccessFactors, []string{"successfactors.com"}},
	{types.ATSSmartRecruiters, []string{"jobs.smartrecruiters.com"}},
	{types.ATSAshby, []string{"jobs.ashbyhq.com"}},
	{types.ATSBambooHR, []string{"bamboohr.com/careers", "bamboohr.com/jobs"}},
	{types.ATSJobvite, []string{"jobs.jobvite.com"}},
}

// DetectATS identifies the tracking system hosting a URL, or ATSNone for
// company-built career pages.
func DetectATS(rawURL string) types.ATSType {
	lower := strings.ToLower(rawURL)
	for _, entry := range atsHostPatterns {
		for _, p := range entry.patterns {
			if strings.Contains(lower, p) {
				return entry.ats
			}
		}
	}
	return types.ATSNone
}
