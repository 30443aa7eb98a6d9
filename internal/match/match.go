// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match verifies that a scraped posting is the same job the email
// lead described. Titles get reworded between alert and posting, so the
// comparison is a token-sort ratio rather than exact equality.
package match

import (
	"net/url"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

// Validation thresholds. A title over 0.6 or a company over 0.7 is a
// confident match; titles alone down to 0.4 still pass because job boards
// rewrite them heavily.
const (
	titleMatchThreshold   = 0.6
	companyMatchThreshold = 0.7
	lenientTitleThreshold = 0.4

	titleWeight   = 0.6
	companyWeight = 0.4

	// urlCompanySimilarity is assumed when the scrape found no company
	// name but the lead's company appears in the posting's domain.
	urlCompanySimilarity = 0.8
)

// TokenSortRatio computes similarity in [0, 1] between two strings after
// lowercasing and sorting their tokens, so word order does not matter:
// "Engineer, Senior Platform" matches "Senior Platform Engineer".
func TokenSortRatio(a, b string) float64 {
	na, nb := tokenSort(a), tokenSort(b)
	if na == "" && nb == "" {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(na, nb)
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}
	return 1 - float64(dist)/float64(longest)
}

func tokenSort(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// ValidateJobMatch scores how well the scraped posting matches the lead.
func ValidateJobMatch(lead types.JobLead, scraped types.ScrapedJob) types.MatchValidation {
	leadRole := strings.ToLower(strings.TrimSpace(lead.Role))
	leadCompany := strings.ToLower(strings.TrimSpace(lead.Company))
	scrapedRole := strings.ToLower(strings.TrimSpace(scraped.Title))
	scrapedCompany := strings.ToLower(strings.TrimSpace(scraped.Company))

	var titleSim, companySim float64
	if leadRole != "" && scrapedRole != "" {
		titleSim = TokenSortRatio(leadRole, scrapedRole)
	}
	if leadCompany != "" && scrapedCompany != "" {
		companySim = TokenSortRatio(leadCompany, scrapedCompany)
	}

	// Scrapes often come back without a company name; fall back to
	// checking the posting's domain for the company slug.
	if scrapedCompany == "" {
		if u, err := url.Parse(scraped.URL); err == nil {
			domain := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
			slug := strings.NewReplacer(" ", "", ",", "", ".", "").Replace(leadCompany)
			if slug != "" && strings.Contains(domain, slug) {
				companySim = urlCompanySimilarity
			}
		}
	}

	confidence := titleSim*titleWeight + companySim*companyWeight
	isMatch := titleSim >= titleMatchThreshold || companySim >= companyMatchThreshold
	if !isMatch {
		isMatch = titleSim >= lenientTitleThreshold
	}

	return types.MatchValidation{
		IsMatch:           isMatch,
		Confidence:        round2(confidence),
		TitleSimilarity:   round2(titleSim),
		CompanySimilarity: round2(companySim),
	}
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
