// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score turns sourced job descriptions into tiered fit verdicts
// against a personal achievements inventory. Matching is deliberately
// transparent: stemmed term overlap plus fixed bonuses for shared
// technology keywords and satisfied experience levels, with no opaque
// weighting behind it.
package score

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

// Requirement match thresholds on the term-overlap score.
const (
	StrongMatchThreshold  = 0.35
	PartialMatchThreshold = 0.20

	keywordBonus = 0.3
	yearsBonus   = 0.2
)

// Overall tier thresholds on the weighted match percentage, with the
// maximum gap count each tier tolerates.
const (
	TierStrongPct  = 0.80
	TierGoodPct    = 0.60
	TierStretchPct = 0.40

	TierStrongMaxGaps  = 0
	TierGoodMaxGaps    = 1
	TierStretchMaxGaps = 2
)

var (
	wordRe = regexp.MustCompile(`\b[a-z]{3,}\b`)

	directKeywordRe = regexp.MustCompile(`(?i)\b(?:Python|Java|AWS|Azure|GCP|Kubernetes|Docker|Terraform|React|Node|HIPAA|SOC2|FHIR|HL7|DICOM|AI|ML|NLP|microservices|agile|scrum|DevOps|CI/CD)\b`)
)

// simpleStem reduces a word to an approximate stem so that surface
// variations ("managing", "management", "managed") land on the same term.
func simpleStem(word string) string {
	if len(word) <= 3 {
		return word
	}
	switch {
	case strings.HasSuffix(word, "ing") && len(word) > 5:
		return word[:len(word)-3]
	case strings.HasSuffix(word, "tion") && len(word) > 6:
		return word[:len(word)-4]
	case strings.HasSuffix(word, "ed") && len(word) > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ment") && len(word) > 6:
		return word[:len(word)-4]
	case strings.HasSuffix(word, "ness") && len(word) > 6:
		return word[:len(word)-4]
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 4:
		return word[:len(word)-1]
	}
	return word
}

// termSet extracts the stemmed significant terms of lowercased text.
func termSet(lower string) map[string]struct{} {
	terms := map[string]struct{}{}
	for _, w := range wordRe.FindAllString(lower, -1) {
		terms[simpleStem(w)] = struct{}{}
	}
	return terms
}

// ScoreRequirement scores one requirement against the achievements
// inventory. The best-scoring achievement wins; on an exact tie the first
// encountered in category order is kept, which keeps runs reproducible.
func ScoreRequirement(requirement string, achievements types.Achievements) types.RequirementMatch {
	reqLower := strings.ToLower(requirement)
	reqTerms := termSet(reqLower)
	directKeywords := directKeywordRe.FindAllString(requirement, -1)
	yearsReq := yearsRe.FindStringSubmatch(reqLower)

	var (
		bestScore    float64
		bestEvidence string
		bestCategory string
	)

	for _, category := range achievements.Categories {
		for _, item := range achievements.Items[category] {
			itemLower := strings.ToLower(item)
			itemTerms := termSet(itemLower)

			overlap := 0.0
			if len(reqTerms) > 0 && len(itemTerms) > 0 {
				common := 0
				for t := range reqTerms {
					if _, ok := itemTerms[t]; ok {
						common++
					}
				}
				overlap = float64(common) / float64(len(reqTerms))
			}

			for _, kw := range directKeywords {
				if strings.Contains(itemLower, strings.ToLower(kw)) {
					overlap += keywordBonus
				}
			}

			if yearsReq != nil {
				if yearsAch := yearsRe.FindStringSubmatch(itemLower); yearsAch != nil {
					if atoi(yearsAch[1]) >= atoi(yearsReq[1]) {
						overlap += yearsBonus
					}
				}
			}

			if overlap > bestScore {
				bestScore = overlap
				bestEvidence = item
				bestCategory = category
			}
		}
	}

	switch {
	case bestScore >= StrongMatchThreshold:
		return types.RequirementMatch{
			Requirement: requirement,
			MatchType:   types.MatchStrong,
			Evidence:    bestEvidence,
			Category:    bestCategory,
		}
	case bestScore >= PartialMatchThreshold:
		return types.RequirementMatch{
			Requirement: requirement,
			MatchType:   types.MatchPartial,
			Evidence:    bestEvidence,
			Category:    bestCategory,
		}
	default:
		return types.RequirementMatch{
			Requirement: requirement,
			MatchType:   types.MatchGap,
		}
	}
}

// CalculateOverallScore aggregates requirement matches into a tier. Partial
// matches count half toward the match percentage. An empty match list is a
// long shot at 0%, never a division by zero.
func CalculateOverallScore(matches []types.RequirementMatch) types.ScoreResult {
	if len(matches) == 0 {
		return types.ScoreResult{Overall: types.TierLongShot}
	}

	var strong, partial, gaps int
	for _, m := range matches {
		switch m.MatchType {
		case types.MatchStrong:
			strong++
		case types.MatchPartial:
			partial++
		default:
			gaps++
		}
	}

	matchPct := (float64(strong) + float64(partial)*0.5) / float64(len(matches))

	var overall types.Tier
	switch {
	case matchPct >= TierStrongPct && gaps <= TierStrongMaxGaps:
		overall = types.TierStrong
	case matchPct >= TierGoodPct && gaps <= TierGoodMaxGaps:
		overall = types.TierGood
	case matchPct >= TierStretchPct && gaps <= TierStretchMaxGaps:
		overall = types.TierStretch
	default:
		overall = types.TierLongShot
	}

	return types.ScoreResult{
		Overall:         overall,
		MatchPercentage: math.Round(matchPct*1000) / 10,
		StrongCount:     strong,
		PartialCount:    partial,
		GapCount:        gaps,
	}
}

// Employment-type detection windows around a contract keyword so that EEO
// boilerplate ("federal contractor", "affirmative action") does not mark a
// full-time role as contract work.
const (
	contractContextBefore = 80
	contractContextAfter  = 40
)

var (
	contractRe = regexp.MustCompile(`\b(?:contract|contractor|c2c|w2|1099)\b`)
	partTimeRe = regexp.MustCompile(`\b(?:part[- ]time)\b`)
	tempRe     = regexp.MustCompile(`\b(?:temporary|temp position|temp role)\b`)
	fullTimeRe = regexp.MustCompile(`\b(?:full[- ]time|permanent)\b`)
)

var eeoContextPhrases = []string{
	"federal contract", "government contract", "contract compliance",
	"subcontractor", "affirmative action",
}

// DetectEmploymentType classifies a posting as contract, part-time, temp
// or full-time from its description text. Full-time is the default when
// nothing signals otherwise.
func DetectEmploymentType(description string) types.EmploymentType {
	if description == "" {
		return types.EmploymentUnknown
	}

	lower := strings.ToLower(stripApplicationForm(description))

	if loc := contractRe.FindStringIndex(lower); loc != nil {
		start := loc[0] - contractContextBefore
		if start < 0 {
			start = 0
		}
		end := loc[1] + contractContextAfter
		if end > len(lower) {
			end = len(lower)
		}
		context := lower[start:end]
		eeoContext := false
		for _, phrase := range eeoContextPhrases {
			if strings.Contains(context, phrase) {
				eeoContext = true
				break
			}
		}
		if !eeoContext {
			return types.EmploymentContract
		}
	}

	if partTimeRe.MatchString(lower) {
		return types.EmploymentPartTime
	}
	if tempRe.MatchString(lower) {
		return types.EmploymentTemp
	}
	return types.EmploymentFullTime
}

var (
	remoteRe   = regexp.MustCompile(`\b(?:fully remote|100% remote|remote[- ]first|work from (?:home|anywhere))\b`)
	hybridRe   = regexp.MustCompile(`\bhybrid\b`)
	onsiteRe   = regexp.MustCompile(`\b(?:on[- ]?site|in[- ]?office|in[- ]?person)\b`)
	locationRe = regexp.MustCompile(`(?i)(?:location|based in|located in)[:\s]+([^\n.]{3,50})`)
)

// DetectLocationMatch assesses a posting's location against the preferred
// location. Geo matching is out of scope; only a remote preference against
// a clearly non-remote posting produces a mismatch.
func DetectLocationMatch(description string, prefs types.UserPreferences) types.LocationInfo {
	if description == "" {
		return types.LocationInfo{Match: true, Location: "Unknown", RemoteStatus: "unknown"}
	}

	lower := strings.ToLower(description)

	var remoteStatus string
	switch {
	case remoteRe.MatchString(lower):
		remoteStatus = "remote"
	case hybridRe.MatchString(lower):
		remoteStatus = "hybrid"
	case onsiteRe.MatchString(lower):
		remoteStatus = "onsite"
	default:
		remoteStatus = "unknown"
	}

	match := true
	if strings.Contains(strings.ToLower(prefs.Location), "remote") {
		match = remoteStatus == "remote" || remoteStatus == "unknown"
	}

	var location string
	if m := locationRe.FindStringSubmatch(description); m != nil {
		location = strings.TrimSpace(m[1])
	}

	return types.LocationInfo{Match: match, Location: location, RemoteStatus: remoteStatus}
}

// CheckAutoSkip applies the configured auto-skip rules to a scored lead.
// Returns the skip reason and true when the lead should be dropped from
// the ranked set.
func CheckAutoSkip(lead types.ScoredLead, rules types.AutoSkipRules) (string, bool) {
	if rules.MinScore != "" {
		if types.TierRank(lead.ScoreResult.Overall) > types.TierRank(rules.MinScore) {
			return fmt.Sprintf("Below minimum score threshold (%s < %s)",
				lead.ScoreResult.Overall, rules.MinScore), true
		}
	}

	for _, t := range rules.ExcludedEmploymentTypes {
		if lead.EmploymentType == t {
			return fmt.Sprintf("Employment type: %s (auto-skip rule)", t), true
		}
	}

	leadCompany := strings.TrimSpace(strings.ToLower(lead.Company))
	for _, c := range rules.ExcludedCompanies {
		if strings.TrimSpace(strings.ToLower(c)) == leadCompany {
			return "Company in exclusion list", true
		}
	}

	return "", false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
