// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders scored leads for review.
package rank

import (
	"sort"
	"strings"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

// RankJobs orders scored leads for user review and assigns 1-based ranks.
//
// Primary: score tier (strong > good > stretch > long_shot)
// Secondary: match percentage, descending
// Tertiary: gap count, ascending
// Tiebreaker: company name, case-insensitive alphabetical
//
// The sort is stable, so leads equal on all four keys keep their input
// order. The input slice is not modified.
func RankJobs(leads []types.ScoredLead) []types.ScoredLead {
	ranked := make([]types.ScoredLead, len(leads))
	copy(ranked, leads)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		ra, rb := types.TierRank(a.ScoreResult.Overall), types.TierRank(b.ScoreResult.Overall)
		if ra != rb {
			return ra < rb
		}
		if a.ScoreResult.MatchPercentage != b.ScoreResult.MatchPercentage {
			return a.ScoreResult.MatchPercentage > b.ScoreResult.MatchPercentage
		}
		if a.ScoreResult.GapCount != b.ScoreResult.GapCount {
			return a.ScoreResult.GapCount < b.ScoreResult.GapCount
		}
		return strings.ToLower(a.Company) < strings.ToLower(b.Company)
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Distribution counts ranked leads per tier.
func Distribution(leads []types.ScoredLead) map[types.Tier]int {
	dist := map[types.Tier]int{}
	for _, lead := range leads {
		dist[lead.ScoreResult.Overall]++
	}
	return dist
}
