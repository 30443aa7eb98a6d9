// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

func scoredLead(company string, tier types.Tier, pct float64, gaps int) types.ScoredLead {
	return types.ScoredLead{
		Company: company,
		ScoreResult: types.ScoreResult{
			Overall:         tier,
			MatchPercentage: pct,
			GapCount:        gaps,
		},
	}
}

func TestRankJobsOrdering(t *testing.T) {
	leads := []types.ScoredLead{
		scoredLead("C", types.TierStretch, 50, 2),
		scoredLead("A", types.TierStrong, 90, 0),
		scoredLead("B", types.TierGood, 70, 1),
	}

	ranked := RankJobs(leads)

	require.Len(t, ranked, 3)
	assert.Equal(t, "A", ranked[0].Company)
	assert.Equal(t, "B", ranked[1].Company)
	assert.Equal(t, "C", ranked[2].Company)
}

func TestRankJobsTiebreakerMatchPercentage(t *testing.T) {
	leads := []types.ScoredLead{
		scoredLead("B", types.TierGood, 65, 1),
		scoredLead("A", types.TierGood, 75, 1),
	}

	ranked := RankJobs(leads)
	assert.Equal(t, "A", ranked[0].Company)
}

func TestRankJobsTiebreakerGapCount(t *testing.T) {
	leads := []types.ScoredLead{
		scoredLead("B", types.TierGood, 70, 2),
		scoredLead("A", types.TierGood, 70, 0),
	}

	ranked := RankJobs(leads)
	assert.Equal(t, "A", ranked[0].Company)
}

func TestRankJobsTiebreakerCompany(t *testing.T) {
	leads := []types.ScoredLead{
		scoredLead("zeta", types.TierGood, 70, 1),
		scoredLead("Alpha", types.TierGood, 70, 1),
	}

	ranked := RankJobs(leads)
	assert.Equal(t, "Alpha", ranked[0].Company)
}

func TestRankJobsAssignsRanks(t *testing.T) {
	leads := []types.ScoredLead{
		scoredLead("A", types.TierStrong, 90, 0),
		scoredLead("B", types.TierGood, 70, 1),
	}

	ranked := RankJobs(leads)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankJobsDoesNotModifyInput(t *testing.T) {
	leads := []types.ScoredLead{
		scoredLead("B", types.TierGood, 70, 1),
		scoredLead("A", types.TierStrong, 90, 0),
	}

	RankJobs(leads)
	assert.Equal(t, "B", leads[0].Company)
	assert.Zero(t, leads[0].Rank)
}

func TestDistribution(t *testing.T) {
	leads := []types.ScoredLead{
		scoredLead("A", types.TierStrong, 90, 0),
		scoredLead("B", types.TierGood, 70, 1),
		scoredLead("C", types.TierGood, 65, 1),
	}

	dist := Distribution(leads)
	assert.Equal(t, 1, dist[types.TierStrong])
	assert.Equal(t, 2, dist[types.TierGood])
}
