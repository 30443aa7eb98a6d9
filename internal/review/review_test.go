// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrhoades1/job-application-system/internal/apps"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

func rankedFixture() []types.ScoredLead {
	return []types.ScoredLead{
		{
			Rank:           1,
			Company:        "Acme",
			Role:           "VP of Engineering",
			SourcePlatform: "Linkedin",
			EmailUID:       "100",
			ScoreResult: types.ScoreResult{
				Overall: types.TierStrong, MatchPercentage: 90, StrongCount: 9, PartialCount: 1,
			},
			Matches: []types.RequirementMatch{
				{Requirement: "Team building experience", MatchType: types.MatchStrong},
				{Requirement: "HIPAA compliance", MatchType: types.MatchStrong},
			},
			LocationInfo:      types.LocationInfo{Match: true, RemoteStatus: "remote"},
			EmploymentType:    types.EmploymentFullTime,
			ApplicationFolder: "2026-08-29_acme_vp-of-engineering",
		},
		{
			Rank:           2,
			Company:        "Globex",
			Role:           "Staff Engineer",
			SourcePlatform: "Indeed",
			EmailUID:       "101",
			ScoreResult: types.ScoreResult{
				Overall: types.TierStretch, MatchPercentage: 45, GapCount: 2,
			},
			Matches: []types.RequirementMatch{
				{Requirement: "Rust systems programming", MatchType: types.MatchGap},
			},
			EmploymentType: types.EmploymentContract,
			RedFlags:       []string{"Expects overtime"},
		},
	}
}

func TestBuildQueue(t *testing.T) {
	generated := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	q := BuildQueue("2026-08-29_abc123", generated, rankedFixture(),
		nil, []types.SkippedLead{{Company: "Initech", Role: "Engineer", Reason: "no career page found"}})

	assert.Equal(t, "2026-08-29_abc123", q.BatchID)
	require.Len(t, q.Leads, 2)
	assert.Equal(t, []string{"Team building experience", "HIPAA compliance"}, q.Leads[0].TopMatches)
	assert.Equal(t, []string{"Rust systems programming"}, q.Leads[1].TopGaps)
	assert.Equal(t, "pending_review", q.Leads[0].Status)
	assert.Empty(t, q.AutoSkipped)
	require.Len(t, q.Unresolved, 1)
}

func TestMarkdownGroupsByTier(t *testing.T) {
	q := BuildQueue("batch", time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC), rankedFixture(),
		[]types.SkippedLead{{Company: "BadCorp", Role: "Any", Reason: "Company in exclusion list"}},
		[]types.SkippedLead{{Company: "Initech", Role: "Engineer", Reason: "no career page found"}})

	md := Markdown(q)

	strongIdx := bytes.Index([]byte(md), []byte("## Strong (1)"))
	stretchIdx := bytes.Index([]byte(md), []byte("## Stretch (1)"))
	require.GreaterOrEqual(t, strongIdx, 0)
	require.GreaterOrEqual(t, stretchIdx, 0)
	assert.Less(t, strongIdx, stretchIdx)

	assert.Contains(t, md, "[1] Acme: VP of Engineering")
	assert.Contains(t, md, "RED FLAGS")
	assert.Contains(t, md, "CONTRACT")
	assert.Contains(t, md, "## Unresolved (1)")
	assert.Contains(t, md, "## Auto-Skipped (1)")
	assert.Contains(t, md, "no career page found")
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	q := BuildQueue("batch", time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC), rankedFixture(), nil, nil)

	require.NoError(t, Save(dir, q))
	assert.FileExists(t, filepath.Join(dir, QueueFile))
	assert.FileExists(t, filepath.Join(dir, QueueMDFile))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, q.BatchID, loaded.BatchID)
	require.Len(t, loaded.Leads, 2)
	assert.Equal(t, q.Leads[0].Company, loaded.Leads[0].Company)
}

type scriptedSelector struct {
	choices []string
	calls   int
}

func (s *scriptedSelector) Select(string, []string) (string, error) {
	if s.calls >= len(s.choices) {
		return ActionQuit, nil
	}
	choice := s.choices[s.calls]
	s.calls++
	return choice, nil
}

func openTriageIndex(t *testing.T) *apps.Index {
	t.Helper()
	ix, err := apps.OpenIndex(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestTriageRun(t *testing.T) {
	ix := openTriageIndex(t)
	require.NoError(t, ix.Insert(apps.IndexEntry{
		Company: "Acme", Role: "VP of Engineering",
		Status: apps.StatusPendingReview, Folder: "2026-08-29_acme_vp-of-engineering",
	}))

	q := BuildQueue("batch", time.Now(), rankedFixture(), nil, nil)
	tr := &Triage{Index: ix, prompt: &scriptedSelector{choices: []string{ActionApply, ActionSkip}}}

	var buf bytes.Buffer
	result, err := tr.Run(&q, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, apps.StatusToApply, q.Leads[0].Status)
	assert.Equal(t, apps.StatusSkipped, q.Leads[1].Status)

	entry, err := ix.Lookup("Acme", "VP of Engineering")
	require.NoError(t, err)
	assert.Equal(t, apps.StatusToApply, entry.Status)
}

func TestTriageQuitLeavesRemainingPending(t *testing.T) {
	ix := openTriageIndex(t)
	q := BuildQueue("batch", time.Now(), rankedFixture(), nil, nil)
	tr := &Triage{Index: ix, prompt: &scriptedSelector{choices: []string{ActionQuit}}}

	var buf bytes.Buffer
	result, err := tr.Run(&q, &buf)
	require.NoError(t, err)

	assert.Zero(t, result.Applied)
	assert.Equal(t, "pending_review", q.Leads[0].Status)
	assert.Equal(t, "pending_review", q.Leads[1].Status)
}

func TestTriageSkipsNonPending(t *testing.T) {
	ix := openTriageIndex(t)
	q := BuildQueue("batch", time.Now(), rankedFixture(), nil, nil)
	q.Leads[0].Status = apps.StatusApplied

	sel := &scriptedSelector{choices: []string{ActionDefer}}
	tr := &Triage{Index: ix, prompt: sel}

	var buf bytes.Buffer
	result, err := tr.Run(&q, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, sel.calls)
	assert.Equal(t, 1, result.Deferred)
}
