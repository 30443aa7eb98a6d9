// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apps

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Acme Health, Inc.", "acme-health-inc"},
		{"VP of Engineering", "vp-of-engineering"},
		{"Senior Engineer (Platform)", "senior-engineer-platform"},
		{"  spaced   out  ", "spaced-out"},
		{"under_scores_too", "under-scores-too"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := Slugify("this is an extremely long role title that keeps going well past any reasonable length")
	assert.LessOrEqual(t, len(long), 60)
}

func TestFolderName(t *testing.T) {
	date := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-29_acme_vp-of-engineering",
		FolderName(date, "Acme", "VP of Engineering"))
}

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := OpenIndex(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestIndexLookup(t *testing.T) {
	ix := openTestIndex(t)

	require.NoError(t, ix.Insert(IndexEntry{
		Company: "Google", Role: "VP Engineering",
		Status: StatusApplied, Folder: "2026-01-01_google_vp-engineering",
	}))

	found, err := ix.Lookup("Google", "VP Engineering")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, StatusApplied, found.Status)

	// Case-insensitive with whitespace ignored.
	found, err = ix.Lookup("  google ", "vp engineering")
	require.NoError(t, err)
	assert.NotNil(t, found)

	missing, err := ix.Lookup("Amazon", "SDE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIndexUpdateStatus(t *testing.T) {
	ix := openTestIndex(t)

	require.NoError(t, ix.Insert(IndexEntry{
		Company: "Acme", Role: "Engineer",
		Status: StatusPendingReview, Folder: "2026-08-29_acme_engineer",
	}))

	require.NoError(t, ix.UpdateStatus("2026-08-29_acme_engineer", StatusToApply))
	found, err := ix.Lookup("Acme", "Engineer")
	require.NoError(t, err)
	assert.Equal(t, StatusToApply, found.Status)

	assert.Error(t, ix.UpdateStatus("2026-08-29_acme_engineer", "bogus"))
	assert.Error(t, ix.UpdateStatus("no-such-folder", StatusApplied))
}

func rankedLead(company, role string) types.ScoredLead {
	return types.ScoredLead{
		Company:         company,
		Role:            role,
		SourcePlatform:  "Linkedin",
		EmailUID:        "100",
		RawSubject:      "New role for you",
		Confidence:      0.85,
		CareerPageURL:   "https://example.com/jobs/1",
		DescriptionText: "Build the platform team.",
		ScoreResult:     types.ScoreResult{Overall: types.TierGood, MatchPercentage: 70},
		Matches: []types.RequirementMatch{
			{Requirement: "Team building", MatchType: types.MatchStrong, Evidence: "Built a team"},
			{Requirement: "Quantum computing", MatchType: types.MatchGap},
		},
		EmploymentType: types.EmploymentFullTime,
		LocationInfo:   types.LocationInfo{Match: true, Location: "Remote", RemoteStatus: "remote"},
		PipelineBatch:  "2026-08-29_abc123",
	}
}

func TestCreateStubs(t *testing.T) {
	dir := t.TempDir()
	ix := openTestIndex(t)
	c := &Creator{
		ApplicationsDir: dir,
		Index:           ix,
		Now:             func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) },
	}

	leads, created, err := c.CreateStubs([]types.ScoredLead{rankedLead("Acme", "VP of Engineering")})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "2026-08-29_acme_vp-of-engineering", created[0].Folder)
	assert.Equal(t, created[0].Folder, leads[0].ApplicationFolder)

	folder := filepath.Join(dir, created[0].Folder)

	data, err := os.ReadFile(filepath.Join(folder, "metadata.yaml"))
	require.NoError(t, err)
	var meta Metadata
	require.NoError(t, yaml.Unmarshal(data, &meta))
	assert.Equal(t, "Acme", meta.Company)
	assert.Equal(t, StatusPendingReview, meta.Status)
	assert.Equal(t, "good", meta.MatchScore.Overall)
	assert.Equal(t, []string{"Team building"}, meta.MatchScore.RequirementsMatched)
	assert.Equal(t, []string{"Quantum computing"}, meta.MatchScore.Gaps)
	assert.Nil(t, meta.AppliedDate)

	jd, err := os.ReadFile(filepath.Join(folder, "job-description.md"))
	require.NoError(t, err)
	assert.Contains(t, string(jd), "# VP of Engineering, Acme")
	assert.Contains(t, string(jd), "Build the platform team.")

	entry, err := ix.Lookup("Acme", "VP of Engineering")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, StatusPendingReview, entry.Status)
}

func TestCreateStubsDedup(t *testing.T) {
	dir := t.TempDir()
	ix := openTestIndex(t)
	c := &Creator{ApplicationsDir: dir, Index: ix}

	_, created, err := c.CreateStubs([]types.ScoredLead{rankedLead("Acme", "VP of Engineering")})
	require.NoError(t, err)
	require.Len(t, created, 1)

	leads, created, err := c.CreateStubs([]types.ScoredLead{rankedLead("Acme", "VP of Engineering")})
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.True(t, leads[0].SkippedDedup)
	assert.Contains(t, leads[0].DedupNote, "Already tracked")
}

func TestCreateStubsRejectedGetsReapplyNote(t *testing.T) {
	dir := t.TempDir()
	ix := openTestIndex(t)
	require.NoError(t, ix.Insert(IndexEntry{
		Company: "Acme", Role: "Staff Engineer",
		Status: StatusRejected, Folder: "2026-01-01_acme_staff-engineer",
	}))

	c := &Creator{
		ApplicationsDir: dir,
		Index:           ix,
		Now:             func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) },
	}

	leads, created, err := c.CreateStubs([]types.ScoredLead{rankedLead("Acme", "Staff Engineer")})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.False(t, leads[0].SkippedDedup)
	assert.Contains(t, leads[0].DedupNote, "Previously rejected")
}

func TestTrackerAppend(t *testing.T) {
	tracker := &Tracker{Path: filepath.Join(t.TempDir(), "tracker.xlsx")}

	added, err := tracker.Append([]Created{
		{Company: "Acme", Role: "VP of Engineering", Folder: "f1", Score: types.TierGood},
		{Company: "Globex", Role: "Staff Engineer", Folder: "f2", Score: types.TierLongShot},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	rows, err := tracker.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0][1])
	assert.Equal(t, "Pending Review", rows[0][4])
	assert.Equal(t, "Long Shot", rows[1][5])

	// Re-appending the same pair is a no-op.
	added, err = tracker.Append([]Created{
		{Company: "acme", Role: "vp of engineering", Folder: "f1", Score: types.TierGood},
	})
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestWithLock(t *testing.T) {
	ran := false
	err := WithLock(filepath.Join(t.TempDir(), "pipeline.lock"), func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}
