// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package supabase

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/jrhoades1/job-application-system/internal/apps"
)

func TestTranslateStatus(t *testing.T) {
	tests := []struct{ local, remote string }{
		{apps.StatusPendingReview, "pending_review"},
		{apps.StatusToApply, "ready_to_apply"},
		{apps.StatusOffer, "offered"},
		{apps.StatusRejected, "rejected"},
		{apps.StatusSkipped, "evaluating"},
		{"", "evaluating"},
		{"bogus", "evaluating"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.remote, TranslateStatus(tt.local), tt.local)
	}
}

func TestValidTailoring(t *testing.T) {
	light := "light"
	bogus := "maximal"
	assert.True(t, ValidTailoring(nil))
	assert.True(t, ValidTailoring(&light))
	assert.False(t, ValidTailoring(&bogus))
}

func writeFolder(t *testing.T, dir, name string, meta apps.Metadata, jd string) {
	t.Helper()
	folder := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(folder, 0o755))
	data, err := yaml.Marshal(meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(folder, "metadata.yaml"), data, 0o644))
	if jd != "" {
		require.NoError(t, os.WriteFile(filepath.Join(folder, "job-description.md"), []byte(jd), 0o644))
	}
}

func TestLoadFolders(t *testing.T) {
	dir := t.TempDir()
	writeFolder(t, dir, "2026-08-29_acme_engineer", apps.Metadata{Company: "Acme", Role: "Engineer"}, "")
	writeFolder(t, dir, "2026-01-01_globex_analyst", apps.Metadata{Company: "Globex", Role: "Analyst"}, "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "no-metadata"), 0o755))

	folders, err := LoadFolders(dir)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "2026-01-01_globex_analyst", folders[0].Name)
	assert.Equal(t, "Acme", folders[1].Metadata.Company)
}

type fakeRow struct {
	id  string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.id
	return nil
}

type fakeDB struct {
	queryArgs [][]any
	execArgs  [][]any
	rowErr    error
}

func (db *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	db.queryArgs = append(db.queryArgs, args)
	return fakeRow{id: "app-1", err: db.rowErr}
}

func (db *fakeDB) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	db.execArgs = append(db.execArgs, args)
	return pgconn.CommandTag{}, nil
}

func TestMigrate(t *testing.T) {
	dir := t.TempDir()
	writeFolder(t, dir, "2026-08-29_acme_engineer", apps.Metadata{
		Company: "Acme",
		Role:    "Engineer",
		Status:  apps.StatusToApply,
		MatchScore: apps.MatchScore{
			Overall:             "good",
			RequirementsMatched: []string{"Team building"},
			Gaps:                []string{"Rust"},
			Keywords:            []string{"AWS"},
		},
	}, "# Engineer, Acme\n\nBuild things.")
	writeFolder(t, dir, "2026-08-29_globex_analyst", apps.Metadata{
		Company: "Globex", Role: "Analyst", Status: apps.StatusPendingReview,
	}, "")

	db := &fakeDB{}
	m := &Migrator{DB: db, UserID: "user-1", ApplicationsDir: dir}

	var buf bytes.Buffer
	result, err := m.Migrate(context.Background(), &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Migrated)
	assert.Equal(t, 1, result.Scored)
	assert.Zero(t, result.Failed)
	require.Len(t, db.queryArgs, 2)
	require.Len(t, db.execArgs, 1)

	// The scored insert carries the structured requirement JSON.
	scoreArgs := db.execArgs[0]
	assert.Equal(t, "app-1", scoreArgs[0])
	assert.Equal(t, "good", scoreArgs[2])
	assert.Equal(t, 1, scoreArgs[3])
	assert.JSONEq(t, `[{"requirement":"Team building"}]`, scoreArgs[6].(string))
	assert.JSONEq(t, `["Rust"]`, scoreArgs[8].(string))

	// First application row: status translated, description attached.
	appArgs := db.queryArgs[0]
	assert.Equal(t, "user-1", appArgs[0])
	assert.Equal(t, "ready_to_apply", appArgs[8])
	assert.Contains(t, appArgs[14].(string), "Build things.")
}

func TestMigrateCountsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFolder(t, dir, "2026-08-29_acme_engineer", apps.Metadata{Company: "Acme", Role: "Engineer"}, "")

	db := &fakeDB{rowErr: assert.AnError}
	m := &Migrator{DB: db, UserID: "user-1", ApplicationsDir: dir}

	var buf bytes.Buffer
	result, err := m.Migrate(context.Background(), &buf)
	require.NoError(t, err)

	assert.Zero(t, result.Migrated)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
}
