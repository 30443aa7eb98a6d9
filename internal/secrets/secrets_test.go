// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, "gmail-app-password", "  abcd efgh ijkl mnop  \n")
				writeSecret(t, dir, "supabase-service-key", "sb_secret_123")
				return dir
			},
			want: map[string]string{
				"gmail-app-password":   "abcd efgh ijkl mnop",
				"supabase-service-key": "sb_secret_123",
			},
		},
		{
			name: "multi-line file contributes only its first line",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, "gmail-app-password", "real-password\nrotated 2026-08\n")
				return dir
			},
			want: map[string]string{
				"gmail-app-password": "real-password",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty and whitespace-only files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, "supabase-service-key", "valid-key")
				writeSecret(t, dir, "empty-key", "")
				writeSecret(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"supabase-service-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles, backups, and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, ".gitkeep", "")
				writeSecret(t, dir, ".hidden-key", "secret")
				writeSecret(t, dir, "gmail-app-password~", "stale")
				writeSecret(t, dir, "gmail-app-password", "current")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"gmail-app-password": "current",
			},
		},
		{
			name: "skips oversized files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, "gmail-app-password", "ok")
				writeSecret(t, dir, "huge", strings.Repeat("x", maxSecretSize+1))
				return dir
			},
			want: map[string]string{
				"gmail-app-password": "ok",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	assert.NotContains(t, got, "bad-key")
}

func writeSecret(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
