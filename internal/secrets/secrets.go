// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key, the first line of
// the file (trimmed) is the value. The pipeline looks for
// gmail-app-password and supabase-service-key; other files are loaded
// as-is for future use.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxSecretSize guards against a stray large file ending up in the
// secrets directory.
const maxSecretSize = 4 << 10

// Load reads every secret file in dir into a key to value map. A missing
// directory, dotfiles, subdirectories, editor backups, and empty files
// are all skipped silently; an unreadable file produces a warning on
// stderr but does not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	loaded := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
			continue
		}

		value, err := readSecret(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value != "" {
			loaded[name] = value
		}
	}
	return loaded, nil
}

// readSecret returns the first line of the file, trimmed. Multi-line
// files (a trailing comment, say) only contribute their first line.
func readSecret(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxSecretSize {
		return "", fmt.Errorf("file exceeds %d bytes", maxSecretSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")
	return strings.TrimSpace(line), nil
}
