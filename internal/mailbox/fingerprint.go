// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mailbox

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrhoades1/job-application-system/internal/emailtext"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

// Fingerprint returns a short content hash of an email: sender, subject
// and the first 500 body characters. It catches the same alert forwarded
// twice, which arrives under two different UIDs.
func Fingerprint(e types.RawEmail) string {
	body := e.BodyText
	if body == "" {
		body = e.BodyHTML
	}
	body = emailtext.Prefix(body, 500)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", e.From, e.Subject, body)))
	return fmt.Sprintf("%x", sum)[:16]
}

// FingerprintIndex maps content fingerprints to the UID that first
// carried them. Persisted as pipeline/fingerprints.json.
type FingerprintIndex struct {
	path string
	seen map[string]string
}

// LoadFingerprints reads the index at path, returning an empty index when
// the file does not exist yet.
func LoadFingerprints(path string) (*FingerprintIndex, error) {
	idx := &FingerprintIndex{path: path, seen: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("reading fingerprint index: %w", err)
	}
	if err := json.Unmarshal(data, &idx.seen); err != nil {
		return nil, fmt.Errorf("decoding fingerprint index %s: %w", path, err)
	}
	return idx, nil
}

// Seen reports whether fp is already in the index.
func (x *FingerprintIndex) Seen(fp string) bool {
	_, ok := x.seen[fp]
	return ok
}

// SeenUID reports whether any fingerprint maps to uid.
func (x *FingerprintIndex) SeenUID(uid string) bool {
	for _, u := range x.seen {
		if u == uid {
			return true
		}
	}
	return false
}

// Add records fp as carried by uid.
func (x *FingerprintIndex) Add(fp, uid string) {
	x.seen[fp] = uid
}

// Save writes the index back to its file.
func (x *FingerprintIndex) Save() error {
	if err := os.MkdirAll(filepath.Dir(x.path), 0o755); err != nil {
		return fmt.Errorf("creating fingerprint directory: %w", err)
	}
	data, err := json.MarshalIndent(x.seen, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding fingerprint index: %w", err)
	}
	return os.WriteFile(x.path, data, 0o644)
}
