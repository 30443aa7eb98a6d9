// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apps manages the application folder tree: one folder per
// (company, role) with a metadata.yaml and the scraped job description,
// mirrored into a sqlite index and a spreadsheet tracker.
package apps

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.yaml.in/yaml/v3"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

const maxSlugLen = 60

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe    = regexp.MustCompile(`[\s_]+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// Slugify converts text to a filesystem-friendly slug, capped at 60
// characters.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return s
}

// FolderName builds the application folder name: date_company_role.
func FolderName(date time.Time, company, role string) string {
	return fmt.Sprintf("%s_%s_%s", date.Format("2006-01-02"), Slugify(company), Slugify(role))
}

// Created summarizes one newly created application folder.
type Created struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Folder  string `json:"folder"`
	Score   types.Tier
}

// Creator writes application folder stubs for ranked leads, deduplicating
// against the index.
type Creator struct {
	ApplicationsDir string
	Index           *Index

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// CreateStubs creates one application folder per lead not already tracked.
// Leads already in the index are annotated: rejected or withdrawn
// applications get a re-apply note but still produce a folder, anything
// else is marked as a dedup skip. The returned slice is an annotated copy
// of the input; the second value lists the folders actually created.
func (c *Creator) CreateStubs(ranked []types.ScoredLead) ([]types.ScoredLead, []Created, error) {
	if err := os.MkdirAll(c.ApplicationsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating applications dir: %w", err)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	today := now()

	leads := make([]types.ScoredLead, len(ranked))
	copy(leads, ranked)

	var created []Created
	for i := range leads {
		lead := &leads[i]
		company := orUnknown(lead.Company)
		role := orUnknown(lead.Role)

		existing, err := c.Index.Lookup(company, role)
		if err != nil {
			return nil, nil, fmt.Errorf("index lookup for %s / %s: %w", company, role, err)
		}
		if existing != nil {
			if existing.Status == StatusRejected || existing.Status == StatusWithdrawn {
				lead.DedupNote = fmt.Sprintf("Previously %s, consider re-applying?", existing.Status)
			} else {
				lead.DedupNote = fmt.Sprintf("Already tracked as '%s'", existing.Status)
				lead.SkippedDedup = true
				continue
			}
		}

		folderName := FolderName(today, company, role)
		folderPath := filepath.Join(c.ApplicationsDir, folderName)
		if _, err := os.Stat(folderPath); err == nil {
			lead.DedupNote = "Folder already exists"
			lead.SkippedDedup = true
			continue
		}

		if err := c.writeFolder(folderPath, *lead, today); err != nil {
			return nil, nil, err
		}
		lead.ApplicationFolder = folderName

		if err := c.Index.Insert(IndexEntry{
			Company: company,
			Role:    role,
			Status:  StatusPendingReview,
			Folder:  folderName,
		}); err != nil {
			return nil, nil, fmt.Errorf("indexing %s: %w", folderName, err)
		}

		created = append(created, Created{
			Company: company,
			Role:    role,
			Folder:  folderName,
			Score:   lead.ScoreResult.Overall,
		})
	}

	return leads, created, nil
}

func (c *Creator) writeFolder(folderPath string, lead types.ScoredLead, today time.Time) error {
	if err := os.MkdirAll(folderPath, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", folderPath, err)
	}

	meta := NewMetadata(lead, today)
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folderPath, "metadata.yaml"), data, 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	if lead.DescriptionText != "" {
		var b strings.Builder
		fmt.Fprintf(&b, "# %s, %s\n\n", lead.Role, lead.Company)
		fmt.Fprintf(&b, "**Source:** Email pipeline (%s)\n", orUnknown(lead.SourcePlatform))
		fmt.Fprintf(&b, "**Career Page:** %s\n", orDefault(lead.CareerPageURL, "N/A"))
		fmt.Fprintf(&b, "**Scraped:** %s\n\n---\n\n", today.Format("2006-01-02"))
		b.WriteString(lead.DescriptionText)
		if err := os.WriteFile(filepath.Join(folderPath, "job-description.md"), []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("writing job description: %w", err)
		}
	}

	return nil
}

// WithLock runs fn while holding an exclusive advisory file lock, so
// concurrent pipeline runs never interleave index and tracker writes.
func WithLock(lockPath string, fn func() error) error {
	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquiring lock %s: %w", lockPath, err)
	}
	defer lock.Unlock()
	return fn()
}

func orUnknown(s string) string {
	return orDefault(s, "Unknown")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
