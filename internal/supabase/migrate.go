// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package supabase pushes the local application tree into a Supabase
// Postgres project: one applications row per folder, plus a match_scores
// row when the folder carries scoring data.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.yaml.in/yaml/v3"

	"github.com/jrhoades1/job-application-system/internal/apps"
)

const maxJobDescriptionLen = 50000

// DB is the subset of pgxpool.Pool the migrator needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Connect opens a connection pool for the given Postgres DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to supabase: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging supabase: %w", err)
	}
	return pool, nil
}

// Remote status vocabulary differs from the local one; anything without a
// translation lands in "evaluating".
var statusTranslation = map[string]string{
	apps.StatusPendingReview: "pending_review",
	apps.StatusToApply:       "ready_to_apply",
	apps.StatusApplied:       "applied",
	apps.StatusInterviewing:  "interviewing",
	apps.StatusOffer:         "offered",
	apps.StatusRejected:      "rejected",
	apps.StatusWithdrawn:     "withdrawn",
}

const defaultRemoteStatus = "evaluating"

// TranslateStatus maps a local application status to the remote
// vocabulary.
func TranslateStatus(local string) string {
	if remote, ok := statusTranslation[local]; ok {
		return remote
	}
	return defaultRemoteStatus
}

var validTailoring = map[string]bool{"light": true, "moderate": true, "heavy": true}

// ValidTailoring reports whether a tailoring intensity is accepted
// remotely; nil is always valid.
func ValidTailoring(intensity *string) bool {
	return intensity == nil || validTailoring[*intensity]
}

// Folder pairs an application folder with its parsed metadata.
type Folder struct {
	Name     string
	Path     string
	Metadata apps.Metadata
}

// LoadFolders scans the applications directory for folders carrying a
// metadata.yaml, in name order.
func LoadFolders(applicationsDir string) ([]Folder, error) {
	entries, err := os.ReadDir(applicationsDir)
	if err != nil {
		return nil, fmt.Errorf("reading applications dir: %w", err)
	}

	var folders []Folder
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(applicationsDir, entry.Name())
		data, err := os.ReadFile(filepath.Join(path, "metadata.yaml"))
		if err != nil {
			continue
		}
		var meta apps.Metadata
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("parsing metadata in %s: %w", entry.Name(), err)
		}
		folders = append(folders, Folder{Name: entry.Name(), Path: path, Metadata: meta})
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

// Result counts the outcome of a migration run.
type Result struct {
	Migrated int
	Scored   int
	Failed   int
}

// HasFailures reports whether any folder failed to migrate.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Migrator copies application folders into the remote applications and
// match_scores tables.
type Migrator struct {
	DB              DB
	UserID          string
	ApplicationsDir string
}

// Migrate pushes every application folder. Per-folder failures are
// counted and reported but do not stop the run.
func (m *Migrator) Migrate(ctx context.Context, w io.Writer) (Result, error) {
	folders, err := LoadFolders(m.ApplicationsDir)
	if err != nil {
		return Result{}, err
	}
	fmt.Fprintf(w, "  found %d applications to migrate\n", len(folders))

	var result Result
	for _, folder := range folders {
		appID, err := m.insertApplication(ctx, folder)
		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "  warning: %s: %v\n", folder.Name, err)
			continue
		}
		result.Migrated++

		if hasScore(folder.Metadata) {
			if err := m.insertMatchScore(ctx, appID, folder.Metadata); err != nil {
				result.Failed++
				fmt.Fprintf(w, "  warning: %s score: %v\n", folder.Name, err)
				continue
			}
			result.Scored++
		}
	}

	fmt.Fprintf(w, "  migrated %d applications, %d with scores, %d failures\n",
		result.Migrated, result.Scored, result.Failed)
	return result, nil
}

const insertApplicationSQL = `
INSERT INTO applications (
	clerk_user_id, company, role, location, compensation,
	applied_date, source, source_url, status, follow_up_date,
	contact, notes, resume_version, cover_letter, job_description,
	former_employer, tailoring_intensity, interview_date, interview_round,
	interview_type, interview_notes, rejection_date, rejection_reason,
	rejection_insights, offer, offer_accepted, learning_flags
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
	$21, $22, $23, $24, $25, $26, $27
) RETURNING id`

func (m *Migrator) insertApplication(ctx context.Context, folder Folder) (string, error) {
	meta := folder.Metadata

	jd := readJobDescription(folder.Path)

	tailoring := meta.TailoringIntensity
	if !ValidTailoring(tailoring) {
		tailoring = nil
	}

	var offer any
	if meta.Offer != (apps.Offer{}) {
		encoded, err := json.Marshal(meta.Offer)
		if err != nil {
			return "", fmt.Errorf("encoding offer: %w", err)
		}
		offer = string(encoded)
	}

	var id string
	err := m.DB.QueryRow(ctx, insertApplicationSQL,
		m.UserID,
		orUnknown(meta.Company),
		orUnknown(meta.Role),
		nullable(meta.Location),
		nullable(meta.Compensation),
		meta.AppliedDate,
		meta.Source,
		nullable(meta.SourceURL),
		TranslateStatus(meta.Status),
		meta.FollowUpDate,
		meta.Contact,
		meta.Notes,
		meta.ResumeVersion,
		meta.CoverLetter,
		nullable(jd),
		meta.FormerEmployer,
		tailoring,
		meta.InterviewDate,
		meta.InterviewRound,
		meta.InterviewType,
		meta.InterviewNotesFile,
		meta.RejectionDate,
		meta.RejectionReason,
		meta.RejectionInsights,
		offer,
		meta.OfferAccepted,
		meta.LearningFlags,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting application: %w", err)
	}
	return id, nil
}

const insertMatchScoreSQL = `
INSERT INTO match_scores (
	application_id, clerk_user_id, overall,
	strong_count, partial_count, gap_count,
	requirements_matched, requirements_partial, gaps,
	addressable_gaps, hard_gaps, keywords, red_flags
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
)`

var validOveralls = map[string]bool{"strong": true, "good": true, "stretch": true, "long_shot": true}

func hasScore(meta apps.Metadata) bool {
	return validOveralls[meta.MatchScore.Overall]
}

func (m *Migrator) insertMatchScore(ctx context.Context, appID string, meta apps.Metadata) error {
	score := meta.MatchScore

	matched, err := requirementObjects(score.RequirementsMatched)
	if err != nil {
		return err
	}
	partial, err := requirementObjects(score.RequirementsPartial)
	if err != nil {
		return err
	}
	gaps, err := json.Marshal(orEmpty(score.Gaps))
	if err != nil {
		return err
	}
	addressable, err := json.Marshal(orEmpty(score.AddressableGaps))
	if err != nil {
		return err
	}
	hard, err := json.Marshal(orEmpty(score.HardGaps))
	if err != nil {
		return err
	}

	_, err = m.DB.Exec(ctx, insertMatchScoreSQL,
		appID,
		m.UserID,
		score.Overall,
		len(score.RequirementsMatched),
		len(score.RequirementsPartial),
		len(score.Gaps),
		string(matched),
		string(partial),
		string(gaps),
		string(addressable),
		string(hard),
		orEmpty(score.Keywords),
		[]string{},
	)
	if err != nil {
		return fmt.Errorf("inserting match score: %w", err)
	}
	return nil
}

// requirementObjects wraps plain requirement strings in the structured
// form the remote schema stores.
func requirementObjects(items []string) ([]byte, error) {
	type reqObj struct {
		Requirement string `json:"requirement"`
	}
	objs := make([]reqObj, 0, len(items))
	for _, item := range items {
		objs = append(objs, reqObj{Requirement: item})
	}
	return json.Marshal(objs)
}

func readJobDescription(folderPath string) string {
	data, err := os.ReadFile(filepath.Join(folderPath, "job-description.md"))
	if err != nil {
		return ""
	}
	text := string(data)
	if len(text) > maxJobDescriptionLen {
		text = text[:maxJobDescriptionLen]
	}
	return text
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
