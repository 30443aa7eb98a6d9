// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify audits the pipeline's on-disk state: staging artifacts
// against their schemas, and the application index against the tracker.
package verify

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jrhoades1/job-application-system/internal/apps"
	"github.com/jrhoades1/job-application-system/internal/staging"
)

// Report lists everything the audit found.
type Report struct {
	ArtifactsChecked int
	IndexEntries     int
	TrackerRows      int
	Problems         []string
}

// OK reports whether the audit found no problems.
func (r Report) OK() bool {
	return len(r.Problems) == 0
}

// Verifier holds the stores and registries to audit. Any nil store or
// registry is skipped, so partial setups can still be verified.
type Verifier struct {
	Raw     staging.Store
	Parsed  staging.Store
	Sourced staging.Store
	Scored  staging.Store

	Index   *apps.Index
	Tracker *apps.Tracker

	// ApplicationsDir enables folder existence checks for index entries.
	ApplicationsDir string
}

type stageSchema struct {
	name   string
	store  func(v *Verifier) staging.Store
	schema *gojsonschema.Schema
}

func mustSchema(raw string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(err)
	}
	return s
}

var stageSchemas = []stageSchema{
	{"raw", func(v *Verifier) staging.Store { return v.Raw }, mustSchema(rawEmailSchema)},
	{"parsed", func(v *Verifier) staging.Store { return v.Parsed }, mustSchema(parsedLeadsSchema)},
	{"sourced", func(v *Verifier) staging.Store { return v.Sourced }, mustSchema(sourcedResultSchema)},
	{"scored", func(v *Verifier) staging.Store { return v.Scored }, mustSchema(scoredLeadSchema)},
}

// Run audits everything configured and writes a summary to w.
func (v *Verifier) Run(w io.Writer) (Report, error) {
	var report Report

	for _, stage := range stageSchemas {
		store := stage.store(v)
		if store == nil {
			continue
		}
		if err := v.checkStage(stage, store, &report); err != nil {
			return report, err
		}
	}

	if v.Index != nil {
		if err := v.checkIndex(&report); err != nil {
			return report, err
		}
	}

	fmt.Fprintf(w, "  checked %d artifacts, %d index entries, %d tracker rows\n",
		report.ArtifactsChecked, report.IndexEntries, report.TrackerRows)
	if report.OK() {
		fmt.Fprintf(w, "  no problems found\n")
	} else {
		for _, p := range report.Problems {
			fmt.Fprintf(w, "  problem: %s\n", p)
		}
	}
	return report, nil
}

func (v *Verifier) checkStage(stage stageSchema, store staging.Store, report *Report) error {
	keys, err := store.Keys()
	if err != nil {
		return fmt.Errorf("listing %s artifacts: %w", stage.name, err)
	}

	for _, key := range keys {
		report.ArtifactsChecked++

		data, err := store.Read(key)
		if err != nil {
			report.addf("%s/%s: unreadable: %v", stage.name, key, err)
			continue
		}
		result, err := stage.schema.Validate(gojsonschema.NewBytesLoader(data))
		if err != nil {
			report.addf("%s/%s: not valid JSON: %v", stage.name, key, err)
			continue
		}
		for _, desc := range result.Errors() {
			report.addf("%s/%s: %s", stage.name, key, desc.String())
		}
	}
	return nil
}

// checkIndex cross-references the sqlite index against the tracker
// spreadsheet and, when configured, the folder tree.
func (v *Verifier) checkIndex(report *Report) error {
	entries, err := v.Index.Entries()
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}
	report.IndexEntries = len(entries)

	indexed := map[[2]string]bool{}
	for _, e := range entries {
		indexed[pairKey(e.Company, e.Role)] = true

		if !apps.IsValidStatus(e.Status) {
			report.addf("index: %s / %s: unknown status %q", e.Company, e.Role, e.Status)
		}
		if v.ApplicationsDir != "" && e.Folder != "" {
			if _, err := os.Stat(filepath.Join(v.ApplicationsDir, e.Folder)); err != nil {
				report.addf("index: %s / %s: folder %s missing on disk", e.Company, e.Role, e.Folder)
			}
		}
	}

	if v.Tracker == nil {
		return nil
	}
	rows, err := v.Tracker.Rows()
	if err != nil {
		return fmt.Errorf("reading tracker: %w", err)
	}
	report.TrackerRows = len(rows)

	tracked := map[[2]string]bool{}
	for i, row := range rows {
		if len(row) < 3 {
			report.addf("tracker row %d: too short", i+2)
			continue
		}
		tracked[pairKey(row[1], row[2])] = true
	}

	for _, e := range entries {
		if !tracked[pairKey(e.Company, e.Role)] {
			report.addf("tracker missing: %s / %s", e.Company, e.Role)
		}
	}
	for key := range tracked {
		if !indexed[key] {
			report.addf("index missing: %s / %s", key[0], key[1])
		}
	}
	return nil
}

func (r *Report) addf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

func pairKey(company, role string) [2]string {
	return [2]string{strings.ToLower(strings.TrimSpace(company)), strings.ToLower(strings.TrimSpace(role))}
}
