// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"

	"github.com/jrhoades1/job-application-system/internal/staging"
)

// Staging stage names under <pipeline_dir>/staging/.
const (
	stageRaw     = "raw"
	stageParsed  = "parsed"
	stageSourced = "sourced"
	stageScored  = "scored"
)

// secretsDir holds file-based secrets, one file per key.
const secretsDir = ".secrets/"

func stagingStore(stage string) (*staging.FileStore, error) {
	return staging.NewFileStore(filepath.Join(cfg.Paths.PipelineDir, "staging", stage))
}

func fingerprintsPath() string {
	return filepath.Join(cfg.Paths.PipelineDir, "fingerprints.json")
}

func lockPath() string {
	return filepath.Join(cfg.Paths.PipelineDir, "pipeline.lock")
}

func indexPath() string {
	return filepath.Join(cfg.Paths.ApplicationsDir, "index.db")
}
