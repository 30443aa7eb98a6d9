// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

func TestValidateTemplatesAcceptsDefaults(t *testing.T) {
	require.NoError(t, validateTemplates(types.DefaultConfig()))
}

func TestValidateTemplatesRejectsBadPattern(t *testing.T) {
	c := types.DefaultConfig()
	c.SenderTemplates["broken.example"] = types.SenderTemplate{
		SubjectPatterns: []string{`(?P<role>.+) at (?P<company`},
	}

	err := validateTemplates(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.example")
}

func TestValidateTemplatesRejectsBadIndicator(t *testing.T) {
	c := types.DefaultConfig()
	c.SenderTemplates["broken.example"] = types.SenderTemplate{
		MultiJobIndicator: `jobs (`,
	}

	err := validateTemplates(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multi-job indicator")
}
