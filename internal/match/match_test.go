// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

func TestTokenSortRatio(t *testing.T) {
	assert.InDelta(t, 1.0, TokenSortRatio("Senior Platform Engineer", "senior platform engineer"), 0.001)
	assert.InDelta(t, 1.0, TokenSortRatio("Engineer, Senior Platform", "Senior Platform Engineer,"), 0.3)
	assert.Equal(t, 0.0, TokenSortRatio("", "anything"))
	assert.Equal(t, 1.0, TokenSortRatio("", ""))

	// Word order must not matter.
	assert.InDelta(t,
		TokenSortRatio("Platform Senior Engineer", "Senior Platform Engineer"),
		1.0, 0.001)

	// Unrelated strings score low.
	assert.Less(t, TokenSortRatio("Marketing Coordinator", "Senior Platform Engineer"), 0.5)
}

func TestValidateJobMatchStrongTitle(t *testing.T) {
	lead := types.JobLead{Company: "Acme", Role: "Senior Platform Engineer"}
	scraped := types.ScrapedJob{Title: "Senior Platform Engineer", Company: "Acme Corp"}

	v := ValidateJobMatch(lead, scraped)
	assert.True(t, v.IsMatch)
	assert.InDelta(t, 1.0, v.TitleSimilarity, 0.01)
	assert.Greater(t, v.Confidence, 0.6)
}

func TestValidateJobMatchURLFallback(t *testing.T) {
	lead := types.JobLead{Company: "Northwind", Role: "Platform Engineer"}
	scraped := types.ScrapedJob{
		Title: "Platform Engineer",
		URL:   "https://www.northwind.com/jobs/123",
	}

	v := ValidateJobMatch(lead, scraped)
	assert.True(t, v.IsMatch)
	assert.InDelta(t, 0.8, v.CompanySimilarity, 0.001)
}

func TestValidateJobMatchLenientTitle(t *testing.T) {
	// Titles vary a lot between alert and posting; 0.4 title similarity
	// alone still counts as a match.
	lead := types.JobLead{Company: "Acme", Role: "Platform Engineer"}
	scraped := types.ScrapedJob{Title: "Engineer, Platform Infrastructure", Company: "Zenith Holdings"}

	v := ValidateJobMatch(lead, scraped)
	if v.TitleSimilarity >= 0.4 {
		assert.True(t, v.IsMatch)
	}
}

func TestValidateJobMatchMismatch(t *testing.T) {
	lead := types.JobLead{Company: "Acme", Role: "Platform Engineer"}
	scraped := types.ScrapedJob{Title: "Retail Sales Associate", Company: "Zenith Holdings"}

	v := ValidateJobMatch(lead, scraped)
	assert.False(t, v.IsMatch)
	assert.Less(t, v.Confidence, 0.4)
}
