// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

func templates() map[string]types.SenderTemplate {
	return types.DefaultSenderTemplates()
}

func TestClassifyLinkedInMulti(t *testing.T) {
	e := types.RawEmail{
		From:     "jobalerts-noreply@linkedin.com",
		Subject:  `"Platform Engineer": Acme Corp and 24 other jobs for you`,
		BodyText: "Platform Engineer\nAcme Corp · Remote\n\nSRE\nContoso · Seattle, WA",
	}
	assert.Equal(t, types.EmailMultiJob, Classify(e, templates()))
}

func TestClassifyLinkedInAndMoreSubject(t *testing.T) {
	e := types.RawEmail{
		From:     "jobalerts-noreply@email.linkedin.com",
		Subject:  "Platform Engineer at Acme and more",
		BodyText: "one posting here",
	}
	assert.Equal(t, types.EmailMultiJob, Classify(e, templates()))
}

func TestClassifySingleJobBoard(t *testing.T) {
	e := types.RawEmail{
		From:     "alert@indeed.com",
		Subject:  "Software Engineer at Contoso",
		BodyText: "Software Engineer\nContoso - Redmond, WA",
	}
	assert.Equal(t, types.EmailSingleJob, Classify(e, templates()))
}

func TestClassifyNotJobConnectionAccept(t *testing.T) {
	e := types.RawEmail{
		From:     "notifications@linkedin.com",
		Subject:  "Jane Doe accepted your invitation to connect",
		BodyText: "You are now connected with Jane Doe.",
	}
	assert.Equal(t, types.EmailNotJob, Classify(e, templates()))
}

func TestClassifyNotJobWindowCountsCharacters(t *testing.T) {
	// 900 two-byte characters put the unsubscribe footer past byte 1000
	// but inside the 1000-character window.
	e := types.RawEmail{
		From:     "news@digest.example.com",
		Subject:  "Weekly digest",
		BodyText: strings.Repeat("é", 900) + "\nUnsubscribe from these emails.",
	}
	assert.Equal(t, types.EmailNotJob, Classify(e, templates()))
}

func TestClassifyNotJobOverriddenBySpecificJob(t *testing.T) {
	// Non-job language loses when a concrete posting is also present.
	e := types.RawEmail{
		From:     "notifications@linkedin.com",
		Subject:  "Jane Doe accepted your invitation to connect",
		BodyText: "Also: VP of Engineering at Google. Apply now.",
	}
	got := Classify(e, templates())
	assert.NotEqual(t, types.EmailNotJob, got)
}

func TestClassifyRecruiterGeneric(t *testing.T) {
	e := types.RawEmail{
		From:     "sarah@talentreach.io",
		Subject:  "Exciting opportunity",
		BodyText: "Hi, I came across your profile and your background looks like a perfect fit.",
	}
	assert.Equal(t, types.EmailRecruiterGeneric, Classify(e, templates()))
}

func TestClassifyRecruiterWithSpecificJob(t *testing.T) {
	e := types.RawEmail{
		From:     "sarah@talentreach.io",
		Subject:  "Reaching out about a role",
		BodyText: "My client is hiring a Director of Platform Engineering at Northwind. Apply now.",
	}
	assert.Equal(t, types.EmailSingleJob, Classify(e, templates()))
}

func TestClassifyUnknown(t *testing.T) {
	e := types.RawEmail{
		From:     "someone@example.com",
		Subject:  "Lunch tomorrow?",
		BodyText: "Want to grab lunch?",
	}
	assert.Equal(t, types.EmailUnknown, Classify(e, templates()))
}

func TestClassifyForwardedUsesOriginalSender(t *testing.T) {
	e := types.RawEmail{
		From:    "friend@gmail.com",
		Subject: "Fwd: 25 new jobs for you",
		ForwardInfo: &types.ForwardInfo{
			IsForwarded:      true,
			OriginalFrom:     "jobalerts-noreply@linkedin.com",
			OriginalSubject:  `"Engineer": Acme and 24 other jobs for you`,
			OriginalBodyText: "Engineer\nAcme · Remote",
		},
	}
	assert.Equal(t, types.EmailMultiJob, Classify(e, templates()))
}

func TestClassifyInvisibleUnicodeStripped(t *testing.T) {
	// Zero-width runes injected mid-phrase must not defeat the indicator.
	e := types.RawEmail{
		From:     "jobalerts-noreply@linkedin.com",
		Subject:  "New roles this week",
		BodyText: "Acme and 12​ other jobs at top companies",
	}
	assert.Equal(t, types.EmailMultiJob, Classify(e, templates()))
}

func TestClassifyNoTemplatesFallsBack(t *testing.T) {
	e := types.RawEmail{
		From:     "alert@unknownboard.com",
		Subject:  "Staff Engineer at Fabrikam",
		BodyText: "Apply now",
	}
	assert.Equal(t, types.EmailSingleJob, Classify(e, map[string]types.SenderTemplate{}))
}
