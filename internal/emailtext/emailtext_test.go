// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emailtext

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

func TestHTMLToText(t *testing.T) {
	html := `<html><head><style>.x{color:red}</style></head><body>
<div>Senior Engineer</div>
<div>Acme Corp &middot; Remote</div>
<script>alert("no")</script>
<p>Apply now</p>
</body></html>`

	text := HTMLToText(html)
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "alert")
	assert.Contains(t, text, "Senior Engineer")

	lines := strings.Split(text, "\n")
	var found bool
	for _, l := range lines {
		if strings.Contains(l, "Acme Corp") && strings.Contains(l, "Remote") {
			found = true
		}
	}
	assert.True(t, found, "company and location should stay on one line")
}

func TestHTMLToTextEmpty(t *testing.T) {
	assert.Equal(t, "", HTMLToText(""))
}

func TestBodyTextPrefersPlain(t *testing.T) {
	assert.Equal(t, "plain", BodyText("plain", "<p>html</p>"))
	assert.Equal(t, "html", BodyText("", "<p>html</p>"))
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{"shorter than window", "abc", 10, "abc"},
		{"exact length", "abc", 3, "abc"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"multi-byte counted as one", "héllo", 2, "hé"},
		{"zero window", "abc", 0, ""},
		{"negative window", "abc", -1, ""},
		{"empty input", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prefix(tt.s, tt.n))
		})
	}
}

func TestPrefixNeverSplitsRunes(t *testing.T) {
	// 10 two-byte characters; a byte slice at any odd offset would
	// produce invalid UTF-8.
	s := strings.Repeat("é", 10)
	for n := 0; n <= 12; n++ {
		got := Prefix(s, n)
		assert.True(t, utf8.ValidString(got), "n=%d", n)
	}
	assert.Equal(t, strings.Repeat("é", 7), Prefix(s, 7))
}

func TestSenderDomain(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"Joe Smith <joe@linkedin.com>", "linkedin.com"},
		{"jobalerts-noreply@email.linkedin.com", "linkedin.com"},
		{"noreply@indeed.com", "indeed.com"},
		{"alerts@mail.jobs.example.co", "example.co"},
		{"no address here", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SenderDomain(tt.from), tt.from)
	}
}

func TestSenderName(t *testing.T) {
	assert.Equal(t, "Joe Smith", SenderName(`"Joe Smith" <joe@example.com>`))
	assert.Equal(t, "LinkedIn Jobs", SenderName("LinkedIn Jobs <jobs@linkedin.com>"))
	assert.Equal(t, "", SenderName("bare@example.com"))
}

func TestDetectForwardGmail(t *testing.T) {
	body := `FYI, this looks interesting.

---------- Forwarded message ---------
From: LinkedIn Job Alerts <jobalerts-noreply@linkedin.com>
Date: Mon, Jan 5, 2026 at 9:00 AM
Subject: Platform Engineer at Northwind
To: me@gmail.com

Platform Engineer
Northwind · Seattle, WA
`

	info := DetectForward("friend@gmail.com", "Fwd: Platform Engineer at Northwind", body)
	require.True(t, info.IsForwarded)
	assert.Equal(t, "LinkedIn Job Alerts <jobalerts-noreply@linkedin.com>", info.OriginalFrom)
	assert.Equal(t, "Platform Engineer at Northwind", info.OriginalSubject)
	assert.Equal(t, "friend@gmail.com", info.ForwardWrapperFrom)
	assert.Contains(t, info.OriginalBodyText, "Northwind · Seattle")
	assert.NotContains(t, info.OriginalBodyText, "Forwarded message")
}

func TestDetectForwardOutlook(t *testing.T) {
	body := `From: Indeed <alert@indeed.com>
Sent: Tuesday, January 6, 2026 8:15 AM
To: me@outlook.com
Subject: New jobs for software engineer

Software Engineer
Contoso - Redmond, WA
`

	info := DetectForward("me@outlook.com", "FW: New jobs for software engineer", body)
	require.True(t, info.IsForwarded)
	assert.Equal(t, "Indeed <alert@indeed.com>", info.OriginalFrom)
	assert.Equal(t, "New jobs for software engineer", info.OriginalSubject)
	assert.Contains(t, info.OriginalBodyText, "Contoso")
}

func TestDetectForwardSubjectOnly(t *testing.T) {
	info := DetectForward("friend@gmail.com", "Fwd: Staff Engineer at Acme", "no quoting headers here")
	assert.True(t, info.IsForwarded)
	assert.Equal(t, "Staff Engineer at Acme", info.OriginalSubject)
	// No body header to recover a sender from.
	assert.Equal(t, "friend@gmail.com", info.OriginalFrom)
}

func TestDetectForwardNotForwarded(t *testing.T) {
	info := DetectForward("alert@indeed.com", "New jobs for you", "Software Engineer\nContoso")
	assert.False(t, info.IsForwarded)
	assert.Equal(t, "alert@indeed.com", info.OriginalFrom)
	assert.Equal(t, "New jobs for you", info.OriginalSubject)
}

func TestEffectiveFrom(t *testing.T) {
	e := types.RawEmail{From: "friend@gmail.com"}
	assert.Equal(t, "friend@gmail.com", EffectiveFrom(e))

	e.ForwardInfo = &types.ForwardInfo{
		IsForwarded:  true,
		OriginalFrom: "alert@linkedin.com",
	}
	assert.Equal(t, "alert@linkedin.com", EffectiveFrom(e))
}

func TestParseRFC822Multipart(t *testing.T) {
	raw := []byte("From: alert@indeed.com\r\n" +
		"Subject: =?UTF-8?Q?New_jobs_=E2=80=93_engineer?=\r\n" +
		"Message-ID: <abc123@indeed.com>\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=\"XYZ\"\r\n" +
		"\r\n" +
		"--XYZ\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Software Engineer at Contoso\r\n" +
		"--XYZ\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p>Software Engineer at Contoso</p>\r\n" +
		"--XYZ--\r\n")

	messageID, bodyText, bodyHTML, subject := ParseRFC822(raw, "fallback")
	assert.Equal(t, "<abc123@indeed.com>", messageID)
	assert.Contains(t, bodyText, "Software Engineer at Contoso")
	assert.Contains(t, bodyHTML, "<p>")
	assert.Equal(t, "New jobs – engineer", subject)
}

func TestParseRFC822Garbage(t *testing.T) {
	_, bodyText, _, subject := ParseRFC822([]byte("not an rfc822 message"), "fallback")
	assert.Equal(t, "fallback", subject)
	assert.NotEmpty(t, bodyText)
}
