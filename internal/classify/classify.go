// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify sorts raw emails into lead-extraction routes. The
// classifier is a pure function over the email and the sender templates;
// it never fails, it degrades to unknown.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jrhoades1/job-application-system/internal/emailtext"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

var nonJobPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)unsubscribe`),
	regexp.MustCompile(`(?i)weekly digest`),
	regexp.MustCompile(`(?i)newsletter`),
	regexp.MustCompile(`(?i)your (?:weekly|daily|monthly) (?:summary|recap|update)`),
	regexp.MustCompile(`(?i)connection request`),
	regexp.MustCompile(`(?i)accepted your invitation`),
	regexp.MustCompile(`(?i)endorsed you`),
	regexp.MustCompile(`(?i)happy birthday`),
	regexp.MustCompile(`(?i)congratulations on your work anniversary`),
	regexp.MustCompile(`(?i)profile view`),
	regexp.MustCompile(`(?i)who.s viewed your profile`),
	regexp.MustCompile(`(?i)invitation to connect`),
}

var recruiterSignals = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opportunity`),
	regexp.MustCompile(`(?i)exciting role`),
	regexp.MustCompile(`(?i)position.+(?:available|open)`),
	regexp.MustCompile(`(?i)perfect (?:fit|match|candidate)`),
	regexp.MustCompile(`(?i)client.+(?:is hiring|looking for)`),
	regexp.MustCompile(`(?i)i came across your profile`),
	regexp.MustCompile(`(?i)your background`),
	regexp.MustCompile(`(?i)reaching out`),
}

// specificJobPatterns match concrete job-posting language: a titled role at
// a named company, hiring announcements, or an explicit apply call to action.
var specificJobPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:director|vp|vice president|manager|engineer|architect|lead|head|chief)\s+(?:of\s+)?\w+.+?at\s+\w+`),
	regexp.MustCompile(`(?i)\w+\s+is\s+(?:hiring|looking)\s+(?:for\s+)?(?:a\s+)?\w+`),
	regexp.MustCompile(`(?i)(?:position|role|opportunity):\s*\w+`),
	regexp.MustCompile(`(?i)(?:apply|apply now|view job|see job)`),
}

var (
	invisibleRunes = regexp.MustCompile("[͏​-‏  ­]+")
	angledURLs     = regexp.MustCompile(`<https?://[^>]+>`)
	andMoreRe      = regexp.MustCompile(`(?i)\band more\b`)
)

// multiCheckWindow bounds how much cleaned body text the multi-lead
// indicator is matched against. Job-board digests declare themselves in
// the first screen of text; anything past that is footer noise.
const multiCheckWindow = 2000

// Classify routes a raw email to its extraction strategy. Forwarded
// emails classify under the recovered original sender's template.
func Classify(e types.RawEmail, templates map[string]types.SenderTemplate) types.EmailType {
	subject := e.Subject
	bodyText := emailtext.BodyText(e.BodyText, e.BodyHTML)
	if e.ForwardInfo != nil && e.ForwardInfo.IsForwarded {
		subject = e.ForwardInfo.OriginalSubject
		if e.ForwardInfo.OriginalBodyText != "" {
			bodyText = e.ForwardInfo.OriginalBodyText
		}
	}

	if isNonJob(subject, bodyText) {
		return types.EmailNotJob
	}

	domain := emailtext.SenderDomain(emailtext.EffectiveFrom(e))
	tmpl, ok := templates[domain]
	if !ok {
		tmpl = templates["_default"]
	}

	if tmpl.MultiJobIndicator != "" {
		re, err := regexp.Compile("(?i)" + tmpl.MultiJobIndicator)
		if err == nil && re.MatchString(multiCheckText(subject, bodyText)) {
			return types.EmailMultiJob
		}
	}
	if domain == "linkedin.com" && andMoreRe.MatchString(subject) {
		return types.EmailMultiJob
	}

	if tmpl.Type == "job_board" {
		return types.EmailSingleJob
	}

	if tmpl.Type == "recruiter" || looksLikeRecruiter(subject, bodyText) {
		if hasSpecificJob(subject, bodyText) {
			return types.EmailSingleJob
		}
		return types.EmailRecruiterGeneric
	}

	if hasSpecificJob(subject, bodyText) {
		return types.EmailSingleJob
	}
	return types.EmailUnknown
}

// multiCheckText builds the window the multi-lead indicator is matched
// against: subject plus the first 2000 body characters with invisible
// Unicode spacers and angle-bracketed URLs stripped.
func multiCheckText(subject, bodyText string) string {
	clean := invisibleRunes.ReplaceAllString(bodyText, "")
	clean = angledURLs.ReplaceAllString(clean, "")
	clean = emailtext.Prefix(clean, multiCheckWindow)
	return strings.ToLower(fmt.Sprintf("%s %s", subject, clean))
}

// isNonJob matches newsletter, social-notification and promotional
// language. A match is overridden when the email also names a specific
// job: some digests mention real postings.
func isNonJob(subject, bodyText string) bool {
	body := emailtext.Prefix(bodyText, 1000)
	combined := strings.ToLower(subject + " " + body)
	for _, re := range nonJobPatterns {
		if re.MatchString(combined) {
			return !hasSpecificJob(subject, body)
		}
	}
	return false
}

func looksLikeRecruiter(subject, bodyText string) bool {
	body := emailtext.Prefix(bodyText, 500)
	combined := strings.ToLower(subject + " " + body)
	for _, re := range recruiterSignals {
		if re.MatchString(combined) {
			return true
		}
	}
	return false
}

func hasSpecificJob(subject, bodyText string) bool {
	body := emailtext.Prefix(bodyText, 1000)
	combined := subject + " " + body
	for _, re := range specificJobPatterns {
		if re.MatchString(combined) {
			return true
		}
	}
	return false
}
