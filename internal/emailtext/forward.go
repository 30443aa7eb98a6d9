// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emailtext

import (
	"regexp"
	"strings"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

var (
	fwdSubjectRe = regexp.MustCompile(`(?i)^(?:Fwd?|FW):\s*(.+)$`)

	// Gmail: ---------- Forwarded message ---------
	//        From: ... / Date: ... / Subject: ... / To: ...
	gmailFwdRe = regexp.MustCompile(`(?i)-+\s*Forwarded message\s*-+\s*\n` +
		`From:\s*(.+?)\n` +
		`(?:Date|Sent):\s*(.+?)\n` +
		`Subject:\s*(.+?)\n` +
		`To:\s*(.+?)\n`)

	// Outlook: From: ... / Sent: ... / To: ... / Subject: ...
	outlookFwdRe = regexp.MustCompile(`(?i)From:\s*(.+?)\s*\n` +
		`Sent:\s*(.+?)\s*\n` +
		`To:\s*(.+?)\s*\n` +
		`Subject:\s*(.+?)\s*\n`)
)

// DetectForward recovers the original sender, subject and body from a
// forwarded email. When the email is not a forward the wrapper values pass
// through unchanged with IsForwarded false. The original sender is what
// drives sender-template lookup downstream, so a job alert forwarded from
// a personal account still classifies under the job board's template.
func DetectForward(from, subject, bodyText string) types.ForwardInfo {
	info := types.ForwardInfo{
		OriginalFrom:     from,
		OriginalSubject:  subject,
		OriginalBodyText: bodyText,
	}

	if m := fwdSubjectRe.FindStringSubmatch(subject); m != nil {
		info.IsForwarded = true
		info.OriginalSubject = strings.TrimSpace(m[1])
		info.ForwardWrapperFrom = from
	}

	if m := gmailFwdRe.FindStringSubmatchIndex(bodyText); m != nil {
		info.IsForwarded = true
		info.ForwardWrapperFrom = from
		info.OriginalFrom = strings.TrimSpace(bodyText[m[2]:m[3]])
		info.OriginalSubject = strings.TrimSpace(bodyText[m[6]:m[7]])
		info.OriginalBodyText = strings.TrimSpace(bodyText[m[1]:])
		return info
	}

	if m := outlookFwdRe.FindStringSubmatchIndex(bodyText); m != nil {
		info.IsForwarded = true
		info.ForwardWrapperFrom = from
		info.OriginalFrom = strings.TrimSpace(bodyText[m[2]:m[3]])
		info.OriginalSubject = strings.TrimSpace(bodyText[m[8]:m[9]])
		info.OriginalBodyText = strings.TrimSpace(bodyText[m[1]:])
	}

	return info
}

// EffectiveFrom returns the sender that should drive template lookup for
// an email: the recovered original sender for forwards, the header sender
// otherwise.
func EffectiveFrom(e types.RawEmail) string {
	if e.ForwardInfo != nil && e.ForwardInfo.IsForwarded && e.ForwardInfo.OriginalFrom != "" {
		return e.ForwardInfo.OriginalFrom
	}
	return e.From
}
