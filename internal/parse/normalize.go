// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"
)

var (
	companySuffixRe = regexp.MustCompile(`(?i)\s*(?:Inc\.?|LLC|Ltd\.?|Corp\.?|Corporation|Co\.?|Group)\s*$`)

	trackingParenRe = regexp.MustCompile(`\s*\((?:REQ|R|JR|ID)?[-#]?\d{4,}\)\s*`)
	trackingBareRe  = regexp.MustCompile(`\s*#?\b(?:REQ|JR|ID)[-#]?\d{4,}\b\s*`)
	locationTailRe  = regexp.MustCompile(`\s*[-–|]\s*(?:Remote|Hybrid|On[- ]?site|[A-Z][a-z]+(?:,\s*[A-Z]{2})?)\s*$`)

	srDotRe  = regexp.MustCompile(`\bSr\.\s*`)
	srBareRe = regexp.MustCompile(`\bSr\b`)
	jrDotRe  = regexp.MustCompile(`\bJr\.\s*`)
	jrBareRe = regexp.MustCompile(`\bJr\b`)

	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// ResolveCompanyName strips legal suffixes and resolves known aliases to
// their canonical name. The alias map is keyed by canonical name (lower
// case comparison); alias hits return the canonical name in title case.
func ResolveCompanyName(raw string, aliases map[string][]string) string {
	if raw == "" {
		return raw
	}
	cleaned := strings.TrimSpace(companySuffixRe.ReplaceAllString(strings.TrimSpace(raw), ""))
	lower := strings.ToLower(cleaned)

	if _, ok := aliases[lower]; ok {
		return cleaned
	}
	for canonical, names := range aliases {
		for _, a := range names {
			if strings.EqualFold(a, cleaned) {
				return titleCase(canonical)
			}
		}
	}
	return cleaned
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// NormalizeRoleTitle cleans a raw role string: tracking codes and location
// suffixes go, Sr./Jr. expand to Senior/Junior, whitespace collapses.
func NormalizeRoleTitle(raw string) string {
	if raw == "" {
		return raw
	}
	title := strings.TrimSpace(raw)
	title = strings.TrimSpace(trackingParenRe.ReplaceAllString(title, " "))
	title = strings.TrimSpace(trackingBareRe.ReplaceAllString(title, " "))
	title = strings.TrimSpace(locationTailRe.ReplaceAllString(title, ""))

	// Dotted forms first so the bare-word pass does not double-expand.
	title = srDotRe.ReplaceAllString(title, "Senior ")
	title = srBareRe.ReplaceAllString(title, "Senior")
	title = jrDotRe.ReplaceAllString(title, "Junior ")
	title = jrBareRe.ReplaceAllString(title, "Junior")

	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(title, " "))
}

// platformName derives a display platform from a sender domain:
// "linkedin.com" becomes "Linkedin", empty domains become "Email".
func platformName(domain string) string {
	if domain == "" {
		return "Email"
	}
	name := strings.SplitN(domain, ".", 2)[0]
	if name == "" {
		return "Email"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
