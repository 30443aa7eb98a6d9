// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emailtext

import (
	"regexp"
	"strings"
)

var (
	domainRe     = regexp.MustCompile(`@([\w.-]+)`)
	senderNameRe = regexp.MustCompile(`^"?([^"<]+)"?\s*<`)
)

// SenderDomain extracts the registrable domain from a From header.
// Subdomains are collapsed: "email.linkedin.com" becomes "linkedin.com".
//
//	"Joe Smith <joe@linkedin.com>" -> "linkedin.com"
//	"noreply@indeed.com"           -> "indeed.com"
func SenderDomain(fromAddr string) string {
	m := domainRe.FindStringSubmatch(fromAddr)
	if m == nil {
		return ""
	}
	domain := strings.ToLower(m[1])
	parts := strings.Split(domain, ".")
	if len(parts) > 2 {
		domain = strings.Join(parts[len(parts)-2:], ".")
	}
	return domain
}

// SenderName extracts the display name from a From header, or "" when the
// header is a bare address.
func SenderName(fromAddr string) string {
	m := senderNameRe.FindStringSubmatch(fromAddr)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
