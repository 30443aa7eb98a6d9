// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package emailtext converts raw fetched messages into the plain-text and
// HTML bodies the classifier and lead extractor operate on: MIME part
// extraction, HTML-to-text conversion, sender-domain parsing, and
// forwarded-email recovery.
package emailtext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var collapseNewlines = regexp.MustCompile(`\n{3,}`)

// HTMLToText strips tags from an HTML body while preserving line structure:
// block-level elements end a line, so "Company · Location" rows in job-alert
// emails survive as individual lines. Script and style content is dropped.
// On unparseable input the input is returned as-is.
func HTMLToText(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	doc.Find("script, style").Remove()
	doc.Find("br, p, div, tr, li, h1, h2, h3, h4").AfterHtml("\n")

	text := doc.Text()
	text = strings.ReplaceAll(text, " ", " ")
	text = collapseNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// BodyText returns the plain-text body, deriving it from the HTML body
// when the email has no text part.
func BodyText(bodyText, bodyHTML string) string {
	if bodyText != "" {
		return bodyText
	}
	return HTMLToText(bodyHTML)
}

// Prefix returns the first n characters of s. Windows over email bodies
// count runes, not bytes, so a multi-byte character at the window edge
// is never split.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
