// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

var jobPathKeywords = []string{"/job/", "/position/", "/opening/", "/careers/"}

// FindSimilarRoles scans a company's careers page for other openings when
// the exact role was not found. Best effort: network problems return an
// empty list, capped at ten results.
func (s *Scraper) FindSimilarRoles(ctx context.Context, careerPageURL string) []types.SimilarRole {
	doc, err := s.fetchDocument(ctx, careerPageURL)
	if err != nil {
		return nil
	}

	var roles []types.SimilarRole
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) <= 5 || len(text) >= 100 {
			return true
		}
		href, _ := sel.Attr("href")
		parsed, err := url.Parse(href)
		if err != nil {
			return true
		}
		path := strings.ToLower(parsed.Path)
		for _, kw := range jobPathKeywords {
			if strings.Contains(path, kw) {
				roles = append(roles, types.SimilarRole{Title: text, URL: href})
				break
			}
		}
		return len(roles) < 10
	})
	return roles
}
