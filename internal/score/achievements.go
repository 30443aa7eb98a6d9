// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

var (
	categoryRe   = regexp.MustCompile(`^##\s+(.+)$`)
	bulletLineRe = regexp.MustCompile(`^[-*]\s+(.+)$`)
	learnedTagRe = regexp.MustCompile(`\s*\[learned:\s*\d{4}-\d{2}-\d{2}\]`)
)

// LoadAchievements reads the achievements document. A missing file is not
// an error; scoring simply runs against an empty inventory and every
// requirement becomes a gap.
func LoadAchievements(path string) (types.Achievements, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return types.Achievements{Items: map[string][]string{}}, nil
	}
	if err != nil {
		return types.Achievements{}, err
	}
	return ParseAchievements(string(data)), nil
}

// ParseAchievements parses the headed-outline format: "## Category" headers
// followed by "- achievement" bullets. Optional "[learned: YYYY-MM-DD]"
// tags are stripped so they never pollute term matching. Bullets before
// the first header are dropped.
func ParseAchievements(content string) types.Achievements {
	a := types.Achievements{Items: map[string][]string{}}

	var current string
	for _, line := range strings.Split(content, "\n") {
		if m := categoryRe.FindStringSubmatch(line); m != nil {
			current = strings.TrimSpace(m[1])
			if _, ok := a.Items[current]; !ok {
				a.Categories = append(a.Categories, current)
				a.Items[current] = []string{}
			}
			continue
		}
		if current == "" {
			continue
		}
		if m := bulletLineRe.FindStringSubmatch(line); m != nil {
			item := learnedTagRe.ReplaceAllString(strings.TrimSpace(m[1]), "")
			a.Items[current] = append(a.Items[current], item)
		}
	}
	return a
}
