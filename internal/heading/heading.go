// Package heading scans markdown bodies for ATX heading lines. Only lines
// that start at column zero with one to three '#' characters and a space
// are recognised; fenced code is not special.
package heading

import (
	"regexp"
	"strings"

	"github.com/eykd/cipcheck-go/internal/domain"
)

var levelPatterns = [...]*regexp.Regexp{
	regexp.MustCompile(`^#\s+(.+)$`),
	regexp.MustCompile(`^##\s+(.+)$`),
	regexp.MustCompile(`^###\s+(.+)$`),
}

// Scan returns every level 1, 2 and 3 heading in body, in document order,
// with surrounding whitespace trimmed.
func Scan(body string) []domain.Heading {
	var headings []domain.Heading
	for _, line := range strings.Split(body, "\n") {
		for level, re := range levelPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				headings = append(headings, domain.Heading{
					Level: level + 1,
					Text:  strings.TrimSpace(m[1]),
				})
				break
			}
		}
	}
	return headings
}

// Titles returns the text of every heading at level.
func Titles(headings []domain.Heading, level int) []string {
	var titles []string
	for _, h := range headings {
		if h.Level == level {
			titles = append(titles, h.Text)
		}
	}
	return titles
}

// Under returns the level-3 titles that sit between a level-2 heading
// accepted by parent and the next level-2 heading. Every matching parent
// contributes.
func Under(headings []domain.Heading, parent func(string) bool) []string {
	var titles []string
	inside := false
	for _, h := range headings {
		switch h.Level {
		case 2:
			inside = parent(h.Text)
		case 3:
			if inside {
				titles = append(titles, h.Text)
			}
		}
	}
	return titles
}
