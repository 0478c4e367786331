// Package xref checks that CIP labels in reference lists agree with the
// repository URLs they point to: candidates ("CIP-N?") link to pull
// requests, merged proposals ("CIP-N") link to tree or blob paths.
package xref

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eykd/cipcheck-go/internal/domain"
)

var (
	cipLabel  = regexp.MustCompile(`^(CIP-\d+)(\?)?$`)
	repoURL   = regexp.MustCompile(`^https://github\.com/cardano-foundation/CIPs/(pull/\d+|tree/[^/]+/CIP-\d+|blob/[^/]+/CIP-\d+)`)
	pullURL   = regexp.MustCompile(`https://github\.com/cardano-foundation/CIPs/pull/\d+`)
	mergedURL = regexp.MustCompile(`https://github\.com/cardano-foundation/CIPs/(tree|blob)/[^/]+/CIP-\d+`)
	labelPair = regexp.MustCompile(`^([^:]+):\s+(.+)$`)
)

// Entry is a normalized reference list item.
type Entry struct {
	// Index is 1-based within the list.
	Index int
	Label string
	URL   string
}

// Entries normalizes a reference list. Items that are neither a
// "Label: URL" string nor a single-key mapping are skipped, as is any
// value that is not a list.
func Entries(value any) []Entry {
	items, ok := value.([]any)
	if !ok {
		return nil
	}

	var entries []Entry
	for i, item := range items {
		var label, url string
		switch v := item.(type) {
		case string:
			m := labelPair.FindStringSubmatch(v)
			if m == nil {
				continue
			}
			label, url = m[1], m[2]
		case map[string]any:
			if len(v) != 1 {
				continue
			}
			for k, u := range v {
				label, url = k, fmt.Sprint(u)
			}
		default:
			continue
		}
		entries = append(entries, Entry{
			Index: i + 1,
			Label: strings.TrimSpace(label),
			URL:   strings.TrimSpace(url),
		})
	}
	return entries
}

// CheckEntry validates one entry of field. Entries whose label is not a
// CIP label are accepted with any URL.
func CheckEntry(field string, e Entry) (string, bool) {
	m := cipLabel.FindStringSubmatch(e.Label)
	if m == nil {
		return "", true
	}
	number, candidate := m[1], m[2] == "?"

	if !repoURL.MatchString(e.URL) {
		return fmt.Sprintf("'%s' entry %d: CIP label '%s' requires a GitHub CIPs repository URL (pull request or merged CIP). Got: %s",
			field, e.Index, e.Label, e.URL), false
	}

	switch {
	case pullURL.MatchString(e.URL) && !candidate:
		return fmt.Sprintf("'%s' entry %d: Pull request URL requires '?' suffix on CIP number (use '%s?' instead of '%s' to indicate candidate status)",
			field, e.Index, number, number), false
	case mergedURL.MatchString(e.URL) && candidate:
		return fmt.Sprintf("'%s' entry %d: Merged CIP should not have '?' suffix (use '%s' instead of '%s?' since this CIP is merged)",
			field, e.Index, number, number), false
	}
	return "", true
}

// Checker validates every cross-referenced field of a header. The zero
// value is ready to use.
type Checker struct{}

// CheckReferences returns one finding per offending entry, fields in
// canonical order.
func (Checker) CheckReferences(rules domain.RuleSet, md domain.Metadata) []domain.Finding {
	var findings []domain.Finding
	for _, field := range rules.CrossReferenceFields() {
		value, ok := md.Lookup(field)
		if !ok {
			continue
		}
		for _, e := range Entries(value) {
			if msg, ok := CheckEntry(field, e); !ok {
				findings = append(findings, domain.NewFinding(domain.FindingCrossReferenceViolation, msg))
			}
		}
	}
	return findings
}
