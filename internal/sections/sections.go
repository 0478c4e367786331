// Package sections checks the heading structure of a document body against
// the section rules of its kind.
package sections

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eykd/cipcheck-go/internal/domain"
	"github.com/eykd/cipcheck-go/internal/fold"
	"github.com/eykd/cipcheck-go/internal/heading"
)

// Checker validates document bodies. The zero value is ready to use.
type Checker struct{}

// CheckBody reports level-1 headings followed by section findings.
func (Checker) CheckBody(rules domain.RuleSet, body string) []domain.Finding {
	hs := heading.Scan(body)
	findings := CheckNoTitle(hs)
	return append(findings, Check(rules, hs)...)
}

// CheckNoTitle reports every level-1 heading in a single finding.
func CheckNoTitle(hs []domain.Heading) []domain.Finding {
	titles := heading.Titles(hs, 1)
	if len(titles) == 0 {
		return nil
	}
	return []domain.Finding{domain.NewFinding(domain.FindingForbiddenHeading,
		"H1 headings are not allowed. Found: "+strings.Join(titles, ", "))}
}

// Check validates level-2 sections and the required level-3 subsections.
func Check(rules domain.RuleSet, hs []domain.Heading) []domain.Finding {
	found := heading.Titles(hs, 2)
	var msgs []string

	present := make(map[string]bool, len(found))
	for _, h := range found {
		present[fold.Fold(h)] = true
	}

	var missing []string
	for _, s := range rules.RequiredSections {
		if !present[fold.Fold(s)] {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		msgs = append(msgs, "Missing required sections: "+strings.Join(missing, ", "))
	}

	canonical := fold.Index(rules.RequiredSections, rules.OptionalSections)

	if rules.EnforceSectionCase {
		for _, h := range found {
			if want, ok := canonical[fold.Fold(h)]; ok && h != want {
				msgs = append(msgs, fmt.Sprintf("Section '%s' has incorrect capitalization. Expected: '%s'", h, want))
			}
		}
	}

	if rules.EnforceSectionOrder {
		names := make([]string, len(found))
		for i, h := range found {
			names[i] = h
			if want, ok := canonical[fold.Fold(h)]; ok {
				names[i] = want
			}
		}
		if expected, got, ok := domain.CheckOrder(names, rules.RequiredSections); !ok {
			msgs = append(msgs, fmt.Sprintf("Sections are not in the correct order. Expected: %s. Got: %s",
				strings.Join(expected, ", "), strings.Join(got, ", ")))
		}
	}

	if rules.SubsectionParent != "" && present[fold.Fold(rules.SubsectionParent)] {
		if m := missingSubsections(rules, hs); len(m) > 0 {
			msgs = append(msgs, fmt.Sprintf("'%s' section missing required subsections: %s",
				rules.SubsectionParent, strings.Join(m, ", ")))
		}
	}

	findings := make([]domain.Finding, len(msgs))
	for i, m := range msgs {
		findings[i] = domain.NewFinding(domain.FindingSectionViolation, m)
	}
	return findings
}

func missingSubsections(rules domain.RuleSet, hs []domain.Heading) []string {
	// The parent heading must be spelled exactly; only the H2 presence
	// check above is case-insensitive.
	under := heading.Under(hs, func(s string) bool { return s == rules.SubsectionParent })

	have := make(map[string]bool, len(under))
	for _, h := range under {
		have[fold.Fold(h)] = true
	}

	var missing []string
	for _, s := range rules.RequiredSubsections {
		if !have[fold.Fold(s)] {
			missing = append(missing, s)
		}
	}
	sort.Strings(missing)
	return missing
}
