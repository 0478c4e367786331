// Package domain holds the document model and the per-kind rule descriptors
// shared by every validation stage. It depends only on the standard library.
package domain

import (
	"regexp"
	"strings"
)

// Kind identifies which family of proposal document a file belongs to.
type Kind string

const (
	// KindCIP is a Cardano Improvement Proposal.
	KindCIP Kind = "CIP"
	// KindCPS is a Cardano Problem Statement.
	KindCPS Kind = "CPS"
)

var (
	cipPathPattern = regexp.MustCompile(`(?i)(^|/)CIP-`)
	cpsPathPattern = regexp.MustCompile(`(?i)(^|/)CPS-`)
)

// ClassifyPath determines the document kind from its storage path.
// Backslash separators are treated as forward slashes. CIP wins when a
// path carries both markers.
func ClassifyPath(path string) (Kind, bool) {
	normalized := strings.ReplaceAll(path, `\`, "/")
	switch {
	case cipPathPattern.MatchString(normalized):
		return KindCIP, true
	case cpsPathPattern.MatchString(normalized):
		return KindCPS, true
	}
	return "", false
}

// ParseKind converts a user supplied name such as "cip" into a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(KindCIP):
		return KindCIP, true
	case string(KindCPS):
		return KindCPS, true
	}
	return "", false
}
