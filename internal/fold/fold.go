// Package fold provides the caseless comparison used when matching
// section headings against their canonical names.
package fold

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the caseless form of s: NFC-normalized, then Unicode full
// case folded. Whitespace is left alone.
func Fold(s string) string {
	// Casers carry state and are not safe for concurrent use.
	return cases.Fold().String(norm.NFC.String(s))
}

// Index maps the folded form of each name to the name itself.
func Index(names ...[]string) map[string]string {
	idx := make(map[string]string)
	for _, group := range names {
		for _, n := range group {
			idx[Fold(n)] = n
		}
	}
	return idx
}
