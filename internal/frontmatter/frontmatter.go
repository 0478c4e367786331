// Package frontmatter extracts and decodes the YAML header block of a
// proposal document.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eykd/cipcheck-go/internal/domain"
)

// ErrUnclosed is returned by Split when the opening delimiter has no match.
var ErrUnclosed = errors.New("unclosed frontmatter")

// Split separates a document into frontmatter and body components.
// Frontmatter is delimited by --- on its own line.
func Split(input string) (string, string, error) {
	if input == "" {
		return "", "", nil
	}
	if !strings.HasPrefix(input, "---\n") {
		return "", input, nil
	}

	rest := input[4:]
	pos := 0
	for pos < len(rest) {
		nlIdx := strings.IndexByte(rest[pos:], '\n')

		var line string
		var nextPos int
		if nlIdx < 0 {
			line = rest[pos:]
			nextPos = len(rest)
		} else {
			line = rest[pos : pos+nlIdx]
			nextPos = pos + nlIdx + 1
		}

		if line == "---" {
			if nlIdx < 0 {
				return rest[:pos], "", nil
			}
			return rest[:pos], rest[nextPos:], nil
		}

		pos = nextPos
	}

	return "", "", ErrUnclosed
}

// Parse splits input and decodes the header into ordered metadata.
//
// A missing opening or closing delimiter, or a block that decodes to
// nothing, yields domain.ErrNoFrontmatter. A block that is not a mapping,
// fails to parse, or repeats a key yields an error wrapping
// domain.ErrMalformedFrontmatter. On failure the body is the original input.
func Parse(input string) (domain.Metadata, string, error) {
	if !strings.HasPrefix(input, "---\n") {
		return domain.Metadata{}, input, domain.ErrNoFrontmatter
	}
	fm, body, err := Split(input)
	if err != nil {
		return domain.Metadata{}, input, domain.ErrNoFrontmatter
	}

	md, err := decode(fm)
	if err != nil {
		return domain.Metadata{}, input, err
	}
	return md, body, nil
}

func decode(fm string) (domain.Metadata, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(fm), &doc); err != nil {
		return domain.Metadata{}, fmt.Errorf("%w: %v", domain.ErrMalformedFrontmatter, err)
	}
	if len(doc.Content) == 0 {
		return domain.Metadata{}, domain.ErrNoFrontmatter
	}

	root := doc.Content[0]
	if root.Kind == yaml.AliasNode {
		root = root.Alias
	}
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return domain.Metadata{}, domain.ErrNoFrontmatter
	}
	if root.Kind != yaml.MappingNode {
		return domain.Metadata{}, fmt.Errorf("%w: line %d: expected a mapping", domain.ErrMalformedFrontmatter, root.Line)
	}

	var md domain.Metadata
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if seen[key.Value] {
			return domain.Metadata{}, fmt.Errorf("%w: line %d: duplicate key %q", domain.ErrMalformedFrontmatter, key.Line, key.Value)
		}
		seen[key.Value] = true

		value, err := nodeValue(root.Content[i+1])
		if err != nil {
			return domain.Metadata{}, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedFrontmatter, key.Line, err)
		}
		md.Fields = append(md.Fields, domain.Field{Key: key.Value, Value: value})
	}
	return md, nil
}

// nodeValue converts a YAML node into plain Go values. Timestamps keep
// their source text, so only a literal YYYY-MM-DD passes the date rules.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[n.Content[i].Value] = v
		}
		return m, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!timestamp" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported node kind %d", n.Kind)
}

// Parser adapts Parse to the validator's parser port.
type Parser struct{}

// Parse decodes the document header.
func (Parser) Parse(input string) (domain.Metadata, string, error) {
	return Parse(input)
}
