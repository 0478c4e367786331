package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/eykd/cipcheck-go/internal/domain"
)

// JSONValidator validates headers against compiled JSON Schemas.
type JSONValidator struct {
	schemas map[domain.Kind]*jsonschema.Schema
}

// NewJSONValidator returns a validator for the given per-kind schemas.
func NewJSONValidator(schemas map[domain.Kind]*jsonschema.Schema) *JSONValidator {
	return &JSONValidator{schemas: schemas}
}

// ValidateHeader reports one finding per schema violation, ordered by the
// position of the offending field in the header.
func (v *JSONValidator) ValidateHeader(rules domain.RuleSet, md domain.Metadata) []domain.Finding {
	sch, ok := v.schemas[rules.Kind]
	if !ok {
		return []domain.Finding{violation(fmt.Sprintf("Schema error: %v", fmt.Errorf("%w: %q", ErrUnknownKind, rules.Kind)))}
	}

	inst, err := Instance(rules, md)
	if err != nil {
		return []domain.Finding{violation(fmt.Sprintf("Header validation error at 'root': %v", err))}
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []domain.Finding{violation("Schema error: " + err.Error())}
	}

	var issues []issue
	collect(verr, &issues)
	sortIssues(issues, md.Keys())

	findings := make([]domain.Finding, 0, len(issues))
	seen := make(map[issue]bool, len(issues))
	for _, is := range issues {
		if seen[is] {
			continue
		}
		seen[is] = true
		findings = append(findings, violation(fmt.Sprintf("Header validation error at '%s': %s", is.path(), is.message)))
	}
	return findings
}

type issue struct {
	location string
	message  string
}

// path renders a JSON pointer as a dotted field path.
func (i issue) path() string {
	loc := strings.TrimPrefix(i.location, "/")
	if loc == "" {
		return "root"
	}
	parts := strings.Split(loc, "/")
	for j, p := range parts {
		parts[j] = strings.NewReplacer("~1", "/", "~0", "~").Replace(p)
	}
	return strings.Join(parts, ".")
}

func (i issue) field() string {
	loc := strings.TrimPrefix(i.location, "/")
	if idx := strings.IndexByte(loc, '/'); idx >= 0 {
		loc = loc[:idx]
	}
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(loc)
}

// collect flattens the error tree to its leaves. A failed anyOf or oneOf
// becomes a single issue listing each alternative.
func collect(node *jsonschema.ValidationError, out *[]issue) {
	if node == nil {
		return
	}
	if len(node.Causes) == 0 {
		*out = append(*out, issue{location: node.InstanceLocation, message: strings.TrimSpace(node.Message)})
		return
	}
	if strings.HasSuffix(node.KeywordLocation, "/anyOf") || strings.HasSuffix(node.KeywordLocation, "/oneOf") {
		var branches []issue
		for _, c := range node.Causes {
			collect(c, &branches)
		}
		msgs := make([]string, 0, len(branches))
		for _, b := range branches {
			msgs = append(msgs, b.message)
		}
		*out = append(*out, issue{location: node.InstanceLocation, message: strings.Join(msgs, " or ")})
		return
	}
	for _, c := range node.Causes {
		collect(c, out)
	}
}

func sortIssues(issues []issue, keys []string) {
	rank := make(map[string]int, len(keys))
	for i, k := range keys {
		rank[k] = i + 1
	}
	sort.SliceStable(issues, func(a, b int) bool {
		ra, rb := rank[issues[a].field()], rank[issues[b].field()]
		if ra != rb {
			return ra < rb
		}
		if issues[a].location != issues[b].location {
			return issues[a].location < issues[b].location
		}
		return issues[a].message < issues[b].message
	})
}

// Instance converts a header into the JSON value handed to the schema.
// Entries of label/URL lists given as single-key mappings become
// "Label: URL" strings.
func Instance(rules domain.RuleSet, md domain.Metadata) (any, error) {
	obj := md.Map()
	for key, value := range obj {
		if rule, ok := rules.Field(key); ok && rule.Entries != domain.EntriesAny {
			obj[key] = flattenEntries(value)
		}
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encoding header: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var inst any
	if err := dec.Decode(&inst); err != nil {
		return nil, fmt.Errorf("decoding header: %w", err)
	}
	return inst, nil
}

func flattenEntries(value any) any {
	items, ok := value.([]any)
	if !ok {
		return value
	}
	out := make([]any, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			out[i] = item
			continue
		}
		out[i] = joinPairs(m)
	}
	return out
}

// joinPairs renders a mapping as "k: v", joining several pairs with ": ".
func joinPairs(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s: %v", k, m[k])
	}
	return strings.Join(pairs, ": ")
}

func violation(msg string) domain.Finding {
	return domain.NewFinding(domain.FindingSchemaViolation, msg)
}
