package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/eykd/cipcheck-go/internal/domain"
)

var (
	datePattern     = regexp.MustCompile(domain.DatePattern)
	labelURLPattern = regexp.MustCompile(domain.LabelURLPattern)
	placeholderID   = regexp.MustCompile(`^\?+$`)
	numericID       = regexp.MustCompile(`^[1-9]\d*$`)

	patternCache sync.Map
)

// ManualValidator applies the rule descriptor directly. It needs no schema
// files. The zero value is ready to use.
type ManualValidator struct{}

// ValidateHeader reports missing and unexpected fields, then checks each
// present field in canonical order.
func (ManualValidator) ValidateHeader(rules domain.RuleSet, md domain.Metadata) []domain.Finding {
	var msgs []string

	var missing []string
	for _, name := range rules.RequiredFieldNames() {
		if !md.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		msgs = append(msgs, "Missing required header fields: "+strings.Join(missing, ", "))
	}

	var extra []string
	for _, key := range md.Keys() {
		if _, ok := rules.Field(key); !ok {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		msgs = append(msgs, "Unexpected header fields: "+strings.Join(extra, ", "))
	}

	for _, rule := range rules.Fields {
		if value, ok := md.Lookup(rule.Name); ok {
			msgs = append(msgs, CheckField(rule, value)...)
		}
	}

	findings := make([]domain.Finding, len(msgs))
	for i, m := range msgs {
		findings[i] = violation(m)
	}
	return findings
}

// CheckField validates one field value against its rule.
func CheckField(rule domain.FieldRule, value any) []string {
	name := rule.Name
	switch rule.Format {
	case domain.FormatList:
		items, ok := value.([]any)
		if !ok {
			return []string{fmt.Sprintf("'%s' field must be a list", name)}
		}
		if rule.NonEmpty && len(items) == 0 {
			return []string{fmt.Sprintf("'%s' field must contain at least one %s", name, rule.Noun)}
		}
		if rule.Entries != domain.EntriesAny {
			return checkEntries(name, items, rule.Entries == domain.EntriesLabelURLPair)
		}

	case domain.FormatDate:
		if value == nil {
			return []string{fmt.Sprintf("'%s' field must be in YYYY-MM-DD format", name)}
		}
		if s := display(value); !datePattern.MatchString(s) {
			return []string{fmt.Sprintf("'%s' field must be in YYYY-MM-DD format, got: %s", name, s)}
		}

	case domain.FormatEnum:
		s, ok := value.(string)
		if !ok || !contains(rule.Values, s) {
			allowed := append([]string(nil), rule.Values...)
			sort.Strings(allowed)
			return []string{fmt.Sprintf("'%s' field must be one of: %s. Got: %s", name, strings.Join(allowed, ", "), display(value))}
		}

	case domain.FormatTitle:
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("'%s' field must be a string", name)}
		}
		var msgs []string
		if n := utf8.RuneCountInString(s); n > domain.MaxTitleLength {
			msgs = append(msgs, fmt.Sprintf("'%s' field must be less than %d characters. Got: %d characters", name, domain.MaxTitleLength, n))
		}
		if strings.Contains(s, "`") {
			msgs = append(msgs, fmt.Sprintf("'%s' field must not contain backticks (`)", name))
		}
		return msgs

	case domain.FormatIdentifier:
		switch v := value.(type) {
		case string:
			if !placeholderID.MatchString(v) && !numericID.MatchString(v) {
				return []string{fmt.Sprintf("'%s' field must be a number or one or more '?'. Got: %s", name, v)}
			}
		case int, int64, uint64:
			if !positive(v) {
				return []string{fmt.Sprintf("'%s' field must be a positive integer. Got: %v", name, v)}
			}
		default:
			return []string{fmt.Sprintf("'%s' field must be a number or string. Got: %s", name, typeName(value))}
		}

	case domain.FormatListOrMarker:
		if _, ok := value.([]any); ok {
			return nil
		}
		if s, ok := value.(string); ok && s == rule.Marker {
			return nil
		}
		return []string{fmt.Sprintf("'%s' field must be a list or '%s'", name, rule.Marker)}

	case domain.FormatPattern:
		s, ok := value.(string)
		if !ok || !compiled(rule.Pattern).MatchString(s) {
			return []string{fmt.Sprintf("'%s' field must be %s. Got: %s", name, rule.Describe, display(value))}
		}
	}
	return nil
}

// checkEntries validates label/URL list items. With single set, mapping
// items must hold exactly one pair; otherwise their pairs are joined and
// matched like a string entry.
func checkEntries(name string, items []any, single bool) []string {
	var msgs []string
	for i, item := range items {
		n := i + 1
		switch v := item.(type) {
		case map[string]any:
			if single && len(v) != 1 {
				msgs = append(msgs, fmt.Sprintf("'%s' entry %d must have exactly one label-URL pair", name, n))
				continue
			}
			if s := joinPairs(v); !labelURLPattern.MatchString(s) {
				msgs = append(msgs, fmt.Sprintf("'%s' entry %d must have format 'Label: URL'. Got: %s", name, n, s))
			}
		case string:
			if !labelURLPattern.MatchString(v) {
				msgs = append(msgs, fmt.Sprintf("'%s' entry %d must have format 'Label: URL'. Got: %s", name, n, v))
			}
		default:
			msgs = append(msgs, fmt.Sprintf("'%s' entry %d must be a string or dictionary. Got: %s", name, n, typeName(item)))
		}
	}
	return msgs
}

func compiled(pattern string) *regexp.Regexp {
	if re, ok := patternCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(pattern)
	patternCache.Store(pattern, re)
	return re
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// positive reports whether an integer decoded from YAML is at least 1.
// Values beyond int64 arrive as uint64 and are never converted.
func positive(v any) bool {
	switch n := v.(type) {
	case int:
		return n > 0
	case int64:
		return n > 0
	case uint64:
		return n > 0
	}
	return false
}

func display(value any) string {
	if value == nil {
		return "null"
	}
	return fmt.Sprint(value)
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float"
	case []any:
		return "list"
	case map[string]any:
		return "dictionary"
	}
	return fmt.Sprintf("%T", value)
}
