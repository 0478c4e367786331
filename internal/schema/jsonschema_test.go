package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/eykd/cipcheck-go/internal/domain"
)

func embeddedValidator(t *testing.T) *JSONValidator {
	t.Helper()
	cip, err := Loader{}.Compile(domain.KindCIP)
	if err != nil {
		t.Fatalf("Compile(CIP) error: %v", err)
	}
	cps, err := Loader{}.Compile(domain.KindCPS)
	if err != nil {
		t.Fatalf("Compile(CPS) error: %v", err)
	}
	return NewJSONValidator(map[domain.Kind]*jsonschema.Schema{domain.KindCIP: cip, domain.KindCPS: cps})
}

// locations extracts the quoted path of each "Header validation error at"
// message.
func locations(t *testing.T, findings []domain.Finding) []string {
	t.Helper()
	const prefix = "Header validation error at '"
	var out []string
	for _, f := range findings {
		if f.Type != domain.FindingSchemaViolation {
			t.Errorf("finding type = %q, want %q", f.Type, domain.FindingSchemaViolation)
		}
		if !strings.HasPrefix(f.Message, prefix) {
			t.Errorf("message = %q, want prefix %q", f.Message, prefix)
			continue
		}
		rest := strings.TrimPrefix(f.Message, prefix)
		end := strings.Index(rest, "': ")
		if end < 0 {
			t.Errorf("message = %q, missing location terminator", f.Message)
			continue
		}
		out = append(out, rest[:end])
	}
	return out
}

func TestJSONValidator_ValidHeaders(t *testing.T) {
	v := embeddedValidator(t)

	if got := v.ValidateHeader(domain.CPSRules, cpsHeader()); len(got) != 0 {
		t.Errorf("CPS findings = %+v, want none", got)
	}
	if got := v.ValidateHeader(domain.CIPRules, cipHeader()); len(got) != 0 {
		t.Errorf("CIP findings = %+v, want none", got)
	}
	withList := cipHeader(domain.Field{Key: "Implementors", Value: []any{"IOG"}}, domain.Field{Key: "CIP", Value: 30})
	if got := v.ValidateHeader(domain.CIPRules, withList); len(got) != 0 {
		t.Errorf("CIP findings = %+v, want none", got)
	}
}

func TestJSONValidator_Locations(t *testing.T) {
	v := embeddedValidator(t)

	tests := []struct {
		name  string
		rules domain.RuleSet
		md    domain.Metadata
		want  []string
	}{
		{
			name:  "long title",
			rules: domain.CPSRules,
			md:    cpsHeader(domain.Field{Key: "Title", Value: strings.Repeat("x", 120)}),
			want:  []string{"Title"},
		},
		{
			name:  "unknown license",
			rules: domain.CPSRules,
			md:    cpsHeader(domain.Field{Key: "License", Value: "MIT"}),
			want:  []string{"License"},
		},
		{
			name:  "missing field reported at root",
			rules: domain.CPSRules,
			md:    cpsHeader(domain.Field{Key: "Created", Value: dropField}),
			want:  []string{"root"},
		},
		{
			name:  "bad discussion entry",
			rules: domain.CPSRules,
			md:    cpsHeader(domain.Field{Key: "Discussions", Value: []any{"Forum: https://x.example", "plain"}}),
			want:  []string{"Discussions.1"},
		},
		{
			name:  "ordered by header position",
			rules: domain.CPSRules,
			md: cpsHeader(
				domain.Field{Key: "Title", Value: "has `code`"},
				domain.Field{Key: "License", Value: "MIT"},
				domain.Field{Key: "Category", Value: "Games"},
			),
			want: []string{"Title", "Category", "License"},
		},
		{
			name:  "implementors neither list nor marker",
			rules: domain.CIPRules,
			md:    cipHeader(domain.Field{Key: "Implementors", Value: "nobody"}),
			want:  []string{"Implementors"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := locations(t, v.ValidateHeader(tt.rules, tt.md))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("locations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONValidator_AlternativesJoined(t *testing.T) {
	v := embeddedValidator(t)

	findings := v.ValidateHeader(domain.CPSRules, cpsHeader(domain.Field{Key: "CPS", Value: "abc"}))
	if len(findings) != 1 {
		t.Fatalf("findings = %+v, want exactly one", findings)
	}
	if !strings.HasPrefix(findings[0].Message, "Header validation error at 'CPS': ") {
		t.Errorf("message = %q, want CPS location", findings[0].Message)
	}
	if !strings.Contains(findings[0].Message, " or ") {
		t.Errorf("message = %q, want alternatives joined with \" or \"", findings[0].Message)
	}
}

func TestJSONValidator_UnsupportedKind(t *testing.T) {
	v := NewJSONValidator(nil)
	findings := v.ValidateHeader(domain.CPSRules, cpsHeader())
	if len(findings) != 1 || !strings.HasPrefix(findings[0].Message, "Schema error: ") {
		t.Errorf("findings = %+v, want one schema error", findings)
	}
}

func TestInstance_FlattensLabelledLinks(t *testing.T) {
	md := cpsHeader(domain.Field{Key: "Proposed Solutions", Value: []any{
		map[string]any{"CIP-0001": "https://example.com/1"},
		"Plain: https://example.com/2",
	}})

	inst, err := Instance(domain.CPSRules, md)
	if err != nil {
		t.Fatalf("Instance() error: %v", err)
	}
	obj, ok := inst.(map[string]any)
	if !ok {
		t.Fatalf("Instance() = %T, want map", inst)
	}
	want := []any{"CIP-0001: https://example.com/1", "Plain: https://example.com/2"}
	if diff := cmp.Diff(want, obj["Proposed Solutions"]); diff != "" {
		t.Errorf("Proposed Solutions mismatch (-want +got):\n%s", diff)
	}
	// Authors is not a label/URL field and stays untouched.
	if diff := cmp.Diff([]any{"Alice <alice@example.com>"}, obj["Authors"]); diff != "" {
		t.Errorf("Authors mismatch (-want +got):\n%s", diff)
	}
}

func TestJoinPairs(t *testing.T) {
	tests := []struct {
		in   map[string]any
		want string
	}{
		{map[string]any{"A": "https://a"}, "A: https://a"},
		{map[string]any{"b": 2, "a": 1}, "a: 1: b: 2"},
	}
	for _, tt := range tests {
		if got := joinPairs(tt.in); got != tt.want {
			t.Errorf("joinPairs(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
