package domain

// FormatKind selects the value check applied to a header field.
type FormatKind int

const (
	// FormatAny accepts any value.
	FormatAny FormatKind = iota
	// FormatList requires a sequence.
	FormatList
	// FormatDate requires a YYYY-MM-DD string.
	FormatDate
	// FormatEnum requires one of FieldRule.Values.
	FormatEnum
	// FormatTitle requires a short string without backticks.
	FormatTitle
	// FormatIdentifier requires a positive integer or a run of '?'.
	FormatIdentifier
	// FormatListOrMarker requires a sequence or exactly FieldRule.Marker.
	FormatListOrMarker
	// FormatPattern requires a string matching FieldRule.Pattern.
	FormatPattern
)

// EntryFormat describes the shape of the elements of a list field.
type EntryFormat int

const (
	// EntriesAny places no constraint on list elements.
	EntriesAny EntryFormat = iota
	// EntriesLabelURL requires "Label: URL" strings or mappings whose
	// pairs, joined, read as "Label: URL".
	EntriesLabelURL
	// EntriesLabelURLPair is EntriesLabelURL with mappings limited to a
	// single pair.
	EntriesLabelURLPair
)

// MaxTitleLength is the longest title accepted, counted in characters.
const MaxTitleLength = 100

// DatePattern is the accepted shape of date fields.
const DatePattern = `^\d{4}-\d{2}-\d{2}$`

// LabelURLPattern is the accepted shape of a "Label: URL" entry.
const LabelURLPattern = `^.+:\s+https?://.+$`

// FieldRule describes one header field. It carries data only; the header
// validators interpret it.
type FieldRule struct {
	Name     string
	Required bool
	Format   FormatKind
	// NonEmpty rejects empty lists; Noun names one element in the message.
	NonEmpty bool
	Noun     string
	Entries  EntryFormat
	Values   []string
	Marker   string
	Pattern  string
	// Describe completes "'<Name>' field must be ..." for FormatPattern.
	Describe string
	// CrossReference marks list fields whose CIP labels are checked
	// against the URLs they point to.
	CrossReference bool
}

// RuleSet is the complete rule descriptor for one document kind.
type RuleSet struct {
	Kind Kind
	// Fields lists every allowed header field in canonical order.
	Fields            []FieldRule
	EnforceFieldOrder bool

	RequiredSections    []string
	OptionalSections    []string
	EnforceSectionCase  bool
	EnforceSectionOrder bool

	SubsectionParent    string
	RequiredSubsections []string
}

// RequiredFieldNames returns the required fields in canonical order.
func (r RuleSet) RequiredFieldNames() []string {
	var names []string
	for _, f := range r.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Field looks up the rule for a header field by exact name.
func (r RuleSet) Field(name string) (FieldRule, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldRule{}, false
}

// CrossReferenceFields returns the fields subject to label/URL checks.
func (r RuleSet) CrossReferenceFields() []string {
	var names []string
	for _, f := range r.Fields {
		if f.CrossReference {
			names = append(names, f.Name)
		}
	}
	return names
}

var categories = []string{"Meta", "Wallets", "Tokens", "Metadata", "Tools", "Plutus", "Ledger", "Consensus", "Network", "?"}

var licenses = []string{"CC-BY-4.0", "Apache-2.0"}

// CIPRules is the rule descriptor for Cardano Improvement Proposals.
var CIPRules = RuleSet{
	Kind: KindCIP,
	Fields: []FieldRule{
		{Name: "CIP", Required: true, Format: FormatIdentifier},
		{Name: "Title", Required: true, Format: FormatTitle},
		{Name: "Category", Required: true, Format: FormatEnum, Values: categories},
		{
			Name: "Status", Required: true, Format: FormatPattern,
			Pattern:  `^(Proposed|Active|Inactive(?:\s+\(.*\))?)$`,
			Describe: "'Proposed', 'Active', or 'Inactive' (with optional reason)",
		},
		{Name: "Authors", Required: true, Format: FormatList, NonEmpty: true, Noun: "author"},
		{Name: "Implementors", Required: true, Format: FormatListOrMarker, Marker: "N/A"},
		{Name: "Discussions", Required: true, Format: FormatList},
		{Name: "Solution-To", Format: FormatList},
		{Name: "Created", Required: true, Format: FormatDate},
		{Name: "License", Required: true, Format: FormatEnum, Values: licenses},
	},
	RequiredSections: []string{
		"Abstract",
		"Motivation: why is this CIP necessary?",
		"Specification",
		"Rationale: how does this CIP achieve its goals?",
		"Path to Active",
		"Copyright",
	},
	OptionalSections:    []string{"Versioning", "References", "Appendix", "Appendices", "Acknowledgments", "Acknowledgements"},
	SubsectionParent:    "Path to Active",
	RequiredSubsections: []string{"Acceptance Criteria", "Implementation Plan"},
}

// CPSRules is the rule descriptor for Cardano Problem Statements.
var CPSRules = RuleSet{
	Kind: KindCPS,
	Fields: []FieldRule{
		{Name: "CPS", Required: true, Format: FormatIdentifier},
		{Name: "Title", Required: true, Format: FormatTitle},
		{Name: "Category", Required: true, Format: FormatEnum, Values: categories},
		{
			Name: "Status", Required: true, Format: FormatPattern,
			Pattern:  `^(Open|Solved|Inactive(?:\s+\(.*\))?)$`,
			Describe: "'Open', 'Solved', or 'Inactive' (with optional reason)",
		},
		{Name: "Authors", Required: true, Format: FormatList, NonEmpty: true, Noun: "author"},
		{Name: "Proposed Solutions", Required: true, Format: FormatList, Entries: EntriesLabelURLPair, CrossReference: true},
		{Name: "Discussions", Required: true, Format: FormatList, Entries: EntriesLabelURL, CrossReference: true},
		{Name: "Created", Required: true, Format: FormatDate},
		{Name: "License", Required: true, Format: FormatEnum, Values: licenses},
	},
	EnforceFieldOrder:   true,
	RequiredSections:    []string{"Abstract", "Problem", "Use Cases", "Goals", "Open Questions", "Copyright"},
	OptionalSections:    []string{"References", "Appendices", "Acknowledgments", "Acknowledgements"},
	EnforceSectionCase:  true,
	EnforceSectionOrder: true,
}

// RulesFor returns the rule descriptor for a document kind.
func RulesFor(kind Kind) (RuleSet, bool) {
	switch kind {
	case KindCIP:
		return CIPRules, true
	case KindCPS:
		return CPSRules, true
	}
	return RuleSet{}, false
}
