package domain

// FindingSeverity indicates how severe a finding is.
type FindingSeverity string

const (
	// SeverityError indicates a finding that makes a document invalid.
	SeverityError FindingSeverity = "error"
)

// Finding type constants identify the kind of issue found.
const (
	FindingUnclassifiedDocument    = "unclassified_document"
	FindingUnreadableFile          = "unreadable_file"
	FindingFileNotFound            = "file_not_found"
	FindingMissingFrontmatter      = "missing_frontmatter"
	FindingMalformedFrontmatter    = "malformed_frontmatter"
	FindingSchemaViolation         = "schema_violation"
	FindingCrossReferenceViolation = "cross_reference_violation"
	FindingSectionViolation        = "section_violation"
	FindingForbiddenHeading        = "forbidden_heading"
	FindingLineEndingViolation     = "line_ending_violation"
)

// Finding represents a validation issue discovered in a document.
type Finding struct {
	Type     string
	Severity FindingSeverity
	Message  string
	Path     string
}

// NewFinding returns an error-severity finding of the given type.
func NewFinding(findingType, message string) Finding {
	return Finding{Type: findingType, Severity: SeverityError, Message: message}
}

// Fatal reports whether a finding stops all further checks on a document.
func (f Finding) Fatal() bool {
	switch f.Type {
	case FindingUnclassifiedDocument, FindingUnreadableFile, FindingFileNotFound,
		FindingMissingFrontmatter, FindingMalformedFrontmatter:
		return true
	}
	return false
}
