package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/eykd/cipcheck-go/internal/domain"
)

// writeJSON encodes v as JSON to w, handling I/O errors at the boundary.
func writeJSON(w io.Writer, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
	}
}

// ReportError is one finding in the JSON report.
type ReportError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ReportFile is the JSON report entry for one document.
type ReportFile struct {
	Path   string        `json:"path"`
	Kind   string        `json:"kind"`
	Valid  bool          `json:"valid"`
	Errors []ReportError `json:"errors"`
}

// ReportSummary counts passed and failed documents.
type ReportSummary struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Report is the machine-readable outcome of a validate run.
type Report struct {
	Files   []ReportFile  `json:"files"`
	Summary ReportSummary `json:"summary"`
}

// newReport converts validation results into a Report.
func newReport(results []domain.Result) Report {
	r := Report{Files: make([]ReportFile, 0, len(results))}
	for _, res := range results {
		f := ReportFile{
			Path:   res.Path,
			Kind:   string(res.Kind),
			Valid:  res.Valid(),
			Errors: make([]ReportError, 0, len(res.Findings)),
		}
		for _, finding := range res.Findings {
			f.Errors = append(f.Errors, ReportError{Type: finding.Type, Message: finding.Message})
		}
		if f.Valid {
			r.Summary.Passed++
		} else {
			r.Summary.Failed++
		}
		r.Files = append(r.Files, f)
	}
	return r
}

// marshalReport renders the report as indented JSON.
func marshalReport(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// humanStyles colour status lines. A renderer bound to a non-terminal
// writer emits plain text.
type humanStyles struct {
	ok     lipgloss.Style
	failed lipgloss.Style
	detail lipgloss.Style
}

func newHumanStyles(w io.Writer) humanStyles {
	r := lipgloss.NewRenderer(w)
	return humanStyles{
		ok:     r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		failed: r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		detail: r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// formatHuman writes one status block per document followed by a summary.
func formatHuman(w io.Writer, results []domain.Result) {
	s := newHumanStyles(w)
	failed := 0
	for _, res := range results {
		if res.Valid() {
			fmt.Fprintln(w, s.ok.Render("✅ "+res.Path+" is valid"))
			continue
		}
		failed++
		fmt.Fprintln(w, s.failed.Render("❌ Validation failed for "+res.Path+":"))
		for _, msg := range res.Errors() {
			fmt.Fprintln(w, s.detail.Render("  - "+msg))
		}
	}

	fmt.Fprintln(w)
	if failed > 0 {
		fmt.Fprintln(w, s.failed.Render(fmt.Sprintf("❌ Validation failed for %d file(s)", failed)))
		return
	}
	fmt.Fprintln(w, s.ok.Render(fmt.Sprintf("✅ All %d file(s) passed validation", len(results))))
}
