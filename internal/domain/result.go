package domain

// Result is the outcome of validating one document.
type Result struct {
	Path     string
	Kind     Kind
	Findings []Finding
}

// Valid reports whether the document produced no findings.
func (r Result) Valid() bool {
	return len(r.Findings) == 0
}

// Errors returns the finding messages in the order they were produced.
func (r Result) Errors() []string {
	msgs := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		msgs[i] = f.Message
	}
	return msgs
}

// Add appends findings, stamping each with the result path.
func (r *Result) Add(findings ...Finding) {
	for _, f := range findings {
		f.Path = r.Path
		r.Findings = append(r.Findings, f)
	}
}
