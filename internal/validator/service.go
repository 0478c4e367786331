// Package validator provides the application service that validates CIP and
// CPS documents. It owns the per-document pipeline and batch scheduling; the
// parsing, header, reference and body checks are injected.
package validator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/eykd/cipcheck-go/internal/domain"
)

// Reader abstracts reading a document from disk. An error matching
// os.ErrNotExist is reported as a missing file.
type Reader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FrontmatterParser splits a document into its header and body.
type FrontmatterParser interface {
	Parse(input string) (domain.Metadata, string, error)
}

// HeaderValidator checks header fields against a kind's rules.
type HeaderValidator interface {
	ValidateHeader(rules domain.RuleSet, md domain.Metadata) []domain.Finding
}

// ReferenceChecker checks label/URL cross-references in a header.
type ReferenceChecker interface {
	CheckReferences(rules domain.RuleSet, md domain.Metadata) []domain.Finding
}

// BodyChecker checks headings and sections of a document body.
type BodyChecker interface {
	CheckBody(rules domain.RuleSet, body string) []domain.Finding
}

// Logger receives diagnostics. args are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Messages for findings raised by the pipeline itself.
const (
	msgUnclassified       = "Could not determine document type from path: %s"
	msgFileNotFound       = "File not found: %s"
	msgReadError          = "Error reading file: %v"
	msgInvalidUTF8        = "invalid UTF-8 encoding"
	msgMissingFrontmatter = "Missing or invalid YAML frontmatter (must start with '---' and end with '---')"
	msgMalformedYAML      = "Missing or invalid YAML frontmatter (could not parse YAML: %s)"
	msgFieldOrder         = "Header fields are not in the correct order. Expected: %s. Got: %s"
)

// Service validates documents.
type Service struct {
	reader Reader
	parser FrontmatterParser
	header HeaderValidator
	refs   ReferenceChecker
	body   BodyChecker
	logger Logger
	jobs   int
}

// Option configures a Service.
type Option func(*Service)

// WithJobs sets how many documents ValidateFiles checks concurrently.
// Values below one mean sequential.
func WithJobs(n int) Option {
	return func(s *Service) {
		if n < 1 {
			n = 1
		}
		s.jobs = n
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service with the given collaborators.
func NewService(reader Reader, parser FrontmatterParser, header HeaderValidator, refs ReferenceChecker, body BodyChecker, opts ...Option) *Service {
	s := &Service{
		reader: reader,
		parser: parser,
		header: header,
		refs:   refs,
		body:   body,
		logger: nopLogger{},
		jobs:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateFile reads and validates one document.
func (s *Service) ValidateFile(ctx context.Context, path string) domain.Result {
	raw, err := s.reader.ReadFile(ctx, path)
	if err != nil {
		res := domain.Result{Path: path}
		if errors.Is(err, os.ErrNotExist) {
			res.Add(domain.NewFinding(domain.FindingFileNotFound, fmt.Sprintf(msgFileNotFound, path)))
			return res
		}
		s.logger.Debug("read failed", "path", path, "error", err)
		res.Add(domain.NewFinding(domain.FindingUnreadableFile, fmt.Sprintf(msgReadError, err)))
		return res
	}
	return s.ValidateDocument(ctx, path, raw)
}

// ValidateDocument validates raw document bytes stored at path. Checks run
// in a fixed order; a fatal finding stops the remaining checks.
func (s *Service) ValidateDocument(ctx context.Context, path string, raw []byte) domain.Result {
	res := domain.Result{Path: path}

	kind, ok := domain.ClassifyPath(path)
	if !ok && halt(&res, domain.NewFinding(domain.FindingUnclassifiedDocument, fmt.Sprintf(msgUnclassified, path))) {
		return res
	}
	res.Kind = kind
	rules, _ := domain.RulesFor(kind)

	res.Add(domain.CheckLineEndings(raw)...)

	md, body, problem, ok := s.decode(raw)
	if !ok && halt(&res, problem) {
		return res
	}

	if rules.EnforceFieldOrder {
		if f, bad := fieldOrder(rules, md); bad {
			res.Add(f)
		}
	}
	res.Add(s.header.ValidateHeader(rules, md)...)
	res.Add(s.refs.CheckReferences(rules, md)...)
	res.Add(s.body.CheckBody(rules, body)...)

	s.logger.Debug("document validated", "path", path, "kind", string(kind), "findings", len(res.Findings))
	return res
}

// ValidateFiles validates paths and returns one result per path in input
// order. It stops scheduling new documents once ctx is done and returns
// ctx.Err() along with the results completed so far.
func (s *Service) ValidateFiles(ctx context.Context, paths []string) ([]domain.Result, error) {
	results := make([]domain.Result, len(paths))
	done := make([]bool, len(paths))

	if s.jobs <= 1 || len(paths) < 2 {
		for i, p := range paths {
			if err := ctx.Err(); err != nil {
				return completed(results, done), err
			}
			results[i] = s.ValidateFile(ctx, p)
			done[i] = true
		}
		return results, nil
	}

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.jobs)
		err error
	)
	for i, p := range paths {
		if err = ctx.Err(); err != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = s.ValidateFile(ctx, path)
			done[idx] = true
		}(i, p)
	}
	wg.Wait()

	if err != nil {
		return completed(results, done), err
	}
	return results, nil
}

func completed(results []domain.Result, done []bool) []domain.Result {
	out := make([]domain.Result, 0, len(results))
	for i, r := range results {
		if done[i] {
			out = append(out, r)
		}
	}
	return out
}

// decode checks the encoding and parses the header. When it fails the
// returned finding describes why.
func (s *Service) decode(raw []byte) (domain.Metadata, string, domain.Finding, bool) {
	if !utf8.Valid(raw) {
		return domain.Metadata{}, "", domain.NewFinding(domain.FindingUnreadableFile, fmt.Sprintf(msgReadError, msgInvalidUTF8)), false
	}
	md, body, err := s.parser.Parse(normalizeNewlines(string(raw)))
	switch {
	case err == nil:
		return md, body, domain.Finding{}, true
	case errors.Is(err, domain.ErrMalformedFrontmatter):
		detail := strings.TrimPrefix(err.Error(), domain.ErrMalformedFrontmatter.Error()+": ")
		return domain.Metadata{}, "", domain.NewFinding(domain.FindingMalformedFrontmatter, fmt.Sprintf(msgMalformedYAML, detail)), false
	}
	return domain.Metadata{}, "", domain.NewFinding(domain.FindingMissingFrontmatter, msgMissingFrontmatter), false
}

// halt records f and reports whether it ends validation of the document.
func halt(res *domain.Result, f domain.Finding) bool {
	res.Add(f)
	return f.Fatal()
}

func fieldOrder(rules domain.RuleSet, md domain.Metadata) (domain.Finding, bool) {
	expected, got, ok := domain.CheckOrder(md.Keys(), rules.RequiredFieldNames())
	if ok {
		return domain.Finding{}, false
	}
	msg := fmt.Sprintf(msgFieldOrder, strings.Join(expected, ", "), strings.Join(got, ", "))
	return domain.NewFinding(domain.FindingSchemaViolation, msg), true
}

// normalizeNewlines converts CRLF and lone CR line endings to LF. Line
// endings are reported before this runs.
func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
