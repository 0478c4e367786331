// Package schema validates document headers. Two strategies share one
// contract: a JSON Schema validator driven by per-kind schema files, and a
// manual validator that interprets the rule descriptors directly. A Router
// picks one per kind at startup.
package schema

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tailscale/hujson"

	"github.com/eykd/cipcheck-go/internal/domain"
)

//go:embed schemas/*.json
var embedded embed.FS

// ErrUnknownKind is returned for a kind without a schema file.
var ErrUnknownKind = errors.New("no schema for document kind")

// FileName returns the schema file name for kind.
func FileName(kind domain.Kind) (string, error) {
	switch kind {
	case domain.KindCIP:
		return "cip-header.schema.json", nil
	case domain.KindCPS:
		return "cps-header.schema.json", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Loader reads header schemas. With Dir empty the schemas compiled into the
// binary are used; otherwise they are read from Dir. Schema files may
// contain comments and trailing commas.
type Loader struct {
	Dir string
}

// Source returns the schema for kind as standard JSON together with the
// location it was read from.
func (l Loader) Source(kind domain.Kind) ([]byte, string, error) {
	name, err := FileName(kind)
	if err != nil {
		return nil, "", err
	}

	var (
		raw    []byte
		origin string
	)
	if l.Dir == "" {
		origin = "embedded:" + name
		raw, err = fs.ReadFile(embedded, "schemas/"+name)
	} else {
		origin = filepath.Join(l.Dir, name)
		raw, err = os.ReadFile(origin)
	}
	if err != nil {
		return nil, origin, fmt.Errorf("reading schema %s: %w", origin, err)
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, origin, fmt.Errorf("parsing schema %s: %w", origin, err)
	}
	return std, origin, nil
}

// Compile loads and compiles the schema for kind.
func (l Loader) Compile(kind domain.Kind) (*jsonschema.Schema, error) {
	src, origin, err := l.Source(kind)
	if err != nil {
		return nil, err
	}
	name, _ := FileName(kind)

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(src)); err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", origin, err)
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", origin, err)
	}
	return sch, nil
}
