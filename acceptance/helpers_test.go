package acceptance_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runCipcheck executes the cipcheck binary and returns stdout, stderr, and exit code.
func runCipcheck(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(cipcheckBinary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run cipcheck: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// report mirrors the JSON report printed by validate --json.
type report struct {
	Files []struct {
		Path   string `json:"path"`
		Kind   string `json:"kind"`
		Valid  bool   `json:"valid"`
		Errors []struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"files"`
	Summary struct {
		Passed int `json:"passed"`
		Failed int `json:"failed"`
	} `json:"summary"`
}

// validateJSON runs validate --json and parses the report.
func validateJSON(t *testing.T, dir string, args ...string) (report, int) {
	t.Helper()
	stdout, stderr, code := runCipcheck(t, dir, append([]string{"validate", "--json"}, args...)...)
	var r report
	if err := json.Unmarshal([]byte(stdout), &r); err != nil {
		t.Fatalf("failed to parse report: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}
	return r, code
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// readFile reads a file's content.
func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	return string(content)
}

const validCIP = `---
CIP: 1694
Title: A proposal for entering the Voltaire phase
Category: Ledger
Status: Proposed
Authors:
  - Jared Corduan <jared.corduan@iohk.io>
Implementors: N/A
Discussions:
  - https://github.com/cardano-foundation/CIPs/pull/380
Created: 2022-11-18
License: CC-BY-4.0
---

## Abstract

On-chain governance.

## Motivation: why is this CIP necessary?

Because.

## Specification

Details.

## Rationale: how does this CIP achieve its goals?

Reasons.

## Path to Active

### Acceptance Criteria

- Hard fork.

### Implementation Plan

- Ship it.

## Copyright

This CIP is licensed under [CC-BY-4.0](https://creativecommons.org/licenses/by/4.0/legalcode).
`

const validCPS = `---
CPS: 3
Title: Smart Tokens
Category: Tokens
Status: Open
Authors:
  - Robert Phair <rphair@cosd.com>
Proposed Solutions:
  - "CIP-0113?: https://github.com/cardano-foundation/CIPs/pull/444"
Discussions:
  - "Original pull request: https://github.com/cardano-foundation/CIPs/pull/382"
Created: 2022-11-29
License: CC-BY-4.0
---

## Abstract

Tokens with rules.

## Problem

No programmable tokens.

## Use Cases

Regulated assets.

## Goals

Safety.

## Open Questions

Many.

## Copyright

This CPS is licensed under [CC-BY-4.0](https://creativecommons.org/licenses/by/4.0/legalcode).
`

// withHeaderLine replaces the header line starting with prefix in doc.
func withHeaderLine(doc, prefix, replacement string) string {
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, prefix) {
			lines[i] = replacement
			break
		}
	}
	return strings.Join(lines, "\n")
}
