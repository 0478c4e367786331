package domain

import "bytes"

// Line ending messages.
const (
	MsgCRLF = "File uses Windows line endings (CRLF). Use UNIX line endings (LF) instead."
	MsgCR   = "File uses old Mac line endings (CR). Use UNIX line endings (LF) instead."
)

// CheckLineEndings reports CRLF sequences and carriage returns that are not
// part of a CRLF pair. It never stops validation.
func CheckLineEndings(raw []byte) []Finding {
	var findings []Finding
	if bytes.Contains(raw, []byte("\r\n")) {
		findings = append(findings, NewFinding(FindingLineEndingViolation, MsgCRLF))
	}
	if bytes.ContainsRune(bytes.ReplaceAll(raw, []byte("\r\n"), nil), '\r') {
		findings = append(findings, NewFinding(FindingLineEndingViolation, MsgCR))
	}
	return findings
}
