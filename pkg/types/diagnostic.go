// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DiagnosticLevel is the severity of a conversion diagnostic.
type DiagnosticLevel string

const (
	LevelError DiagnosticLevel = "error"
	LevelWarn  DiagnosticLevel = "warn"
)

// Diagnostic is a non-fatal problem reported while converting a page. The
// message always names the offending source fragment.
type Diagnostic struct {
	Level   DiagnosticLevel `json:"level" yaml:"level"`
	Message string          `json:"message" yaml:"message"`
}
