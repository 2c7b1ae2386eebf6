// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

const (
	// SeverityWarning indicates a recoverable problem.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal error diagnostic.
	SeverityError Severity = "error"

	// CodeIncompletePage marks a page dropped for missing companion files.
	CodeIncompletePage DiagnosticCode = "incomplete_page"
	// CodeIncompleteComponent marks a component dropped for missing companion files.
	CodeIncompleteComponent DiagnosticCode = "incomplete_component"
	// CodePluginVersionConflict marks a plugin declared with a different
	// version than the one retained.
	CodePluginVersionConflict DiagnosticCode = "plugin_version_conflict"
	// CodeExtFileMissing marks a configured ext file that does not exist.
	CodeExtFileMissing DiagnosticCode = "ext_file_missing"
)

var (
	// ErrInvalidSeverity is returned when a Severity value is not recognized.
	ErrInvalidSeverity = errors.New("invalid severity")
	// ErrInvalidDiagnosticCode is returned when a DiagnosticCode value is not recognized.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// Diagnostic represents a recoverable problem that is returned to callers
	// (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier.
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// Diagnostics is a concurrency-safe, append-only diagnostic list.
	// The zero value is ready to use.
	Diagnostics struct {
		mu    sync.Mutex
		items []Diagnostic
	}

	// InvalidSeverityError is returned when a Severity value is not recognized.
	InvalidSeverityError struct {
		Value Severity
	}

	// InvalidDiagnosticCodeError is returned when a DiagnosticCode value is not recognized.
	InvalidDiagnosticCodeError struct {
		Value DiagnosticCode
	}
)

// Warn builds a warning diagnostic.
func Warn(code DiagnosticCode, path, message string, cause error) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Path: path, Cause: cause}
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Path)
}

// Add appends d.
func (l *Diagnostics) Add(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, d)
}

// List returns a snapshot of every diagnostic added so far.
func (l *Diagnostics) List() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Len returns the number of diagnostics added so far.
func (l *Diagnostics) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (s Severity) String() string { return string(s) }

// IsValid returns whether s is a known severity, and a list of validation
// errors if it is not.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{&InvalidSeverityError{Value: s}}
	}
}

func (c DiagnosticCode) String() string { return string(c) }

// IsValid returns whether c is a known diagnostic code, and a list of
// validation errors if it is not.
func (c DiagnosticCode) IsValid() (bool, []error) {
	switch c {
	case CodeIncompletePage, CodeIncompleteComponent, CodePluginVersionConflict, CodeExtFileMissing:
		return true, nil
	default:
		return false, []error{&InvalidDiagnosticCodeError{Value: c}}
	}
}

func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid severity %q (valid: warning, error)", e.Value)
}

func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

func (e *InvalidDiagnosticCodeError) Error() string {
	return fmt.Sprintf("invalid diagnostic code %q", e.Value)
}

func (e *InvalidDiagnosticCodeError) Unwrap() error { return ErrInvalidDiagnosticCode }
