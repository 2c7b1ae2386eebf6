// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigNotFound marks an explicitly requested project config file
	// that does not exist.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrConfiguration marks a missing or unparsable entry document. It is
	// always fatal and aborts before resolution starts.
	ErrConfiguration = errors.New("configuration error")
	// ErrIncompleteAsset marks a page or component missing required companion
	// files. Callers recover by dropping the asset with a warning.
	ErrIncompleteAsset = errors.New("incomplete asset")
	// ErrInvariantViolation marks a caller-contract breach. Always fatal.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrResolution marks a request the module resolver could not locate.
	// Fatal for the closure that issued the request.
	ErrResolution = errors.New("resolution failure")
)

type (
	// ConfigurationError reports an entry document that could not be read or parsed.
	// It wraps ErrConfiguration for errors.Is() compatibility.
	ConfigurationError struct {
		Path  string
		Cause error
	}

	// IncompleteAssetError reports a page or component whose bundle has fewer
	// than the minimum number of companion files.
	IncompleteAssetError struct {
		// Path is the bundle base path (no extension).
		Path string
		// Found lists the companion files that do exist.
		Found []string
	}

	// InvariantViolationError reports a broken caller contract.
	InvariantViolationError struct {
		// Op names the operation whose precondition failed.
		Op     string
		Detail string
	}

	// ResolutionError reports a request the module resolver could not locate.
	ResolutionError struct {
		Context string
		Request string
		Cause   error
	}
)

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error in %s: %v", e.Path, e.Cause)
	}
	return "configuration error in " + e.Path
}

// Unwrap returns both the sentinel and the cause.
func (e *ConfigurationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Cause}
}

// Error implements the error interface for IncompleteAssetError.
func (e *IncompleteAssetError) Error() string {
	return fmt.Sprintf("incomplete asset %s: found %d companion file(s) [%s]",
		e.Path, len(e.Found), strings.Join(e.Found, ", "))
}

// Unwrap returns ErrIncompleteAsset for errors.Is() compatibility.
func (e *IncompleteAssetError) Unwrap() error { return ErrIncompleteAsset }

// Error implements the error interface for InvariantViolationError.
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Op, e.Detail)
}

// Unwrap returns ErrInvariantViolation for errors.Is() compatibility.
func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }

// Error implements the error interface for ResolutionError.
func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("cannot resolve %q from %s", e.Request, e.Context)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns both the sentinel and the cause.
func (e *ResolutionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrResolution}
	}
	return []error{ErrResolution, e.Cause}
}

// Violation is shorthand for constructing an InvariantViolationError.
func Violation(op, format string, args ...any) error {
	return &InvariantViolationError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
