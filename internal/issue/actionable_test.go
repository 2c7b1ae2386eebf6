// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load entry manifest"},
			expected: "failed to load entry manifest",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "load entry manifest",
				Resource:  "src/app.json",
			},
			expected: "failed to load entry manifest: src/app.json",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "resolve component",
				Resource:  "src/pages/index/index.json",
				Cause:     errors.New("module not found"),
			},
			expected: "failed to resolve component: src/pages/index/index.json: module not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	cause := &ResolutionError{Context: "/app", Request: "./missing"}
	wrapped := WrapWithContext(cause, "resolve component", "/app/index.json")

	if !errors.Is(wrapped, ErrResolution) {
		t.Error("errors.Is should reach the resolution sentinel through the wrapper")
	}
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := &ActionableError{
		Operation:   "load entry manifest",
		Resource:    "src/app.json",
		Suggestions: []string{"Check the JSON syntax"},
		Cause: &ActionableError{
			Operation: "parse manifest",
			Cause:     errors.New("unexpected token"),
		},
	}

	short := err.Format(false)
	if !strings.Contains(short, "• Check the JSON syntax") {
		t.Errorf("Format(false) missing suggestion:\n%s", short)
	}
	if strings.Contains(short, "Error chain:") {
		t.Errorf("Format(false) should not include the error chain:\n%s", short)
	}

	long := err.Format(true)
	for _, want := range []string{"Error chain:", "1. failed to parse manifest: unexpected token", "2. unexpected token"} {
		if !strings.Contains(long, want) {
			t.Errorf("Format(true) missing %q\n%s", want, long)
		}
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}

	ae := NewErrorContext().
		WithOperation("load configuration").
		WithResource("minipack.cue").
		WithSuggestion("Check the CUE syntax").
		WithSuggestion("Run 'minipack config show'").
		Wrap(errors.New("boom")).
		Build()
	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if len(ae.Suggestions) != 2 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v, want 2", ae.Suggestions)
	}
	if ae.Cause == nil || ae.Cause.Error() != "boom" {
		t.Errorf("Cause = %v", ae.Cause)
	}
}
