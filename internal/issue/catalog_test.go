// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	values := Values()
	if len(values) != 5 {
		t.Fatalf("len(Values()) = %d, want 5", len(values))
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %d has empty markdown", v.Id())
		}
	}
}

func TestForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"config not found", fmt.Errorf("%w: minipack.cue", ErrConfigNotFound), ConfigNotFoundId},
		{"configuration", &ConfigurationError{Path: "app.json"}, ManifestParseErrorId},
		{"resolution", fmt.Errorf("closure: %w", &ResolutionError{Request: "./x"}), ResolutionFailedId},
		{"incomplete", &IncompleteAssetError{Path: "pages/a/a"}, IncompleteAssetId},
		{"invariant", Violation("AddEdges", "no node for %s", "a.wxml"), InvariantViolationId},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForError(tt.err)
			if got == nil || got.Id() != tt.want {
				t.Errorf("ForError() = %v, want id %d", got, tt.want)
			}
		})
	}

	if ForError(fmt.Errorf("plain")) != nil {
		t.Error("ForError(plain) should be nil")
	}
}

func TestIssue_Render(t *testing.T) {
	out, err := Get(ResolutionFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Could not resolve a component") {
		t.Errorf("Render() output missing title:\n%s", out)
	}
}
