// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorKinds_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"configuration", &ConfigurationError{Path: "app.json", Cause: fs.ErrNotExist}, ErrConfiguration},
		{"incomplete asset", &IncompleteAssetError{Path: "/p/pages/a/a"}, ErrIncompleteAsset},
		{"invariant", Violation("AddEdges", "missing root"), ErrInvariantViolation},
		{"resolution", &ResolutionError{Context: "/p", Request: "./c"}, ErrResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
		})
	}
}

func TestConfigurationError_KeepsCause(t *testing.T) {
	t.Parallel()

	err := &ConfigurationError{Path: "/p/app.json", Cause: fs.ErrNotExist}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("cause should remain reachable through errors.Is")
	}
	if !strings.Contains(err.Error(), "/p/app.json") {
		t.Errorf("Error() = %q, should name the path", err.Error())
	}
}

func TestIncompleteAssetError_Message(t *testing.T) {
	t.Parallel()

	err := &IncompleteAssetError{Path: "/p/pages/a/a", Found: []string{"/p/pages/a/a.json"}}
	msg := err.Error()
	if !strings.Contains(msg, "found 1 companion file(s)") || !strings.Contains(msg, "a.json") {
		t.Errorf("Error() = %q", msg)
	}

	var target *IncompleteAssetError
	if !errors.As(error(err), &target) || target.Path != "/p/pages/a/a" {
		t.Error("errors.As should recover the typed error")
	}
}
