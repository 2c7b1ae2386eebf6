// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:   string
	pages?: [...string]
	...
}
`

type testDoc struct {
	Name  string   `json:"name"`
	Pages []string `json:"pages,omitempty"`
}

func TestParseAndDecode_JSON(t *testing.T) {
	t.Parallel()

	data := []byte(`{"name": "demo", "pages": ["pages/index/index"], "theme": {"dark": true}}`)
	result, err := ParseAndDecode[testDoc]([]byte(testSchema), data, "#Doc", WithFilename("app.json"))
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if result.Value.Name != "demo" || len(result.Value.Pages) != 1 {
		t.Errorf("decoded = %+v", result.Value)
	}

	extra, err := DecodeExtra(result.Unified, "name", "pages")
	if err != nil {
		t.Fatalf("DecodeExtra() error = %v", err)
	}
	theme, ok := extra["theme"].(map[string]any)
	if !ok || theme["dark"] != true {
		t.Errorf("extra = %#v, want theme.dark=true", extra)
	}
}

func TestParseAndDecode_SchemaViolation(t *testing.T) {
	t.Parallel()

	data := []byte(`{"name": "demo", "pages": [1]}`)
	_, err := ParseAndDecode[testDoc]([]byte(testSchema), data, "#Doc", WithFilename("app.json"))
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "app.json") {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestParseAndDecode_SizeLimit(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`{"name": "x"}`), "#Doc", WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "x.json") != nil {
		t.Error("FormatError(nil) should be nil")
	}

	err := FormatError(errors.New("some error"), "x.json")
	if !strings.Contains(err.Error(), "x.json") || !strings.Contains(err.Error(), "some error") {
		t.Errorf("FormatError() = %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     []string
		expected string
	}{
		{nil, ""},
		{[]string{"pages"}, "pages"},
		{[]string{"subPackages", "0", "root"}, "subPackages[0].root"},
		{[]string{"tabBar", "list", "2", "iconPath"}, "tabBar.list[2].iconPath"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.expected {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}
