// SPDX-License-Identifier: MPL-2.0

package format

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target       Target
		wantName     Target
		wantStyle    string
		wantTemplate string
		wantPolyfill bool
	}{
		{target: "", wantName: TargetWx, wantStyle: ".wxss", wantTemplate: ".wxml"},
		{target: TargetWx, wantName: TargetWx, wantStyle: ".wxss", wantTemplate: ".wxml"},
		{target: TargetAli, wantName: TargetAli, wantStyle: ".acss", wantTemplate: ".axml", wantPolyfill: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantName)+"/"+string(tt.target), func(t *testing.T) {
			t.Parallel()

			f, err := New(tt.target)
			if err != nil {
				t.Fatalf("New(%q) error = %v", tt.target, err)
			}
			if f.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", f.Name(), tt.wantName)
			}
			if f.StyleExt() != tt.wantStyle {
				t.Errorf("StyleExt() = %q, want %q", f.StyleExt(), tt.wantStyle)
			}
			if f.TemplateExt() != tt.wantTemplate {
				t.Errorf("TemplateExt() = %q, want %q", f.TemplateExt(), tt.wantTemplate)
			}
			if got := len(f.Polyfill()) > 0; got != tt.wantPolyfill {
				t.Errorf("has polyfill = %v, want %v", got, tt.wantPolyfill)
			}
			exts := f.BundleExts()
			if exts[0] != ScriptExt || exts[1] != ConfigExt {
				t.Errorf("BundleExts() should start with script and config, got %v", exts)
			}
			if !strings.HasSuffix(f.ProjectConfigName(), ".json") {
				t.Errorf("ProjectConfigName() = %q", f.ProjectConfigName())
			}
		})
	}
}

func TestNew_UnknownTarget(t *testing.T) {
	t.Parallel()

	_, err := New("swan")
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("New(swan) error = %v, want ErrInvalidTarget", err)
	}
	var targetErr *InvalidTargetError
	if !errors.As(err, &targetErr) || targetErr.Value != "swan" {
		t.Errorf("error should carry the rejected value, got %v", err)
	}
}

func TestBundleExtsIsACopy(t *testing.T) {
	t.Parallel()

	f := MustNew(TargetWx)
	exts := f.BundleExts()
	exts[0] = ".ts"
	if f.BundleExts()[0] != ScriptExt {
		t.Error("mutating the returned slice changed the dialect")
	}
}

func TestFileKinds(t *testing.T) {
	t.Parallel()

	wxFormat := MustNew(TargetWx)
	if !IsScript("/a/b.js") || IsScript("/a/b.json") {
		t.Error("IsScript misclassified")
	}
	if !IsConfig("/a/b.json") || IsConfig("/a/b.js") {
		t.Error("IsConfig misclassified")
	}
	if !IsTemplate(wxFormat, "/a/b.wxml") || IsTemplate(wxFormat, "/a/b.axml") {
		t.Error("IsTemplate misclassified")
	}
}
