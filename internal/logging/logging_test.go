// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew_LevelAndPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       Options
		wantDebug  bool
		wantPrefix string
	}{
		{name: "default", opts: Options{}, wantDebug: false, wantPrefix: DefaultPrefix},
		{name: "verbose", opts: Options{Verbose: true}, wantDebug: true, wantPrefix: DefaultPrefix},
		{name: "custom prefix", opts: Options{Prefix: "resolve"}, wantDebug: false, wantPrefix: "resolve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := New(&buf, tt.opts)
			logger.Debug("probing bundle", "path", "pages/a/a")
			logger.Warn("incomplete page bundle", "path", "pages/b/b")

			out := buf.String()
			if got := strings.Contains(out, "probing bundle"); got != tt.wantDebug {
				t.Errorf("debug record present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "incomplete page bundle") {
				t.Errorf("warning record missing:\n%s", out)
			}
			if !strings.Contains(out, tt.wantPrefix) {
				t.Errorf("prefix %q missing:\n%s", tt.wantPrefix, out)
			}
			if !strings.Contains(out, "pages/b/b") {
				t.Errorf("attribute value missing:\n%s", out)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() without logger returned nil")
	}

	var buf bytes.Buffer
	logger := New(&buf, Options{Prefix: "-"})
	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("entry loaded")

	if !strings.Contains(buf.String(), "entry loaded") {
		t.Errorf("record not written through context logger: %q", buf.String())
	}
}

func TestOrDiscard(t *testing.T) {
	t.Parallel()

	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) returned nil")
	}
	l := Discard()
	if OrDiscard(l) != l {
		t.Error("OrDiscard should return its non-nil argument")
	}
}
