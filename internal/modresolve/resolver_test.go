// SPDX-License-Identifier: MPL-2.0

package modresolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minipack/minipack/internal/issue"

	"github.com/spf13/afero"
)

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/proj/src/components/card/card.js":             "",
		"/proj/src/components/card/card.json":           "{}",
		"/proj/src/components/only-json/only-json.json": "{}",
		"/proj/src/pages/index/index.js":                "",
		"/proj/src/pages/index/local.js":                "",
		"/proj/src/ui/button/button.js":                 "",
		"/proj/src/ui/kit/button/button.js":             "",
		"/proj/node_modules/vant/button/index.js":       "",
		"/proj/node_modules/vant/package.json":          `{"main": "lib/entry"}`,
		"/proj/node_modules/vant/lib/entry.js":          "",
		"/proj/node_modules/bare-dir/index.json":        "{}",
	}
	for p, content := range files {
		if err := afero.WriteFile(fsys, p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fsys
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := New(Options{
		Fs:   newTestFs(t),
		Root: "/proj/src",
		Aliases: map[string]string{
			"@ui":     "ui",
			"@ui/kit": "/proj/src/ui/kit",
		},
	})

	tests := []struct {
		name    string
		context string
		request string
		want    string
	}{
		{"relative sibling", "/proj/src/pages/index", "./local", "/proj/src/pages/index/local.js"},
		{"relative parent", "/proj/src/pages/index", "../../components/card/card", "/proj/src/components/card/card.js"},
		{"app-root-relative", "/proj/src/pages/index", "/components/card/card", "/proj/src/components/card/card.js"},
		{"absolute", "/elsewhere", "/proj/src/components/card/card", "/proj/src/components/card/card.js"},
		{"json fallback", "/proj/src", "./components/only-json/only-json", "/proj/src/components/only-json/only-json.json"},
		{"alias", "/proj/src/pages/index", "@ui/button/button", "/proj/src/ui/button/button.js"},
		{"longest alias wins", "/proj/src/pages/index", "@ui/kit/button/button", "/proj/src/ui/kit/button/button.js"},
		{"bare module index", "/proj/src/pages/index", "vant/button", "/proj/node_modules/vant/button/index.js"},
		{"bare module package main", "/proj/src/pages/index", "vant", "/proj/node_modules/vant/lib/entry.js"},
		{"bare directory index json", "/proj/src", "bare-dir", "/proj/node_modules/bare-dir/index.json"},
		{"bare falls back to root", "/proj/src/pages/index", "components/card/card", "/proj/src/components/card/card.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Resolve(context.Background(), tt.context, tt.request)
			if err != nil {
				t.Fatalf("Resolve(%q, %q) error = %v", tt.context, tt.request, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.context, tt.request, got, tt.want)
			}
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	t.Parallel()

	r := New(Options{Fs: newTestFs(t), Root: "/proj/src"})
	_, err := r.Resolve(context.Background(), "/proj/src/pages/index", "./missing")
	if !errors.Is(err, issue.ErrResolution) {
		t.Fatalf("Resolve() error = %v, want ErrResolution", err)
	}
	var resErr *issue.ResolutionError
	if !errors.As(err, &resErr) || resErr.Request != "./missing" {
		t.Errorf("error should carry the request, got %v", err)
	}
}

func TestResolve_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Options{Fs: newTestFs(t)})
	if _, err := r.Resolve(ctx, "/proj/src", "./components/card/card"); !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

func TestResolve_CachesHits(t *testing.T) {
	t.Parallel()

	fsys := newTestFs(t)
	r := New(Options{Fs: fsys, CacheTTL: time.Minute})

	first, err := r.Resolve(context.Background(), "/proj/src/pages/index", "./local")
	if err != nil {
		t.Fatal(err)
	}
	if err := fsys.Remove("/proj/src/pages/index/local.js"); err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(context.Background(), "/proj/src/pages/index", "./local")
	if err != nil {
		t.Fatalf("cached Resolve() error = %v", err)
	}
	if first != second {
		t.Errorf("cached result %q differs from %q", second, first)
	}

	uncached := New(Options{Fs: fsys, CacheSize: -1})
	if _, err := uncached.Resolve(context.Background(), "/proj/src/pages/index", "./local"); err == nil {
		t.Error("uncached resolver should see the removal")
	}
}
