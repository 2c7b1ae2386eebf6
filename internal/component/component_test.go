// SPDX-License-Identifier: MPL-2.0

package component

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/minipack/minipack/internal/format"
	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/internal/modresolve"
	"github.com/minipack/minipack/internal/probe"
	"github.com/minipack/minipack/internal/testutil"

	"github.com/spf13/afero"
)

func newConfigResolver(fsys afero.Fs, diags *issue.Diagnostics) *ConfigResolver {
	return NewConfigResolver(ConfigResolverOptions{
		Fs:          fsys,
		Modules:     modresolve.New(modresolve.Options{Fs: fsys, Root: "/app", CacheSize: -1}),
		Probe:       probe.New(fsys, format.MustNew(format.TargetWx).BundleExts()),
		Diagnostics: diags,
	})
}

func TestClosure_CircularReferencesTerminate(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemFs(t, map[string]string{
		"/app/pages/index/index.json": `{"usingComponents": {"a": "/components/a/a"}}`,
		"/app/components/a/a.js":      "",
		"/app/components/a/a.wxml":    "",
		"/app/components/a/a.json":    `{"component": true, "usingComponents": {"b": "../b/b"}}`,
		"/app/components/b/b.js":      "",
		"/app/components/b/b.json":    `{"component": true, "usingComponents": {"a": "/components/a/a"}}`,
	})

	set := &Set{}
	g := NewGraphResolver(newConfigResolver(fsys, nil), set, 0)

	files, err := g.Closure(context.Background(), []string{"/app/pages/index/index.js", "/app/pages/index/index.json"})
	if err != nil {
		t.Fatalf("Closure() error = %v", err)
	}

	want := []string{
		"/app/components/a/a.js", "/app/components/a/a.json", "/app/components/a/a.wxml",
		"/app/components/b/b.js", "/app/components/b/b.json",
	}
	if !slices.Equal(files, want) {
		t.Errorf("Closure() = %v, want %v", files, want)
	}
	if got := set.List(); !slices.Equal(got, []string{"/app/components/a/a.js", "/app/components/b/b.js"}) {
		t.Errorf("component set = %v, each component exactly once", got)
	}
}

func TestResolve_SkipsPluginsAndDropsIncomplete(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemFs(t, map[string]string{
		"/app/pages/index/index.json": `{
		  "usingComponents": {
		    "player": "plugin://live/player",
		    "half": "/components/half/half",
		    "cell": "/components/cell/cell"
		  },
		  "componentGenerics": {"slot": {"default": "/components/slot/slot"}}
		}`,
		"/app/components/half/half.js":   "",
		"/app/components/cell/cell.js":   "",
		"/app/components/cell/cell.json": "{}",
		"/app/components/slot/slot.js":   "",
		"/app/components/slot/slot.wxml": "",
	})

	diags := &issue.Diagnostics{}
	r := newConfigResolver(fsys, diags)
	files, err := r.Resolve(context.Background(), "/app/pages/index/index.json", &Set{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{
		"/app/components/cell/cell.js", "/app/components/cell/cell.json",
		"/app/components/slot/slot.js", "/app/components/slot/slot.wxml",
	}
	if !slices.Equal(files, want) {
		t.Errorf("Resolve() = %v, want %v", files, want)
	}

	list := diags.List()
	if len(list) != 1 || list[0].Code != issue.CodeIncompleteComponent || list[0].Path != "/app/components/half/half" {
		t.Errorf("diagnostics = %+v", list)
	}
}

func TestResolve_KnownComponentsAreNotReturned(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemFs(t, map[string]string{
		"/app/pages/a/a.json":            `{"usingComponents": {"card": "/components/card/card"}}`,
		"/app/components/card/card.js":   "",
		"/app/components/card/card.json": "{}",
	})

	set := &Set{}
	set.Insert("/app/components/card/card.js")

	files, err := newConfigResolver(fsys, nil).Resolve(context.Background(), "/app/pages/a/a.json", set)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("Resolve() = %v, want nothing for a known component", files)
	}
}

func TestResolve_UnresolvableRequestFails(t *testing.T) {
	t.Parallel()

	fsys := testutil.MemFs(t, map[string]string{
		"/app/pages/a/a.json": `{"usingComponents": {"ghost": "./ghost"}}`,
	})

	_, err := newConfigResolver(fsys, nil).Resolve(context.Background(), "/app/pages/a/a.json", &Set{})
	if !errors.Is(err, issue.ErrResolution) {
		t.Errorf("Resolve() error = %v, want ErrResolution", err)
	}
}

type fakeFileList struct {
	graph map[string][]string
	fail  string
}

func (f *fakeFileList) Resolve(_ context.Context, jsonPath string, set *Set) ([]string, error) {
	if jsonPath == f.fail {
		return nil, &issue.ResolutionError{Context: jsonPath, Request: "broken"}
	}
	var out []string
	for _, dep := range f.graph[jsonPath] {
		if set.Insert(dep) {
			out = append(out, dep)
		}
	}
	return out, nil
}

func TestClosures_FailureIsolatedToItsGroup(t *testing.T) {
	t.Parallel()

	fake := &fakeFileList{
		graph: map[string][]string{
			"/p/ok.json":     {"/c/x.json"},
			"/c/x.json":      {"/c/y.json", "/c/ok.json"},
			"/p/broken.json": {"/c/z.json"},
		},
		fail: "/c/z.json",
	}
	g := NewGraphResolver(fake, nil, 2)

	results, err := g.Closures(context.Background(), [][]string{{"/p/ok.json"}, {"/p/broken.json"}})
	if !errors.Is(err, issue.ErrResolution) {
		t.Fatalf("Closures() error = %v, want ErrResolution", err)
	}
	if !slices.Equal(results[0], []string{"/c/x.json", "/c/y.json", "/c/ok.json"}) {
		t.Errorf("healthy closure = %v", results[0])
	}
	if !slices.Equal(results[1], []string{"/c/z.json"}) {
		t.Errorf("failing closure should keep what it found before failing, got %v", results[1])
	}
}

func TestClosure_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGraphResolver(&fakeFileList{}, nil, 0)
	if _, err := g.Closure(ctx, []string{"/p/a.json"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Closure() error = %v, want context.Canceled", err)
	}
}
