// SPDX-License-Identifier: MPL-2.0

package probe

import (
	"errors"
	"slices"
	"testing"

	"github.com/minipack/minipack/internal/issue"

	"github.com/spf13/afero"
)

var testExts = []string{".js", ".json", ".wxml", ".wxss"}

func writeFiles(t *testing.T, fsys afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := afero.WriteFile(fsys, p, []byte("{}"), 0o644); err != nil {
			t.Fatalf("writing %s: %v", p, err)
		}
	}
}

func TestBundle_Complete(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys,
		"/app/pages/index/index.wxss",
		"/app/pages/index/index.js",
		"/app/pages/index/index.wxml",
		"/app/pages/index/index.json",
	)

	got, err := New(fsys, testExts).Bundle("/app/pages/index/index")
	if err != nil {
		t.Fatalf("Bundle() error = %v", err)
	}
	want := []string{
		"/app/pages/index/index.js",
		"/app/pages/index/index.json",
		"/app/pages/index/index.wxml",
		"/app/pages/index/index.wxss",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Bundle() = %v, want %v (extension order)", got, want)
	}
}

func TestBundle_ConfigOnlyIsIncomplete(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/app/pages/broken/broken.json")

	got, err := New(fsys, testExts).Bundle("/app/pages/broken/broken")
	if !errors.Is(err, issue.ErrIncompleteAsset) {
		t.Fatalf("Bundle() error = %v, want ErrIncompleteAsset", err)
	}
	var incomplete *issue.IncompleteAssetError
	if !errors.As(err, &incomplete) || incomplete.Path != "/app/pages/broken/broken" {
		t.Errorf("error = %#v", err)
	}
	if len(got) != 1 {
		t.Errorf("Bundle() found = %v, want the single config file", got)
	}
}

func TestBundle_DirectoryIsNotAFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/app/c/card.js")
	if err := fsys.MkdirAll("/app/c/card.json", 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := New(fsys, testExts).Bundle("/app/c/card")
	if !errors.Is(err, issue.ErrIncompleteAsset) {
		t.Errorf("Bundle() error = %v, want ErrIncompleteAsset", err)
	}
}

func TestFilesAndExists(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/app/app.wxss", "/app/app.json")
	p := New(fsys, testExts)

	got, err := p.Files("/app/app", ".wxss")
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	if !slices.Equal(got, []string{"/app/app.wxss"}) {
		t.Errorf("Files() = %v", got)
	}
	if !p.Exists("/app/app.json") || p.Exists("/app/ext.json") || p.Exists("/app") {
		t.Error("Exists() misreported")
	}
}
