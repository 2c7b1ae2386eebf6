// SPDX-License-Identifier: MPL-2.0

// Package probe locates the companion files that make up a page or
// component bundle.
package probe

import (
	"errors"
	"io/fs"

	"github.com/minipack/minipack/internal/issue"

	"github.com/spf13/afero"
)

// MinBundleSize is the number of companion files a bundle needs to be usable.
const MinBundleSize = 2

// Probe checks file existence on an afero filesystem.
type Probe struct {
	fs   afero.Fs
	exts []string
}

// New returns a Probe that assembles bundles from exts, in order.
// A nil fs selects the OS filesystem.
func New(fsys afero.Fs, exts []string) *Probe {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Probe{fs: fsys, exts: exts}
}

// Fs returns the underlying filesystem.
func (p *Probe) Fs() afero.Fs {
	return p.fs
}

// Exists reports whether path names an existing regular file.
func (p *Probe) Exists(path string) bool {
	info, err := p.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// Files returns base+ext for every ext whose file exists, in ext order.
func (p *Probe) Files(base string, exts ...string) ([]string, error) {
	var files []string
	for _, ext := range exts {
		candidate := base + ext
		info, err := p.fs.Stat(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return files, err
		}
		if !info.IsDir() {
			files = append(files, candidate)
		}
	}
	return files, nil
}

// Bundle returns the companion files of the bundle at base (a path without
// extension). A bundle with fewer than MinBundleSize files yields the files
// found together with an *issue.IncompleteAssetError.
func (p *Probe) Bundle(base string) ([]string, error) {
	files, err := p.Files(base, p.exts...)
	if err != nil {
		return nil, err
	}
	if len(files) < MinBundleSize {
		return files, &issue.IncompleteAssetError{Path: base, Found: files}
	}
	return files, nil
}
