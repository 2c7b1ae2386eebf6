// SPDX-License-Identifier: MPL-2.0

package sourceroot

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/minipack/minipack/internal/issue"
)

const (
	// DependencyMarker is the directory segment that holds third-party packages.
	DependencyMarker = "node_modules"

	parentMarker = "../"
)

type (
	// Options lists the directories a Resolver is built from.
	Options struct {
		// SourceDir is the compiled-source directory (usually <context>/src).
		SourceDir string
		// OutputDir is the packager's output directory.
		OutputDir string
		// Resources are additional roots declared by the host configuration.
		Resources []string
		// EntryDirs are the directories of every entry manifest.
		EntryDirs []string
	}

	// Resolver maps source paths to output-relative paths.
	Resolver struct {
		sourceDir string
		outputDir string
		roots     []string
	}
)

// New builds a Resolver. Roots are cleaned, converted to slash form and
// deduplicated, keeping the order source dir, resources, entry dirs.
func New(opts Options) *Resolver {
	r := &Resolver{
		sourceDir: toSlashClean(opts.SourceDir),
		outputDir: opts.OutputDir,
	}

	candidates := make([]string, 0, 1+len(opts.Resources)+len(opts.EntryDirs))
	candidates = append(candidates, opts.SourceDir)
	candidates = append(candidates, opts.Resources...)
	candidates = append(candidates, opts.EntryDirs...)

	for _, c := range candidates {
		if c == "" {
			continue
		}
		root := toSlashClean(c)
		if !slices.Contains(r.roots, root) {
			r.roots = append(r.roots, root)
		}
	}
	return r
}

// Roots returns a copy of the frozen root list.
func (r *Resolver) Roots() []string {
	return slices.Clone(r.roots)
}

// SourceDir returns the compiled-source directory in slash form.
func (r *Resolver) SourceDir() string {
	return r.sourceDir
}

// Resolve returns the output-relative path for p. The output directory
// itself is returned unchanged. Absolute paths outside every root keep
// their absolute form; relative paths with parent markers that match no
// root keep only the tail after the markers. A dependency-package prefix
// is stripped in both cases.
func (r *Resolver) Resolve(p string) (string, error) {
	if p == r.outputDir {
		return p, nil
	}

	slashed := filepath.ToSlash(p)
	levels, tail := countParents(slashed)

	var rel string
	switch {
	case filepath.IsAbs(p) || path.IsAbs(slashed):
		rel, _ = r.stripRoot(path.Clean(slashed))
	case levels == 0:
		// Already relative to the source directory.
		rel = tail
	default:
		candidate := r.sourceDir
		for range levels {
			candidate = path.Dir(candidate)
		}
		stripped, ok := r.stripRoot(path.Join(candidate, tail))
		if !ok {
			stripped = tail
		}
		rel = stripped
	}

	return stripDependencyPrefix(rel)
}

// stripRoot removes everything through the earliest root occurrence in
// candidate. Ties on position go to the root declared first. A match only
// counts when it ends at a segment boundary. It reports whether any root
// matched; without a match candidate is returned unchanged.
func (r *Resolver) stripRoot(candidate string) (string, bool) {
	bestIdx, bestEnd := -1, 0
	for _, root := range r.roots {
		idx := indexAtBoundary(candidate, root)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			bestIdx, bestEnd = idx, idx+len(root)
		}
	}
	if bestIdx < 0 {
		return candidate, false
	}
	return strings.TrimPrefix(candidate[bestEnd:], "/"), true
}

// indexAtBoundary finds the first occurrence of root in s that is followed
// by a separator or the end of s.
func indexAtBoundary(s, root string) int {
	offset := 0
	for {
		i := strings.Index(s[offset:], root)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(root)
		if end == len(s) || s[end] == '/' || strings.HasSuffix(root, "/") {
			return start
		}
		offset = start + 1
	}
}

// countParents collapses "../" markers anywhere in p into a leading run and
// returns its length together with the cleaned remainder.
func countParents(p string) (int, string) {
	if !strings.Contains(p, parentMarker) && p != ".." {
		return 0, p
	}
	cleaned := path.Clean(p)
	levels := 0
	for cleaned == ".." || strings.HasPrefix(cleaned, parentMarker) {
		levels++
		if cleaned == ".." {
			cleaned = ""
			break
		}
		cleaned = cleaned[len(parentMarker):]
	}
	return levels, cleaned
}

// stripDependencyPrefix drops everything through the first dependency
// marker segment so package files land at a flattened location.
func stripDependencyPrefix(p string) (string, error) {
	segments := strings.Split(p, "/")
	idx := slices.Index(segments, DependencyMarker)
	if idx < 0 {
		return p, nil
	}
	rest := segments[idx+1:]
	if slices.Contains(rest, DependencyMarker) {
		return "", issue.Violation("sourceroot.Resolve",
			"path %s still contains %s after flattening", p, DependencyMarker)
	}
	return strings.Join(rest, "/"), nil
}

func toSlashClean(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(filepath.ToSlash(p))
}
