// SPDX-License-Identifier: MPL-2.0

package subpackage

import (
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/minipack/minipack/internal/format"
	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/internal/manifest"
)

type (
	// RootSource supplies the current subpackage roots in manifest order.
	// *manifest.Merger implements it.
	RootSource interface {
		SubpackageRoots() []string
	}

	// Module is a compiled module as seen by code-splitting.
	Module struct {
		// Resource is the module's source path.
		Resource string
		// Entry marks modules declared directly as bundler entries.
		Entry bool
		// UsedBy lists the paths of every file requiring this module.
		// nil means the module carries no usage tracking at all.
		UsedBy []string
	}

	// Classifier tracks known pages and the page list of every subpackage.
	// It is safe for concurrent use.
	Classifier struct {
		roots RootSource

		mu       sync.Mutex
		pages    map[string]struct{}
		subpages map[string][]string
	}
)

// New returns a Classifier reading roots from src.
func New(src RootSource) *Classifier {
	return &Classifier{
		roots:    src,
		pages:    make(map[string]struct{}),
		subpages: make(map[string][]string),
	}
}

// ClassifyNewPages returns the absolute paths (without extension) of the
// pages in cfg that are not yet known, subpackage pages first. It records
// every subpackage's page list relative to the app root. Pages become known
// through MarkPage, not through this call.
func (c *Classifier) ClassifyNewPages(cfg *manifest.AppConfig, baseContext string) []string {
	if cfg == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var fresh []string
	consider := func(page string) {
		if _, known := c.pages[page]; known || slices.Contains(fresh, page) {
			return
		}
		fresh = append(fresh, page)
	}

	for _, sp := range cfg.SubPackages {
		rel := make([]string, 0, len(sp.Pages))
		for _, page := range sp.Pages {
			rel = append(rel, path.Join(sp.Root, page))
			consider(filepath.Join(baseContext, filepath.FromSlash(sp.Root), filepath.FromSlash(page)))
		}
		c.subpages[sp.Root] = rel
	}

	for _, page := range cfg.Pages {
		consider(filepath.Join(baseContext, filepath.FromSlash(page)))
	}

	return fresh
}

// MarkPage records page as known. It reports whether page was new.
func (c *Classifier) MarkPage(page string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, known := c.pages[page]; known {
		return false
	}
	c.pages[page] = struct{}{}
	return true
}

// KnownPage reports whether page has been marked.
func (c *Classifier) KnownPage(page string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pages[page]
	return ok
}

// SubpackagePages returns the pages last recorded for root.
func (c *Classifier) SubpackagePages(root string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.subpages[root])
}

// PathInSubpackage reports whether p lies under any root.
func (c *Classifier) PathInSubpackage(p string) bool {
	return c.PathRoot(p) != ""
}

// PathRoot returns the first root that p lies under, or "".
func (c *Classifier) PathRoot(p string) string {
	for _, root := range c.roots.SubpackageRoots() {
		if underRoot(p, root) {
			return root
		}
	}
	return ""
}

// PathsShareSubpackage returns the root owning every path in paths, or "".
func (c *Classifier) PathsShareSubpackage(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	root := c.PathRoot(paths[0])
	if root == "" {
		return ""
	}
	for _, p := range paths {
		if !underRoot(p, root) {
			return ""
		}
	}
	return root
}

// PathsShareDirectory returns the first path segment shared by every path
// in paths, or "". Only the first segment is compared.
func PathsShareDirectory(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	folder := firstSegment(paths[0])
	if folder == "" {
		return ""
	}
	for _, p := range paths {
		if firstSegment(p) != folder {
			return ""
		}
	}
	return folder
}

// OtherPackageFiles returns the files that do not mention root anywhere.
func OtherPackageFiles(root string, files []string) []string {
	var out []string
	for _, f := range files {
		if !strings.Contains(f, root) {
			out = append(out, f)
		}
	}
	return out
}

// ModuleOnlyUsedBySubpackages reports whether every user of m lives in some
// subpackage. Entry modules and non-script resources are never eligible.
func (c *Classifier) ModuleOnlyUsedBySubpackages(m Module) (bool, error) {
	users, eligible, err := usage("ModuleOnlyUsedBySubpackages", m)
	if !eligible || err != nil {
		return false, err
	}
	roots := c.roots.SubpackageRoots()
	if len(roots) == 0 || len(users) == 0 {
		return false, nil
	}
	for _, u := range users {
		if c.PathRoot(u) == "" {
			return false, nil
		}
	}
	return true, nil
}

// ModuleUsedBySubpackage reports whether any user of m lives under root.
func (c *Classifier) ModuleUsedBySubpackage(m Module, root string) (bool, error) {
	users, eligible, err := usage("ModuleUsedBySubpackage", m)
	if !eligible || err != nil || root == "" {
		return false, err
	}
	return slices.ContainsFunc(users, func(u string) bool {
		return underRoot(u, root)
	}), nil
}

// ModuleOnlyUsedBySubpackage reports whether every user of m lives under root.
func (c *Classifier) ModuleOnlyUsedBySubpackage(m Module, root string) (bool, error) {
	users, eligible, err := usage("ModuleOnlyUsedBySubpackage", m)
	if !eligible || err != nil || root == "" || len(users) == 0 {
		return false, err
	}
	for _, u := range users {
		if !underRoot(u, root) {
			return false, nil
		}
	}
	return true, nil
}

// usage returns m's users when m is a tracked, non-entry script module.
func usage(op string, m Module) ([]string, bool, error) {
	if !format.IsScript(m.Resource) || m.Entry {
		return nil, false, nil
	}
	if m.UsedBy == nil {
		return nil, false, issue.Violation("subpackage."+op,
			"module %s carries no usage tracking", m.Resource)
	}
	return m.UsedBy, true, nil
}

// underRoot reports whether p starts with root at a segment boundary:
// the prefix must be followed by "/" or the end of p, unless root itself
// ends in "/".
func underRoot(p, root string) bool {
	if root == "" || !strings.HasPrefix(p, root) {
		return false
	}
	return len(p) == len(root) || strings.HasSuffix(root, "/") || p[len(root)] == '/'
}

func firstSegment(p string) string {
	seg, _, _ := strings.Cut(p, "/")
	return seg
}
