// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/internal/logging"
)

type (
	// Merger accumulates entry manifests and merges them on Finalize.
	// It is safe for concurrent use.
	Merger struct {
		mu        sync.Mutex
		order     []string
		snapshots map[string]*AppConfig
		warned    map[pluginSource]struct{}
		// roots caches SubpackageRoots until the next Absorb.
		roots []string
		diags     issue.Diagnostics
		logger    *slog.Logger
	}

	pluginSource struct {
		id     string
		source string
	}
)

// NewMerger returns an empty Merger. A nil logger discards warnings.
func NewMerger(logger *slog.Logger) *Merger {
	return &Merger{
		snapshots: make(map[string]*AppConfig),
		warned:    make(map[pluginSource]struct{}),
		logger:    logging.OrDiscard(logger),
	}
}

// Absorb stores cfg under sourceKey. Absorbing a key again replaces its
// snapshot but keeps the position of the first absorb.
func (m *Merger) Absorb(cfg *AppConfig, sourceKey string) {
	if cfg == nil {
		cfg = &AppConfig{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, seen := m.snapshots[sourceKey]; !seen {
		m.order = append(m.order, sourceKey)
	}
	m.snapshots[sourceKey] = cfg
	m.roots = nil
}

// Sources returns every absorbed key in visitation order.
func (m *Merger) Sources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order)
}

// Snapshot returns the config absorbed under sourceKey, or nil.
func (m *Merger) Snapshot(sourceKey string) *AppConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots[sourceKey]
}

// Finalize merges every snapshot, in visitation order, into one manifest.
// Plugin version conflicts are logged and recorded as diagnostics; they
// never fail the merge. It may be called any number of times.
func (m *Merger) Finalize() *AppManifest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := &AppManifest{
		Pages:           []string{},
		SubPackages:     []SubPackage{},
		PreloadRule:     map[string]any{},
		UsingComponents: map[string]string{},
		Plugins:         map[string]Plugin{},
	}

	var (
		subRoots []string
		subByKey = map[string]*SubPackage{}
	)

	for _, key := range m.order {
		cfg := m.snapshots[key]

		out.Pages = append(out.Pages, cfg.Pages...)

		for _, sp := range cfg.SubPackages {
			merged, ok := subByKey[sp.Root]
			if !ok {
				copied := sp
				copied.Pages = slices.Clone(sp.Pages)
				subByKey[sp.Root] = &copied
				subRoots = append(subRoots, sp.Root)
				continue
			}
			merged.Pages = append(merged.Pages, sp.Pages...)
		}

		maps.Copy(out.PreloadRule, cfg.PreloadRule)
		maps.Copy(out.UsingComponents, cfg.UsingComponents)

		m.mergePlugins(out.Plugins, cfg.Plugins, key)

		if out.TabBar.IsEmpty() && !cfg.TabBar.IsEmpty() {
			out.TabBar = cfg.TabBar
		}
		if len(out.Window) == 0 && len(cfg.Window) > 0 {
			out.Window = cfg.Window
		}
		if len(out.NetworkTimeout) == 0 && len(cfg.NetworkTimeout) > 0 {
			out.NetworkTimeout = cfg.NetworkTimeout
		}
		if !isSet(out.Debug) && isSet(cfg.Debug) {
			out.Debug = cfg.Debug
		}
		if !isSet(out.FunctionalPages) && isSet(cfg.FunctionalPages) {
			out.FunctionalPages = cfg.FunctionalPages
		}
		for field, value := range cfg.Extra {
			if out.Extra == nil {
				out.Extra = make(map[string]any)
			}
			if _, taken := out.Extra[field]; !taken {
				out.Extra[field] = value
			}
		}
	}

	out.Pages = dedupe(out.Pages)
	for _, root := range subRoots {
		sp := subByKey[root]
		sp.Pages = dedupe(sp.Pages)
		out.SubPackages = append(out.SubPackages, *sp)
	}

	return out
}

// mergePlugins keeps the first version seen per plugin id. Each conflicting
// (id, source) pair is reported once across Finalize calls.
func (m *Merger) mergePlugins(dst, src map[string]Plugin, source string) {
	for _, id := range slices.Sorted(maps.Keys(src)) {
		plugin := src[id]
		kept, ok := dst[id]
		if !ok {
			dst[id] = plugin
			continue
		}
		if kept.Version == plugin.Version {
			continue
		}

		key := pluginSource{id: id, source: source}
		if _, done := m.warned[key]; done {
			continue
		}
		m.warned[key] = struct{}{}

		m.logger.Warn("plugin declared with a different version than another entry",
			"plugin", id, "path", source, "version", plugin.Version, "kept", kept.Version)
		m.diags.Add(issue.Warn(issue.CodePluginVersionConflict, source,
			fmt.Sprintf("plugin %s uses version %s, keeping %s", id, plugin.Version, kept.Version), nil))
	}
}

// Diagnostics returns the plugin conflicts recorded by Finalize.
func (m *Merger) Diagnostics() []issue.Diagnostic {
	return m.diags.List()
}

// SubpackageRoots returns the distinct subpackage roots of every snapshot,
// in visitation order. Unlike Finalize it records no diagnostics.
func (m *Merger) SubpackageRoots() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.roots == nil {
		roots := []string{}
		for _, key := range m.order {
			for _, sp := range m.snapshots[key].SubPackages {
				if !slices.Contains(roots, sp.Root) {
					roots = append(roots, sp.Root)
				}
			}
		}
		m.roots = roots
	}
	return slices.Clone(m.roots)
}

// isSet treats nil and false alike, so a later true still wins.
func isSet(b *bool) bool {
	return b != nil && *b
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
