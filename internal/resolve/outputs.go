// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/minipack/minipack/internal/config"
	"github.com/minipack/minipack/internal/format"
	"github.com/minipack/minipack/internal/issue"

	"github.com/spf13/afero"
)

// mainEntryName is the entry whose compiled files are kept as is.
const mainEntryName = "app"

// ExtEnabled reports whether an ext manifest is shipped.
func (r *Resolver) ExtEnabled() bool {
	return r.extEnabled
}

// ExtManifestPath returns the ext manifest location, or "" when disabled.
func (r *Resolver) ExtManifestPath() string {
	if !r.extEnabled {
		return ""
	}
	if r.extPath != "" {
		return r.extPath
	}
	return filepath.Join(r.entries[0].ContextDir, config.DefaultExtFileName)
}

// ExtManifest returns the ext manifest as indented JSON. A missing file
// yields "{}" and a warning. It returns nil when ext manifests are disabled.
func (r *Resolver) ExtManifest() ([]byte, error) {
	p := r.ExtManifestPath()
	if p == "" {
		return nil, nil
	}

	data, err := afero.ReadFile(r.fs, p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading ext manifest: %w", err)
		}
		r.logger.Warn("ext manifest not found", "path", p)
		r.diags.Add(issue.Warn(issue.CodeExtFileMissing, p, "ext manifest not found, writing an empty one", err))
		return []byte("{}"), nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &issue.ConfigurationError{Path: p, Cause: err}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// IgnoredOutputs lists the compiled outputs the packager must drop: the
// JSON, script and stylesheet of every entry but the main app entry, and
// the script of every asset chunk.
func (r *Resolver) IgnoredOutputs() []string {
	var out []string
	for _, name := range r.entryNames() {
		if name == mainEntryName {
			continue
		}
		out = append(out, name+format.ConfigExt, name+r.format.StyleExt(), name+format.ScriptExt)
	}
	for _, chunk := range r.registry.ChunkNames() {
		out = append(out, chunk+format.ScriptExt)
	}
	return out
}

// AppStylesheet concatenates the compiled entry stylesheets found in assets,
// keyed by output name, after the platform polyfill.
func (r *Resolver) AppStylesheet(assets map[string][]byte) []byte {
	var b bytes.Buffer
	if polyfill := r.format.Polyfill(); len(polyfill) > 0 {
		b.WriteString("/* polyfill */\n")
		b.Write(polyfill)
		b.WriteByte('\n')
	}
	for _, name := range r.entryNames() {
		key := name + r.format.StyleExt()
		code, ok := assets[key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "/************ %s *************/\n", key)
		b.Write(code)
	}
	return b.Bytes()
}

// entryNames returns the distinct entry names in entry order.
func (r *Resolver) entryNames() []string {
	var names []string
	for _, e := range r.entries {
		if !slices.Contains(names, e.Name) {
			names = append(names, e.Name)
		}
	}
	return names
}
