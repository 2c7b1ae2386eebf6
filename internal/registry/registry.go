// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/minipack/minipack/internal/format"
	"github.com/minipack/minipack/internal/tmplgraph"
)

// ChunkPrefix prefixes the generated name of every asset batch.
const ChunkPrefix = "__assets_chunk_name__"

type (
	// Options configures a Registry.
	Options struct {
		Registrar Registrar
		// Format decides which files are templates.
		Format format.Format
		// Templates receives a root node for every new template file.
		Templates *tmplgraph.Graph
	}

	// Registry is the write-once set of files scheduled for compilation.
	// It is safe for concurrent use.
	Registry struct {
		registrar Registrar
		format    format.Format
		templates *tmplgraph.Graph

		mu     sync.Mutex
		known  map[string]struct{}
		order  []string
		chunks []string
	}
)

// New returns an empty Registry.
func New(opts Options) *Registry {
	registrar := opts.Registrar
	if registrar == nil {
		registrar = &Plan{}
	}
	f := opts.Format
	if f == nil {
		f = format.MustNew(format.TargetWx)
	}
	templates := opts.Templates
	if templates == nil {
		templates = tmplgraph.New()
	}
	return &Registry{
		registrar: registrar,
		format:    f,
		templates: templates,
		known:     make(map[string]struct{}),
	}
}

// Register schedules every file in files not registered or listened to
// before. Scripts are declared one by one, named after their path relative
// to contextDir without extension; the remaining new files are declared as
// one asset batch. It returns the newly scheduled files.
func (r *Registry) Register(ctx context.Context, contextDir string, files []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scripts, assets, chunk := r.claim(files)

	for _, script := range scripts {
		if err := r.registrar.DeclareScriptEntry(contextDir, script, EntryName(contextDir, script)); err != nil {
			return nil, fmt.Errorf("declaring script entry %s: %w", script, err)
		}
	}
	if len(assets) > 0 {
		if err := r.registrar.DeclareAssetEntry(contextDir, assets, chunk); err != nil {
			return nil, fmt.Errorf("declaring asset chunk %s: %w", chunk, err)
		}
	}

	return append(scripts, assets...), nil
}

// claim performs the test-and-insert for a whole batch under one lock and
// allocates the batch's chunk name.
func (r *Registry) claim(files []string) (scripts, assets []string, chunk string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range files {
		if _, ok := r.known[f]; ok {
			continue
		}
		r.known[f] = struct{}{}
		r.order = append(r.order, f)

		if format.IsTemplate(r.format, f) {
			r.templates.AddRoot(f)
		}
		if format.IsScript(f) {
			scripts = append(scripts, f)
		} else {
			assets = append(assets, f)
		}
	}

	if len(assets) > 0 {
		chunk = fmt.Sprintf("%s%d", ChunkPrefix, len(r.chunks))
		r.chunks = append(r.chunks, chunk)
	}
	return scripts, assets, chunk
}

// Listen records files as known without scheduling them.
func (r *Registry) Listen(files []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range files {
		if _, ok := r.known[f]; ok {
			continue
		}
		r.known[f] = struct{}{}
		r.order = append(r.order, f)
	}
}

// Has reports whether path is known.
func (r *Registry) Has(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.known[path]
	return ok
}

// Files returns every known path in first-seen order.
func (r *Registry) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// ChunkNames returns the generated asset chunk names in allocation order.
func (r *Registry) ChunkNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.chunks)
}

// Templates returns the template graph new templates are added to.
func (r *Registry) Templates() *tmplgraph.Graph {
	return r.templates
}

// EntryName is the bundler entry name of file: its slash-separated path
// relative to contextDir, without extension.
func EntryName(contextDir, file string) string {
	rel, err := filepath.Rel(contextDir, file)
	if err != nil {
		rel = file
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
}
