// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/internal/manifest"
)

// AppJSONChange absorbs a rewritten entry manifest and queues the files of
// every page it adds. Files already known to the registry are not queued.
// Nothing is registered until DrainPending.
func (r *Resolver) AppJSONChange(ctx context.Context, cfg *manifest.AppConfig, configPath string) error {
	if cfg == nil {
		return issue.Violation("AppJSONChange", "nil manifest for %s", configPath)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	contextDir := filepath.Dir(configPath)
	r.merger.Absorb(cfg, configPath)

	groups, err := r.loadPages(configPath, r.classifier.ClassifyNewPages(cfg, contextDir))
	if err != nil {
		return err
	}

	var files []string
	for _, group := range groups {
		for _, f := range group {
			if !r.registry.Has(f) {
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return nil
	}

	r.mu.Lock()
	r.pending = append(r.pending, pendingBatch{
		entry: Entry{ConfigPath: configPath, ContextDir: contextDir},
		files: files,
	})
	r.mu.Unlock()

	r.logger.Debug("queued new page files", "entry", configPath, "files", len(files))
	return nil
}

// Pending returns the queued files in queue order.
func (r *Resolver) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var files []string
	for _, b := range r.pending {
		files = append(files, b.files...)
	}
	return files
}

// DrainPending registers every queued file, expands the component closures
// of the queued page configs, and clears the queue. It returns the newly
// scheduled files. On failure the failing batch and every batch after it
// go back to the front of the queue.
func (r *Resolver) DrainPending(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	batches := r.pending
	r.pending = nil
	r.mu.Unlock()

	var scheduled []string
	for i, b := range batches {
		added, err := r.drainBatch(ctx, b)
		scheduled = append(scheduled, added...)
		if err != nil {
			r.requeue(batches[i:])
			return scheduled, err
		}
	}
	return scheduled, nil
}

func (r *Resolver) drainBatch(ctx context.Context, b pendingBatch) ([]string, error) {
	scheduled, err := r.registry.Register(ctx, b.entry.ContextDir, b.files)
	if err != nil {
		return scheduled, err
	}

	components, err := r.graph.Closure(ctx, b.files)
	if err != nil {
		return scheduled, closureError(b.entry, err)
	}
	added, err := r.registry.Register(ctx, b.entry.ContextDir, components)
	return append(scheduled, added...), err
}

func (r *Resolver) requeue(batches []pendingBatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(slices.Clone(batches), r.pending...)
}
