// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/minipack/minipack/internal/component"
	"github.com/minipack/minipack/internal/config"
	"github.com/minipack/minipack/internal/filetree"
	"github.com/minipack/minipack/internal/format"
	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/internal/logging"
	"github.com/minipack/minipack/internal/manifest"
	"github.com/minipack/minipack/internal/modresolve"
	"github.com/minipack/minipack/internal/probe"
	"github.com/minipack/minipack/internal/registry"
	"github.com/minipack/minipack/internal/sourceroot"
	"github.com/minipack/minipack/internal/subpackage"
	"github.com/minipack/minipack/internal/tmplgraph"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

type (
	// Options configures a Resolver. Paths are absolute.
	Options struct {
		// Fs is the project filesystem. Defaults to the OS filesystem.
		Fs afero.Fs
		// Format is the platform dialect. Defaults to wx.
		Format format.Format
		// Entries lists the entry manifests. The first one is the main entry.
		Entries []string
		// SourceDir is the compiled-source root, usually <context>/src.
		SourceDir string
		// OutputDir is the packager's output directory.
		OutputDir string
		// Resources are extra source roots for output paths.
		Resources []string
		// ExtEnabled ships an ext manifest with the main entry.
		ExtEnabled bool
		// ExtPath selects the ext manifest. Empty selects the main entry's ext.json.
		ExtPath string
		// Aliases are component request aliases for the default module resolver.
		Aliases map[string]string
		// Registrar receives the bundler declarations. Defaults to a registry.Plan.
		Registrar registry.Registrar
		// Modules overrides the default filesystem module resolver.
		Modules modresolve.Resolver
		// Concurrency caps the page closures resolved at once per entry.
		Concurrency int
		Logger      *slog.Logger
	}

	// Entry describes one entry manifest. It is immutable.
	Entry struct {
		ConfigPath string
		ContextDir string
		// Name is the manifest base name without extension.
		Name   string
		IsMain bool
	}

	// Resolver is the resolution context of one packaging run.
	// It is safe for concurrent use.
	Resolver struct {
		fs          afero.Fs
		format      format.Format
		entries     []Entry
		extEnabled  bool
		extPath     string
		concurrency int
		logger      *slog.Logger

		diags      *issue.Diagnostics
		merger     *manifest.Merger
		classifier *subpackage.Classifier
		probe      *probe.Probe
		templates  *tmplgraph.Graph
		registry   *registry.Registry
		tree       *filetree.Tree
		graph      *component.GraphResolver
		roots      *sourceroot.Resolver

		mu      sync.Mutex
		loaded  bool
		pending []pendingBatch
	}

	pendingBatch struct {
		entry Entry
		files []string
	}
)

// OptionsFromLayout maps a resolved project layout onto Options.
func OptionsFromLayout(l *config.Layout, f format.Format) Options {
	return Options{
		Format:     f,
		Entries:    slices.Clone(l.Entries),
		SourceDir:  l.SourceDir,
		OutputDir:  l.OutputDir,
		Resources:  slices.Clone(l.Resources),
		ExtEnabled: l.ExtEnabled,
		ExtPath:    l.ExtPath,
		Aliases:    l.Alias,
	}
}

// New builds a Resolver. It fails when no entry is given.
func New(opts Options) (*Resolver, error) {
	if len(opts.Entries) == 0 {
		return nil, issue.Violation("resolve.New", "at least one entry manifest is required")
	}

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	f := opts.Format
	if f == nil {
		f = format.MustNew(format.TargetWx)
	}
	logger := logging.OrDiscard(opts.Logger)

	r := &Resolver{
		fs:          fsys,
		format:      f,
		extEnabled:  opts.ExtEnabled,
		extPath:     opts.ExtPath,
		concurrency: opts.Concurrency,
		logger:      logger,
		diags:       &issue.Diagnostics{},
		merger:      manifest.NewMerger(logger),
		probe:       probe.New(fsys, f.BundleExts()),
		templates:   tmplgraph.New(),
		tree:        filetree.New(),
	}

	entryDirs := make([]string, 0, len(opts.Entries))
	for i, p := range opts.Entries {
		p = filepath.Clean(p)
		e := Entry{
			ConfigPath: p,
			ContextDir: filepath.Dir(p),
			Name:       strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
			IsMain:     i == 0,
		}
		r.entries = append(r.entries, e)
		entryDirs = append(entryDirs, e.ContextDir)
	}

	r.classifier = subpackage.New(r.merger)
	r.registry = registry.New(registry.Options{
		Registrar: opts.Registrar,
		Format:    f,
		Templates: r.templates,
	})
	r.roots = sourceroot.New(sourceroot.Options{
		SourceDir: opts.SourceDir,
		OutputDir: opts.OutputDir,
		Resources: opts.Resources,
		EntryDirs: entryDirs,
	})

	modules := opts.Modules
	if modules == nil {
		modules = modresolve.New(modresolve.Options{
			Fs:      fsys,
			Root:    r.entries[0].ContextDir,
			Aliases: opts.Aliases,
			Logger:  logger,
		})
	}
	files := component.NewConfigResolver(component.ConfigResolverOptions{
		Fs:          fsys,
		Modules:     modules,
		Probe:       r.probe,
		Diagnostics: r.diags,
		Logger:      logger,
	})
	r.graph = component.NewGraphResolver(files, nil, opts.Concurrency)

	return r, nil
}

// LoadEntries performs the initial pass over every entry: parse, absorb,
// classify new pages, register page and entry files, and expand component
// closures. Closures of all entries run concurrently; the first failure
// cancels the rest and is returned. It may only be called once.
func (r *Resolver) LoadEntries(ctx context.Context) error {
	r.mu.Lock()
	if r.loaded {
		r.mu.Unlock()
		return issue.Violation("LoadEntries", "entries are already loaded")
	}
	r.loaded = true
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, egCtx := errgroup.WithContext(ctx)
	components := make([][]string, len(r.entries))

	abort := func(err error) error {
		cancel()
		_ = eg.Wait()
		return err
	}

	for i, entry := range r.entries {
		r.tree.AddEntry(entry.ConfigPath)

		cfg, err := r.readEntry(entry)
		if err != nil {
			return abort(err)
		}
		r.merger.Absorb(cfg, entry.ConfigPath)

		groups, err := r.loadPages(entry.ConfigPath, r.classifier.ClassifyNewPages(cfg, entry.ContextDir))
		if err != nil {
			return abort(err)
		}
		seeds := append(slices.Clone(groups), []string{entry.ConfigPath})

		eg.Go(func() error {
			results, err := r.graph.Closures(egCtx, seeds)
			components[i] = slices.Concat(results...)
			if err != nil {
				return closureError(entry, err)
			}
			return nil
		})

		pageFiles := append(slices.Concat(groups...), entry.ConfigPath)
		if _, err := r.registry.Register(ctx, entry.ContextDir, pageFiles); err != nil {
			return abort(err)
		}

		styles, err := r.probe.Files(filepath.Join(entry.ContextDir, entry.Name), r.format.StyleExt())
		if err != nil {
			return abort(fmt.Errorf("probing stylesheet of %s: %w", entry.ConfigPath, err))
		}
		r.tree.SetFiles(entry.ConfigPath, styles)
		if _, err := r.registry.Register(ctx, entry.ContextDir, styles); err != nil {
			return abort(err)
		}

		r.logger.Debug("entry loaded", "entry", entry.ConfigPath, "pages", len(groups))
	}

	if err := r.registerMainExtras(ctx); err != nil {
		return abort(err)
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	// Component files are registered in entry order once every closure is in.
	for i, entry := range r.entries {
		if _, err := r.registry.Register(ctx, entry.ContextDir, components[i]); err != nil {
			return err
		}
	}
	return nil
}

// readEntry reads and parses an entry manifest.
func (r *Resolver) readEntry(e Entry) (*manifest.AppConfig, error) {
	data, err := afero.ReadFile(r.fs, e.ConfigPath)
	var cfg *manifest.AppConfig
	if err != nil {
		err = &issue.ConfigurationError{Path: e.ConfigPath, Cause: err}
	} else {
		cfg, err = manifest.Parse(data, e.ConfigPath)
	}
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load entry manifest").
			WithResource(e.ConfigPath).
			WithSuggestion("Check that the path listed under 'entries' exists").
			WithSuggestion("Validate the file as JSON; comments and trailing commas are not allowed").
			Wrap(err).
			BuildError()
	}
	return cfg, nil
}

// loadPages locates the bundle of every page and attaches complete ones to
// entry in the file tree. Incomplete pages are dropped with a warning and
// stay unknown. It returns one file group per kept page.
func (r *Resolver) loadPages(entry string, pages []string) ([][]string, error) {
	var groups [][]string
	for _, page := range pages {
		files, err := r.probe.Bundle(page)
		if err != nil {
			if errors.Is(err, issue.ErrIncompleteAsset) {
				r.logger.Warn("dropping incomplete page", "page", page, "found", len(files))
				r.diags.Add(issue.Warn(issue.CodeIncompletePage, page,
					fmt.Sprintf("page %s lacks required files", page), err))
				continue
			}
			return nil, fmt.Errorf("probing page %s: %w", page, err)
		}
		if !r.classifier.MarkPage(page) {
			continue
		}
		r.tree.AddPage(entry, page, files)
		groups = append(groups, files)
	}
	return groups, nil
}

// registerMainExtras registers the main entry's project config, ext
// manifest, script and existing tab-bar icons.
func (r *Resolver) registerMainExtras(ctx context.Context) error {
	mainEntry := r.entries[0]

	candidates := []string{filepath.Join(mainEntry.ContextDir, r.format.ProjectConfigName())}
	if r.extEnabled && r.extPath == "" {
		candidates = append(candidates, filepath.Join(mainEntry.ContextDir, config.DefaultExtFileName))
	}
	candidates = append(candidates, filepath.Join(mainEntry.ContextDir, mainEntry.Name+format.ScriptExt))
	if tabBar := r.merger.Finalize().TabBar; tabBar != nil {
		for _, icon := range tabBar.Icons() {
			candidates = append(candidates, filepath.Join(mainEntry.ContextDir, filepath.FromSlash(icon)))
		}
	}

	var files []string
	for _, c := range candidates {
		if r.probe.Exists(c) {
			files = append(files, c)
		}
	}
	r.tree.SetFiles(mainEntry.ConfigPath, files)
	_, err := r.registry.Register(ctx, mainEntry.ContextDir, files)
	return err
}

func closureError(e Entry, err error) error {
	if !errors.Is(err, issue.ErrResolution) {
		return fmt.Errorf("resolving components of %s: %w", e.ConfigPath, err)
	}
	return issue.NewErrorContext().
		WithOperation("resolve components").
		WithResource(e.ConfigPath).
		WithSuggestion("Check the usingComponents paths; relative paths start from the JSON file").
		WithSuggestion("Add an alias under 'alias' in minipack.cue").
		Wrap(err).
		BuildError()
}

// Entries returns the entry descriptors, main entry first.
func (r *Resolver) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Format returns the platform dialect.
func (r *Resolver) Format() format.Format {
	return r.format
}

// Classifier returns the subpackage classifier.
func (r *Resolver) Classifier() *subpackage.Classifier {
	return r.classifier
}

// Registry returns the file registry.
func (r *Resolver) Registry() *registry.Registry {
	return r.registry
}

// Templates returns the template dependency graph.
func (r *Resolver) Templates() *tmplgraph.Graph {
	return r.templates
}

// Tree returns the entry/page/file tree.
func (r *Resolver) Tree() *filetree.Tree {
	return r.tree
}

// Components returns the global component set.
func (r *Resolver) Components() *component.Set {
	return r.graph.Set()
}

// Manifest returns the merged application manifest.
func (r *Resolver) Manifest() *manifest.AppManifest {
	return r.merger.Finalize()
}

// Diagnostics returns every recoverable problem recorded so far.
func (r *Resolver) Diagnostics() []issue.Diagnostic {
	return slices.Concat(r.diags.List(), r.merger.Diagnostics())
}

// Dist returns the output-relative path of a source file.
func (r *Resolver) Dist(p string) (string, error) {
	return r.roots.Resolve(p)
}
