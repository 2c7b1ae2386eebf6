// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/minipack/minipack/internal/config"
	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/internal/manifest"
	"github.com/minipack/minipack/internal/registry"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type resolveOptions struct {
	outDir string
	write  bool
	plan   bool
	strict bool
}

// newResolveCommand creates the `minipack resolve` command.
func newResolveCommand(app *App) *cobra.Command {
	var opts resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve every entry and emit the merged app.json",
		Long: `Resolve every configured entry manifest: merge them into one app.json,
discover all pages and components, and schedule their files.

Without --out or --write the merged manifest is printed to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "write app.json (and ext.json) into this directory")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "write into the configured output directory")
	cmd.Flags().BoolVar(&opts.plan, "plan", false, "print the declared bundler entries")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with status 2 when warnings were reported")
	cmd.MarkFlagsMutuallyExclusive("out", "write")

	return cmd
}

func runResolve(ctx context.Context, app *App, opts resolveOptions) error {
	p, err := app.loadProject(ctx)
	if err != nil {
		return app.reportError(err, app.verboseFor(nil))
	}
	r := p.resolver

	if err := r.LoadEntries(ctx); err != nil {
		return app.reportError(err, p.verbose)
	}

	data, err := manifest.Marshal(r.Manifest())
	if err != nil {
		return app.reportError(err, p.verbose)
	}

	if opts.plan {
		printPlan(app.stdout, p.layout, p.plan.Declarations())
	}

	outDir := opts.outDir
	if opts.write {
		outDir = p.layout.OutputDir
	} else if outDir != "" && !filepath.IsAbs(outDir) {
		outDir = filepath.Join(app.projectDir(), outDir)
	}

	if outDir == "" {
		fmt.Fprintln(app.stdout, string(data))
	} else {
		written, err := writeOutputs(app.Fs, outDir, data, p)
		if err != nil {
			return app.reportError(err, p.verbose)
		}
		for _, f := range written {
			fmt.Fprintf(app.stdout, "%s wrote %s\n", SuccessStyle.Render("✓"), f)
		}
		printSummary(app.stdout, p)
	}

	diags := r.Diagnostics()
	renderDiagnostics(app.stderr, diags)
	if opts.strict && len(diags) > 0 {
		return &ExitError{Code: 2, Err: fmt.Errorf("%d warning(s) reported", len(diags))}
	}
	return nil
}

// writeOutputs writes app.json, and ext.json when enabled, into dir.
func writeOutputs(fsys afero.Fs, dir string, appJSON []byte, p *project) ([]string, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, issue.WrapWithContext(err, "create output directory", dir)
	}

	target := filepath.Join(dir, "app.json")
	if err := afero.WriteFile(fsys, target, append(appJSON, '\n'), 0o644); err != nil {
		return nil, issue.WrapWithContext(err, "write output", target)
	}
	written := []string{target}

	ext, err := p.resolver.ExtManifest()
	if err != nil {
		return written, err
	}
	if ext != nil {
		target = filepath.Join(dir, config.DefaultExtFileName)
		if err := afero.WriteFile(fsys, target, append(ext, '\n'), 0o644); err != nil {
			return written, issue.WrapWithContext(err, "write output", target)
		}
		written = append(written, target)
	}
	return written, nil
}

func printSummary(w io.Writer, p *project) {
	r := p.resolver
	pages := 0
	for _, entry := range r.Tree().Entries() {
		pages += len(r.Tree().Pages(entry))
	}
	fmt.Fprintf(w, "%s %d entries, %d pages, %d components, %d files\n",
		TitleStyle.Render("Resolved"),
		len(r.Entries()), pages, r.Components().Len(), len(r.Registry().Files()))
}

// printPlan lists declarations with paths relative to the context directory.
func printPlan(w io.Writer, l *config.Layout, decls []registry.Declaration) {
	rel := func(p string) string {
		if r, err := filepath.Rel(l.Context, p); err == nil {
			return filepath.ToSlash(r)
		}
		return p
	}

	for _, d := range decls {
		switch d.Kind {
		case registry.KindScript:
			fmt.Fprintf(w, "%s %s %s\n", KeyStyle.Render("script"), d.Name, SubtitleStyle.Render(rel(d.Files[0])))
		case registry.KindAssets:
			fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("assets"), d.Name)
			for _, f := range d.Files {
				fmt.Fprintf(w, "  %s\n", rel(f))
			}
		}
	}
}
