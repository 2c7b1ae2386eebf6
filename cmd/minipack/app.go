// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/minipack/minipack/internal/config"
	"github.com/minipack/minipack/internal/format"
	"github.com/minipack/minipack/internal/logging"
	"github.com/minipack/minipack/internal/registry"
	"github.com/minipack/minipack/internal/resolve"

	"github.com/spf13/afero"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config ConfigProvider
		Fs     afero.Fs
		stdout io.Writer
		stderr io.Writer

		flags globalFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Fs     afero.Fs
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	globalFlags struct {
		verbose    bool
		configFile string
		projectDir string
	}

	// project is one loaded configuration together with the resolver built
	// from it.
	project struct {
		cfg      *config.Config
		layout   *config.Layout
		resolver *resolve.Resolver
		plan     *registry.Plan
		verbose  bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}

	return &App{
		Config: deps.Config,
		Fs:     deps.Fs,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: a.flags.configFile,
		ProjectDir:     a.flags.projectDir,
	}
}

func (a *App) projectDir() string {
	if a.flags.projectDir != "" {
		return a.flags.projectDir
	}
	return "."
}

// verboseFor combines the --verbose flag with the ui.verbose setting.
func (a *App) verboseFor(cfg *config.Config) bool {
	return a.flags.verbose || (cfg != nil && cfg.UI.Verbose)
}

// loadProject loads the configuration and builds a resolver for it.
// Resolver warnings are only logged in verbose mode; otherwise they reach
// the user through the rendered diagnostics alone.
func (a *App) loadProject(ctx context.Context) (*project, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return nil, err
	}

	layout, err := cfg.Layout(a.projectDir())
	if err != nil {
		return nil, err
	}
	f, err := format.New(cfg.Target)
	if err != nil {
		return nil, err
	}

	verbose := a.verboseFor(cfg)
	var logger *slog.Logger
	if verbose {
		logger = logging.New(a.stderr, logging.Options{Verbose: true})
	}

	plan := &registry.Plan{}
	opts := resolve.OptionsFromLayout(layout, f)
	opts.Fs = a.Fs
	opts.Registrar = plan
	opts.Concurrency = cfg.Concurrency
	opts.Logger = logger

	r, err := resolve.New(opts)
	if err != nil {
		return nil, err
	}
	return &project{cfg: cfg, layout: layout, resolver: r, plan: plan, verbose: verbose}, nil
}
