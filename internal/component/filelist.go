// SPDX-License-Identifier: MPL-2.0

package component

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/internal/logging"
	"github.com/minipack/minipack/internal/manifest"
	"github.com/minipack/minipack/internal/modresolve"
	"github.com/minipack/minipack/internal/probe"

	"github.com/spf13/afero"
)

// PluginScheme prefixes component references served by a platform plugin.
// They have no local files.
const PluginScheme = "plugin://"

type (
	// FileListResolver maps a JSON config to the files of the components it
	// references that are not yet in set.
	FileListResolver interface {
		Resolve(ctx context.Context, jsonPath string, set *Set) ([]string, error)
	}

	// ConfigResolverOptions configures a ConfigResolver.
	ConfigResolverOptions struct {
		Fs      afero.Fs
		Modules modresolve.Resolver
		Probe   *probe.Probe
		// Diagnostics receives a warning for every incomplete component.
		Diagnostics *issue.Diagnostics
		Logger      *slog.Logger
	}

	// ConfigResolver is the default FileListResolver. It reads configs with
	// manifest.ParseComponentConfig and resolves requests with a
	// modresolve.Resolver.
	ConfigResolver struct {
		fs      afero.Fs
		modules modresolve.Resolver
		probe   *probe.Probe
		diags   *issue.Diagnostics
		logger  *slog.Logger
	}
)

// NewConfigResolver builds a ConfigResolver.
func NewConfigResolver(opts ConfigResolverOptions) *ConfigResolver {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	diags := opts.Diagnostics
	if diags == nil {
		diags = &issue.Diagnostics{}
	}
	return &ConfigResolver{
		fs:      fsys,
		modules: opts.Modules,
		probe:   opts.Probe,
		diags:   diags,
		logger:  logging.OrDiscard(opts.Logger),
	}
}

// Resolve implements FileListResolver. References are visited in key order,
// usingComponents first and componentGenerics defaults second.
func (r *ConfigResolver) Resolve(ctx context.Context, jsonPath string, set *Set) ([]string, error) {
	data, err := afero.ReadFile(r.fs, jsonPath)
	if err != nil {
		return nil, &issue.ConfigurationError{Path: jsonPath, Cause: err}
	}
	cfg, err := manifest.ParseComponentConfig(data, jsonPath)
	if err != nil {
		return nil, err
	}

	requests := orderedValues(cfg.UsingComponents)
	requests = append(requests, orderedValues(cfg.GenericDefaults())...)

	contextDir := filepath.Dir(jsonPath)
	var files []string
	for _, request := range requests {
		if strings.HasPrefix(request, PluginScheme) {
			continue
		}

		module, err := r.modules.Resolve(ctx, contextDir, request)
		if err != nil {
			return files, err
		}
		if !set.Insert(module) {
			continue
		}

		base := strings.TrimSuffix(module, filepath.Ext(module))
		bundle, err := r.probe.Bundle(base)
		if err != nil {
			if errors.Is(err, issue.ErrIncompleteAsset) {
				r.logger.Warn("dropping incomplete component", "path", base, "referenced_by", jsonPath, "found", len(bundle))
				r.diags.Add(issue.Warn(issue.CodeIncompleteComponent, base,
					fmt.Sprintf("component %s referenced by %s lacks required files", request, jsonPath), err))
				continue
			}
			return files, err
		}
		files = append(files, bundle...)
	}
	return files, nil
}

// Diagnostics returns the warnings recorded so far.
func (r *ConfigResolver) Diagnostics() []issue.Diagnostic {
	return r.diags.List()
}

func orderedValues(m map[string]string) []string {
	values := make([]string, 0, len(m))
	for _, key := range slices.Sorted(maps.Keys(m)) {
		values = append(values, m[key])
	}
	return values
}
