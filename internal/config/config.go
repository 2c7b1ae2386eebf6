// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "minipack"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "minipack"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides (MINIPACK_TARGET, MINIPACK_UI_VERBOSE, ...).
	EnvPrefix = "MINIPACK"
)

//go:embed config_schema.cue
var configSchema string

// loadWithOptions performs option-driven config loading. It returns the
// decoded config and the path of the file it came from ("" for defaults).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("target", defaults.Target)
	v.SetDefault("context", defaults.Context)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("entries", defaults.Entries)
	v.SetDefault("resources", defaults.Resources)
	v.SetDefault("extfile", defaults.ExtFile)
	v.SetDefault("common_subpackages", defaults.CommonSubpackages)
	v.SetDefault("alias", defaults.Alias)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	// An explicit --config path is used exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'minipack config init' to create a default configuration").
				Wrap(fmt.Errorf("%w: %s", issue.ErrConfigNotFound, opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		projectPath := filepath.Join(projectDirOrCwd(opts.ProjectDir), ConfigFileName+"."+ConfigFileExt)
		if fileExists(projectPath) {
			resolvedPath = projectPath
		}
		// No config file: defaults apply.
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'minipack config show' to see the effective configuration").
				Wrap(&issue.ConfigurationError{Path: resolvedPath, Cause: err}).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("List at least one entry manifest under 'entries'").
			WithSuggestion("Set 'target' to \"wx\" or \"ali\"").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Note: This uses manual CUE parsing instead of cueutil.ParseAndDecode because:
// 1. Config decodes to map[string]any (not a struct) for Viper integration
// 2. Uses Concrete(false) because config fields are optional
// 3. Needs to merge into Viper's config map, not return a struct
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

func projectDirOrCwd(dir string) string {
	if dir != "" {
		return dir
	}
	return "."
}

// CreateDefaultConfig writes a default minipack.cue into projectDir unless
// one already exists. It returns the file path and whether it was created.
func CreateDefaultConfig(projectDir string) (string, bool, error) {
	cfgPath := filepath.Join(projectDirOrCwd(projectDir), ConfigFileName+"."+ConfigFileExt)

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// minipack project configuration\n\n")

	fmt.Fprintf(&sb, "target:  %q\n", cfg.Target)
	fmt.Fprintf(&sb, "context: %q\n", cfg.Context)
	fmt.Fprintf(&sb, "output:  %q\n", cfg.Output)

	sb.WriteString("\nentries: [\n")
	for _, e := range cfg.Entries {
		fmt.Fprintf(&sb, "\t%q,\n", e)
	}
	sb.WriteString("]\n")

	if len(cfg.Resources) > 0 {
		sb.WriteString("\nresources: [\n")
		for _, r := range cfg.Resources {
			fmt.Fprintf(&sb, "\t%q,\n", r)
		}
		sb.WriteString("]\n")
	}

	switch v := cfg.ExtFile.(type) {
	case string:
		fmt.Fprintf(&sb, "\nextfile: %q\n", v)
	case bool:
		fmt.Fprintf(&sb, "\nextfile: %v\n", v)
	}
	fmt.Fprintf(&sb, "common_subpackages: %v\n", cfg.CommonSubpackages)
	if cfg.Concurrency > 0 {
		fmt.Fprintf(&sb, "concurrency: %d\n", cfg.Concurrency)
	}

	if len(cfg.Alias) > 0 {
		sb.WriteString("\nalias: {\n")
		keys := make([]string, 0, len(cfg.Alias))
		for k := range cfg.Alias {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "\t%q: %q\n", k, cfg.Alias[k])
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

// GenerateTOML renders the configuration as TOML.
func GenerateTOML(cfg *Config) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return string(out), nil
}
