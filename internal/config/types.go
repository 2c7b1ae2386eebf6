// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minipack/minipack/internal/format"
)

// DefaultExtFileName is the ext manifest shipped with the main entry.
const DefaultExtFileName = "ext.json"

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrNoEntries is returned when a Config lists no entry manifest.
	ErrNoEntries = errors.New("no entry manifests configured")
	// ErrInvalidExtFile is returned when extfile is neither a bool nor a path.
	ErrInvalidExtFile = errors.New("invalid extfile setting")
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
)

type (
	// Config holds the project configuration.
	Config struct {
		// Target selects the platform dialect (wx or ali).
		Target format.Target `json:"target" mapstructure:"target" toml:"target"`
		// Context is the project context directory. Relative to the project directory.
		Context string `json:"context" mapstructure:"context" toml:"context"`
		// Output is the output directory. Relative to Context.
		Output string `json:"output" mapstructure:"output" toml:"output"`
		// Entries lists the entry manifests; the first one is the main entry.
		Entries []string `json:"entries" mapstructure:"entries" toml:"entries"`
		// Resources are additional source roots for output-path computation.
		Resources []string `json:"resources" mapstructure:"resources" toml:"resources"`
		// ExtFile is true, false, or the path of an ext manifest.
		ExtFile any `json:"extfile" mapstructure:"extfile" toml:"extfile"`
		// CommonSubpackages enables subpackage-exclusive module splitting.
		CommonSubpackages bool `json:"common_subpackages" mapstructure:"common_subpackages" toml:"common_subpackages"`
		// Alias maps component request prefixes to directories.
		Alias map[string]string `json:"alias" mapstructure:"alias" toml:"alias"`
		// Concurrency caps concurrent page closures; zero means no cap.
		Concurrency int `json:"concurrency" mapstructure:"concurrency" toml:"concurrency"`
		// UI holds display settings.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// UIConfig configures output display.
	UIConfig struct {
		// Verbose enables debug logging and catalog guidance on errors.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}

	// Layout is a Config with every path made absolute.
	Layout struct {
		ProjectDir string
		Context    string
		// SourceDir is <Context>/src, the compiled-source root.
		SourceDir string
		OutputDir string
		Entries   []string
		Resources []string
		// ExtEnabled reports whether an ext manifest is emitted.
		ExtEnabled bool
		// ExtPath is the explicit ext manifest path; empty selects the
		// main entry's ext.json.
		ExtPath string
		Alias   map[string]string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidLoadOptionsError is returned when LoadOptions has invalid fields.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Target:            format.TargetWx,
		Context:           ".",
		Output:            "dist",
		Entries:           []string{"src/app.json"},
		Resources:         []string{},
		ExtFile:           true,
		CommonSubpackages: true,
		Alias:             map[string]string{},
		Concurrency:       0,
		UI: UIConfig{
			Verbose: false,
		},
	}
}

// ExtFileSetting decodes ExtFile into (enabled, explicit path).
func (c *Config) ExtFileSetting() (bool, string, error) {
	switch v := c.ExtFile.(type) {
	case nil:
		return false, "", nil
	case bool:
		return v, "", nil
	case string:
		if strings.TrimSpace(v) == "" {
			return false, "", fmt.Errorf("%w: empty path", ErrInvalidExtFile)
		}
		return true, v, nil
	default:
		return false, "", fmt.Errorf("%w: unexpected %T", ErrInvalidExtFile, v)
	}
}

// IsValid returns whether c is valid, and a list of validation errors if it is not.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Target.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(c.Entries) == 0 {
		errs = append(errs, ErrNoEntries)
	}
	if _, _, err := c.ExtFileSetting(); err != nil {
		errs = append(errs, err)
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Layout resolves every configured path against projectDir.
func (c *Config) Layout(projectDir string) (*Layout, error) {
	if valid, errs := c.IsValid(); !valid {
		return nil, errs[0]
	}

	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}
	contextDir := absUnder(projectDir, c.Context)

	l := &Layout{
		ProjectDir: projectDir,
		Context:    contextDir,
		SourceDir:  filepath.Join(contextDir, "src"),
		OutputDir:  absUnder(contextDir, c.Output),
		Alias:      make(map[string]string, len(c.Alias)),
	}
	for _, e := range c.Entries {
		l.Entries = append(l.Entries, absUnder(contextDir, e))
	}
	for _, r := range c.Resources {
		l.Resources = append(l.Resources, absUnder(contextDir, r))
	}
	for prefix, target := range c.Alias {
		l.Alias[prefix] = absUnder(contextDir, target)
	}

	enabled, path, _ := c.ExtFileSetting()
	l.ExtEnabled = enabled
	if path != "" {
		l.ExtPath = absUnder(contextDir, path)
	}
	return l, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

func absUnder(base, p string) string {
	if p == "" {
		return base
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, filepath.FromSlash(p))
}
