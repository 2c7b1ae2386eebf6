// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"fmt"

	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/pkg/cueutil"

	"cuelang.org/go/cue"
)

//go:embed manifest_schema.cue
var schema []byte

// knownAppFields are the top-level fields AppConfig models.
var knownAppFields = []string{
	"pages", "subPackages", "subpackages", "preloadRule", "usingComponents",
	"tabBar", "window", "networkTimeout", "debug", "functionalPages", "plugins",
}

// appConfigDoc mirrors AppConfig but accepts both subpackage spellings.
type appConfigDoc struct {
	AppConfig
	SubPackagesLower []SubPackage `json:"subpackages,omitempty"`
}

// Parse parses an entry manifest. filename is only used in error messages.
// Failures are *issue.ConfigurationError.
func Parse(data []byte, filename string) (*AppConfig, error) {
	result, err := cueutil.ParseAndDecode[appConfigDoc](schema, data, "#AppConfig", cueutil.WithFilename(filename))
	if err != nil {
		return nil, &issue.ConfigurationError{Path: filename, Cause: err}
	}

	cfg := result.Value.AppConfig
	cfg.SubPackages = append(cfg.SubPackages, result.Value.SubPackagesLower...)

	cfg.Extra, err = cueutil.DecodeExtra(result.Unified, knownAppFields...)
	if err != nil {
		return nil, &issue.ConfigurationError{Path: filename, Cause: err}
	}

	if cfg.TabBar != nil {
		tabBar := result.Unified.LookupPath(cue.ParsePath("tabBar"))
		cfg.TabBar.Extra, err = cueutil.DecodeExtra(tabBar, "list")
		if err != nil {
			return nil, &issue.ConfigurationError{Path: filename, Cause: fmt.Errorf("tabBar: %w", err)}
		}
	}

	return &cfg, nil
}

// ParseComponentConfig parses a page or component JSON config.
// Failures are *issue.ConfigurationError.
func ParseComponentConfig(data []byte, filename string) (*ComponentConfig, error) {
	result, err := cueutil.ParseAndDecode[ComponentConfig](schema, data, "#ComponentConfig", cueutil.WithFilename(filename))
	if err != nil {
		return nil, &issue.ConfigurationError{Path: filename, Cause: err}
	}
	return result.Value, nil
}
