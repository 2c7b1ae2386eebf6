// SPDX-License-Identifier: MPL-2.0

package format

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
)

const (
	// TargetWx selects the wx dialect.
	TargetWx Target = "wx"
	// TargetAli selects the ali dialect.
	TargetAli Target = "ali"

	// ScriptExt is the extension of script files on every platform.
	ScriptExt = ".js"
	// ConfigExt is the extension of page, component and entry configs.
	ConfigExt = ".json"
)

//go:embed ali/base.acss
var aliBaseStyle []byte

// ErrInvalidTarget is returned when a Target value is not recognized.
var ErrInvalidTarget = errors.New("invalid target")

type (
	// Target names a platform dialect.
	Target string

	// InvalidTargetError is returned when a Target value is not recognized.
	// It wraps ErrInvalidTarget for errors.Is() compatibility.
	InvalidTargetError struct {
		Value Target
	}

	// Format describes one platform dialect.
	Format interface {
		// Name returns the dialect's target name.
		Name() Target
		// StyleExt is the stylesheet extension, including the dot.
		StyleExt() string
		// TemplateExt is the markup template extension, including the dot.
		TemplateExt() string
		// BundleExts lists, in probe order, every extension a page or
		// component bundle may consist of.
		BundleExts() []string
		// Polyfill is prepended to the app stylesheet. May be nil.
		Polyfill() []byte
		// ProjectConfigName is the project config file shipped with the main entry.
		ProjectConfigName() string
	}

	dialect struct {
		name          Target
		styleExt      string
		templateExt   string
		bundleExts    []string
		polyfill      []byte
		projectConfig string
	}
)

var (
	wx = &dialect{
		name:          TargetWx,
		styleExt:      ".wxss",
		templateExt:   ".wxml",
		bundleExts:    []string{ScriptExt, ConfigExt, ".wxml", ".wxss", ".wxs", ".scss", ".pcss", ".less"},
		projectConfig: "project.config.json",
	}

	ali = &dialect{
		name:          TargetAli,
		styleExt:      ".acss",
		templateExt:   ".axml",
		bundleExts:    []string{ScriptExt, ConfigExt, ".axml", ".acss", ".sjs", ".scss", ".pcss", ".less"},
		polyfill:      aliBaseStyle,
		projectConfig: "mini.project.json",
	}
)

// New returns the dialect for target. An empty target selects wx.
func New(target Target) (Format, error) {
	switch target {
	case TargetWx, "":
		return wx, nil
	case TargetAli:
		return ali, nil
	default:
		return nil, &InvalidTargetError{Value: target}
	}
}

// MustNew is like New but panics on an unknown target.
func MustNew(target Target) Format {
	f, err := New(target)
	if err != nil {
		panic(err)
	}
	return f
}

// IsScript reports whether p is a script file.
func IsScript(p string) bool {
	return filepath.Ext(p) == ScriptExt
}

// IsConfig reports whether p is a JSON config file.
func IsConfig(p string) bool {
	return filepath.Ext(p) == ConfigExt
}

// IsTemplate reports whether p is a template in dialect f.
func IsTemplate(f Format, p string) bool {
	return filepath.Ext(p) == f.TemplateExt()
}

func (t Target) String() string { return string(t) }

// IsValid returns whether t is a known target, and a list of validation
// errors if it is not.
func (t Target) IsValid() (bool, []error) {
	switch t {
	case TargetWx, TargetAli:
		return true, nil
	default:
		return false, []error{&InvalidTargetError{Value: t}}
	}
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target %q (valid: wx, ali)", e.Value)
}

func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }

func (d *dialect) Name() Target              { return d.name }
func (d *dialect) StyleExt() string          { return d.styleExt }
func (d *dialect) TemplateExt() string       { return d.templateExt }
func (d *dialect) BundleExts() []string      { return slices.Clone(d.bundleExts) }
func (d *dialect) Polyfill() []byte          { return slices.Clone(d.polyfill) }
func (d *dialect) ProjectConfigName() string { return d.projectConfig }
