// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"maps"
)

type (
	// AppConfig is one entry's parsed manifest.
	AppConfig struct {
		Pages           []string          `json:"pages,omitempty"`
		SubPackages     []SubPackage      `json:"subPackages,omitempty"`
		PreloadRule     map[string]any    `json:"preloadRule,omitempty"`
		UsingComponents map[string]string `json:"usingComponents,omitempty"`
		TabBar          *TabBar           `json:"tabBar,omitempty"`
		Window          map[string]any    `json:"window,omitempty"`
		NetworkTimeout  map[string]any    `json:"networkTimeout,omitempty"`
		Debug           *bool             `json:"debug,omitempty"`
		FunctionalPages *bool             `json:"functionalPages,omitempty"`
		Plugins         map[string]Plugin `json:"plugins,omitempty"`

		// Extra holds top-level fields not modelled above, verbatim.
		Extra map[string]any `json:"-"`
	}

	// AppManifest is the merged application manifest produced by Finalize.
	AppManifest AppConfig

	// SubPackage describes one lazily-loaded partition of pages.
	SubPackage struct {
		Root        string   `json:"root"`
		Name        string   `json:"name,omitempty"`
		Pages       []string `json:"pages"`
		Independent bool     `json:"independent,omitempty"`
	}

	// Plugin pins a plugin version for a provider.
	Plugin struct {
		Version  string `json:"version"`
		Provider string `json:"provider,omitempty"`
	}

	// TabBar is the bottom tab bar. Only List is interpreted.
	TabBar struct {
		List  []TabBarItem   `json:"list,omitempty"`
		Extra map[string]any `json:"-"`
	}

	// TabBarItem is one tab.
	TabBarItem struct {
		PagePath         string `json:"pagePath"`
		Text             string `json:"text,omitempty"`
		IconPath         string `json:"iconPath,omitempty"`
		SelectedIconPath string `json:"selectedIconPath,omitempty"`
	}

	// ComponentConfig is a page or component JSON config.
	ComponentConfig struct {
		Component         bool              `json:"component,omitempty"`
		UsingComponents   map[string]string `json:"usingComponents,omitempty"`
		ComponentGenerics map[string]any    `json:"componentGenerics,omitempty"`
	}
)

// IsEmpty reports whether t carries nothing worth keeping.
func (t *TabBar) IsEmpty() bool {
	return t == nil || (len(t.List) == 0 && len(t.Extra) == 0)
}

// Icons returns every icon path declared by the tab bar, in tab order.
func (t *TabBar) Icons() []string {
	if t == nil {
		return nil
	}
	var icons []string
	for _, item := range t.List {
		if item.IconPath != "" {
			icons = append(icons, item.IconPath)
		}
		if item.SelectedIconPath != "" {
			icons = append(icons, item.SelectedIconPath)
		}
	}
	return icons
}

// MarshalJSON writes List together with the preserved extra fields.
func (t TabBar) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Extra)+1)
	maps.Copy(out, t.Extra)
	if len(t.List) > 0 {
		out["list"] = t.List
	}
	return json.Marshal(out)
}

// GenericDefaults returns the default component request of every generic
// slot that declares one.
func (c *ComponentConfig) GenericDefaults() map[string]string {
	defaults := make(map[string]string)
	for name, raw := range c.ComponentGenerics {
		spec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if def, ok := spec["default"].(string); ok && def != "" {
			defaults[name] = def
		}
	}
	return defaults
}
