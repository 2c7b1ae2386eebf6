// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"fmt"
)

// Marshal renders m as indented JSON. Object keys are sorted, so equal
// manifests always produce identical bytes. Extra fields never shadow
// modelled ones.
func Marshal(m *AppManifest) ([]byte, error) {
	if m == nil {
		m = &AppManifest{}
	}

	known, err := json.Marshal(AppConfig(*m))
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	for name, value := range m.Extra {
		if _, taken := fields[name]; taken {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal manifest field %q: %w", name, err)
		}
		fields[name] = raw
	}

	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append(out, '\n'), nil
}
