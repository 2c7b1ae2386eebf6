// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"testing"
)

func TestProviderLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `output: "out"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != "out" {
		t.Errorf("Output = %q, want out", cfg.Output)
	}
}

func TestLoadOptionsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    LoadOptions
		wantErr bool
	}{
		{"zero value", LoadOptions{}, false},
		{"explicit path", LoadOptions{ConfigFilePath: "a.cue"}, false},
		{"whitespace path", LoadOptions{ConfigFilePath: "  "}, true},
		{"whitespace project", LoadOptions{ProjectDir: "\t"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidLoadOptions) {
				t.Errorf("error should wrap ErrInvalidLoadOptions")
			}
		})
	}
}
