// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// newTreeCommand creates the `minipack tree` command.
func newTreeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show every entry with its pages and files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := app.loadProject(ctx)
			if err != nil {
				return app.reportError(err, app.verboseFor(nil))
			}
			if err := p.resolver.LoadEntries(ctx); err != nil {
				return app.reportError(err, p.verbose)
			}

			fmt.Fprint(app.stdout, p.resolver.Tree().Render(filepath.Base(p.layout.Context)))
			renderDiagnostics(app.stderr, p.resolver.Diagnostics())
			return nil
		},
	}
}
