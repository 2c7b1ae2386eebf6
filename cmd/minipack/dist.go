// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDistCommand creates the `minipack dist` command.
func newDistCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dist <path>...",
		Short: "Print the output-relative path of source files",
		Long: `Print where each source file lands in the output tree.

Relative paths without "../" are taken as relative to the source directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.loadProject(cmd.Context())
			if err != nil {
				return app.reportError(err, app.verboseFor(nil))
			}
			for _, arg := range args {
				out, err := p.resolver.Dist(arg)
				if err != nil {
					return app.reportError(err, p.verbose)
				}
				fmt.Fprintln(app.stdout, out)
			}
			return nil
		},
	}
}
