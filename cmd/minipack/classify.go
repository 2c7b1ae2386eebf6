// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/minipack/minipack/internal/subpackage"

	"github.com/spf13/cobra"
)

// newClassifyCommand creates the `minipack classify` command.
func newClassifyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <path>...",
		Short: "Show which subpackage owns each app-relative path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.loadProject(ctx)
			if err != nil {
				return app.reportError(err, app.verboseFor(nil))
			}
			if err := p.resolver.LoadEntries(ctx); err != nil {
				return app.reportError(err, p.verbose)
			}

			c := p.resolver.Classifier()
			for _, arg := range args {
				owner := "main"
				if root := c.PathRoot(arg); root != "" {
					owner = "subpackage " + root
				}
				fmt.Fprintf(app.stdout, "%s\t%s\n", arg, owner)
			}

			if len(args) > 1 {
				shared := c.PathsShareSubpackage(args)
				if shared == "" {
					shared = "-"
				}
				fmt.Fprintf(app.stdout, "%s %s\n", KeyStyle.Render("shared subpackage:"), shared)
				dir := subpackage.PathsShareDirectory(args)
				if dir == "" {
					dir = "-"
				}
				fmt.Fprintf(app.stdout, "%s %s\n", KeyStyle.Render("shared directory:"), dir)
			}

			if !p.cfg.CommonSubpackages {
				fmt.Fprintln(app.stderr, SubtitleStyle.Render("note: common_subpackages is disabled; modules are not split into subpackages"))
			}
			return nil
		},
	}
}
