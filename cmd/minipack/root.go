// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "minipack",
		Short: "Resolve mini-program manifests and their dependencies",
		Long: TitleStyle.Render("minipack") + SubtitleStyle.Render(" - mini-program manifest and dependency resolver") + `

minipack merges the app.json manifests of one or more entries, discovers
every page, component, stylesheet and icon they need, and reports where
each file lands in the output tree.

` + SubtitleStyle.Render("Examples:") + `
  minipack resolve              Print the merged app.json
  minipack resolve --out dist   Write app.json and ext.json to dist
  minipack tree                 Show entries, pages and their files
  minipack dist src/pages/a.js  Show output paths
  minipack config init          Create a default minipack.cue`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is <project>/minipack.cue)")
	rootCmd.PersistentFlags().StringVarP(&app.flags.projectDir, "project", "C", "", "project directory (default is the working directory)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newResolveCommand(app))
	rootCmd.AddCommand(newTreeCommand(app))
	rootCmd.AddCommand(newDistCommand(app))
	rootCmd.AddCommand(newClassifyCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
