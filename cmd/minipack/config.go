// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/minipack/minipack/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `minipack config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage minipack configuration",
		Long: `Manage minipack configuration.

Configuration is read from minipack.cue in the project directory, or from
the file given with --config. Environment variables prefixed with
MINIPACK_ override file values (for example MINIPACK_TARGET=ali).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var outputFormat string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, outputFormat)
		},
	}
	showCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, cue or toml")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default minipack.cue in the project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig(app.projectDir())
			if err != nil {
				return app.reportError(err, app.flags.verbose)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s %s already exists\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, outputFormat string) error {
	cfg, err := app.Config.Load(ctx, app.loadOptions())
	if err != nil {
		return app.reportError(err, app.flags.verbose)
	}

	switch outputFormat {
	case "cue":
		fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
		return nil
	case "toml":
		out, err := config.GenerateTOML(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(app.stdout, out)
		return nil
	case "text":
	default:
		return fmt.Errorf("unknown format %q (want text, cue or toml)", outputFormat)
	}

	keyStyle := KeyStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("target"), valueStyle.Render(cfg.Target.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("context"), valueStyle.Render(cfg.Context))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("output"), valueStyle.Render(cfg.Output))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("entries"))
	for _, e := range cfg.Entries {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(e))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("resources"))
	if len(cfg.Resources) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, r := range cfg.Resources {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(r))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("alias"))
	if len(cfg.Alias) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, k := range slices.Sorted(maps.Keys(cfg.Alias)) {
		fmt.Fprintf(w, "  %s: %s\n", k, valueStyle.Render(cfg.Alias[k]))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("extfile"), valueStyle.Render(fmt.Sprintf("%v", cfg.ExtFile)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("common_subpackages"), valueStyle.Render(fmt.Sprintf("%v", cfg.CommonSubpackages)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("concurrency"), valueStyle.Render(fmt.Sprintf("%d", cfg.Concurrency)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}
