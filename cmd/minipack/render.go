// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/minipack/minipack/internal/issue"
)

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// reportError prints what the error headline leaves out and returns err for
// Cobra to print. Suggestions are always shown; verbose mode adds the error
// chain and the catalog guidance for the error's kind.
func (a *App) reportError(err error, verbose bool) error {
	if verbose {
		fmt.Fprintln(a.stderr, formatErrorForDisplay(err, true))
		if entry := issue.ForError(err); entry != nil {
			if rendered, renderErr := entry.Render("notty"); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
		return err
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		for _, s := range ae.Suggestions {
			fmt.Fprintln(a.stderr, SubtitleStyle.Render("  • "+s))
		}
	}
	return err
}

// renderDiagnostics prints every diagnostic on its own line.
func renderDiagnostics(w io.Writer, diags []issue.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, WarningStyle.Render(d.String()))
	}
}
