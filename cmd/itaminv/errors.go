// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/itaminv/itaminv/internal/issue"
)

// catalogStyle lets glamour pick a style for the terminal, or plain text
// when stderr is not one.
const catalogStyle = "auto"

// renderError prints err to w. The default is a single line; verbose mode
// adds suggestions, the error chain and the matching catalog entry.
// An ExitError without a cause has already been reported by its command.
func (a *App) renderError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, a.verbose))

	if !a.verbose {
		return
	}
	if entry, ok := issue.IssueOf(err); ok {
		rendered, renderErr := entry.Render(catalogStyle)
		if renderErr != nil {
			fmt.Fprintln(w, VerboseStyle.Render(fmt.Sprintf("(issue %d could not be rendered: %v)", entry.Id(), renderErr)))
			return
		}
		fmt.Fprint(w, rendered)
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own Format; anything else prints its message.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
