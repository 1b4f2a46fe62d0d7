// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/itaminv/itaminv/internal/inventory"

	"github.com/spf13/cobra"
)

func newCheckCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report malformed records in the ITAM export",
		Long: `Read the ITAM export and report, line by line, records with a wrong
field count, suspected embedded commas, invalid meta fields and duplicate
hostnames. Exits with status 1 when a record would abort the inventory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runCheck(cmd, flags)
		},
	}
}

func (a *App) runCheck(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()

	s, err := a.prepare(ctx, cmd, flags)
	if err != nil {
		return err
	}
	tier, err := s.tier()
	if err != nil {
		return err
	}
	lines, err := a.readRecords(ctx, s)
	if err != nil {
		return err
	}

	report := inventory.Check(lines, tier)
	renderReport(cmd.OutOrStdout(), report)

	if report.Fatal() {
		return &ExitError{Code: 1}
	}
	return nil
}

func renderReport(w io.Writer, r inventory.Report) {
	fmt.Fprintln(w, TitleStyle.Render("ITAM export check")+SubtitleStyle.Render(" (tier "+string(r.Tier)+")"))
	fmt.Fprintf(w, "%s\n\n", SubtitleStyle.Render(fmt.Sprintf("%d record line(s): %d in scope, %d out of scope",
		r.Lines, r.InScope, r.OutOfScope)))

	fatal := 0
	for _, f := range r.Findings {
		kindStyle := checkKindStyle
		if f.Kind == inventory.FindingEmbeddedDelimiter {
			kindStyle = checkFatalKindStyle
			fatal++
		}
		host := f.Hostname
		if host == "" {
			host = "-"
		}
		fmt.Fprintf(w, "%s  %s %s %s\n",
			checkLineStyle.Render(fmt.Sprintf("%d", f.Line)),
			kindStyle.Render(string(f.Kind)),
			checkHostStyle.Render(host),
			VerboseStyle.Render(f.Detail))
	}
	if len(r.Findings) > 0 {
		fmt.Fprintln(w)
	}

	switch {
	case fatal > 0:
		fmt.Fprintln(w, ErrorStyle.Render("✗")+fmt.Sprintf(" %d record(s) with suspected embedded commas; fix them before running the inventory", fatal))
	case len(r.Findings) > 0:
		fmt.Fprintln(w, WarningStyle.Render("!")+fmt.Sprintf(" %d finding(s); the affected records are skipped", len(r.Findings)))
	default:
		fmt.Fprintln(w, SuccessStyle.Render("✓")+" no problems found")
	}
}
