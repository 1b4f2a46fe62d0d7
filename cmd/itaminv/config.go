// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/itaminv/itaminv/internal/config"
	"github.com/itaminv/itaminv/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `itaminv config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage itaminv configuration",
		Long: `Manage itaminv configuration.

Configuration is stored in:
  - Linux: ~/.config/itaminv/config.cue
  - macOS: ~/Library/Application Support/itaminv/config.cue
  - Windows: %APPDATA%\itaminv\config.cue

A config.cue in the working directory is used when none exists there.
IMPORT_ENV, ITAM_PATH and ITAMINV_* environment variables override the file,
and command-line flags override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.prepare(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			showConfig(cmd.OutOrStdout(), s.cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd.OutOrStdout(), flags.configFile)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd.OutOrStdout())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.prepare(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(s.cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	unset := SubtitleStyle.Render("(not set)")

	value := func(v string) string {
		if v == "" {
			return unset
		}
		return valueStyle.Render(v)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.FilePath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.FilePath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("tier"), value(string(cfg.Tier)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("source:"))
	fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("command"), value(cfg.Source.Command))
	fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("args"), value(strings.Join(cfg.Source.Args, " ")))
	fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("runtime"), value(string(cfg.Source.Runtime)))
	fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("file"), value(cfg.Source.File))
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("output:"))
	fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("format"), value(string(cfg.Output.Format)))
	fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("indent"), valueStyle.Render(fmt.Sprintf("%d", cfg.Output.Indent)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("ui:"))
	fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("verbose"), valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
}

func showConfigPath(w io.Writer, explicit string) error {
	if explicit != "" {
		fmt.Fprintln(w, explicit)
		return nil
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("determine configuration path").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	fmt.Fprintln(w, path)
	return nil
}

func initConfig(w io.Writer) error {
	path, created, err := config.CreateDefaultConfig()
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("create configuration file").
			WithIssue(issue.PermissionDeniedId).
			WithSuggestion("Check permissions on the configuration directory").
			Wrap(err).
			BuildError()
	}

	if created {
		fmt.Fprintf(w, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
		return nil
	}
	fmt.Fprintf(w, "%s %s already exists\n", WarningStyle.Render("!"), CmdStyle.Render(path))
	return nil
}
