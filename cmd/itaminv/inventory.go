// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/itaminv/itaminv/internal/config"
	"github.com/itaminv/itaminv/internal/inventory"
	"github.com/itaminv/itaminv/internal/issue"
	"github.com/itaminv/itaminv/internal/logging"
	"github.com/itaminv/itaminv/internal/source"
	"github.com/itaminv/itaminv/pkg/itam"

	"github.com/spf13/cobra"
)

// runInventory implements the Ansible script protocol: the whole inventory
// by default or with --list, one host's variables with --host.
func (a *App) runInventory(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()

	s, err := a.prepare(ctx, cmd, flags)
	if err != nil {
		return err
	}

	tier, err := s.tier()
	if err != nil {
		return err
	}
	format, err := s.format()
	if err != nil {
		return err
	}

	lines, err := a.readRecords(ctx, s)
	if err != nil {
		return err
	}

	compiler, err := inventory.NewCompiler(tier, inventory.WithLogger(s.logger))
	if err != nil {
		return err
	}
	inv, err := compiler.Compile(lines)
	if err != nil {
		return compileError(err)
	}

	doc := inv.Document()
	if cmd.Flags().Changed("host") {
		doc = hostDocument(inv, flags.host)
	}

	if err := inventory.Encode(cmd.OutOrStdout(), doc, format, s.cfg.Output.Indent); err != nil {
		return issue.WrapWithOperation(err, "write inventory")
	}
	return nil
}

// hostDocument returns the variables of name, or an empty object for an
// unknown host as Ansible expects.
func hostDocument(inv *inventory.Inventory, name string) map[string]any {
	h, ok := inv.Host(name)
	if !ok {
		return map[string]any{}
	}
	return h.Hostvars()
}

// prepare loads configuration with the command-line overrides and builds the
// run logger.
func (a *App) prepare(ctx context.Context, cmd *cobra.Command, flags *rootFlags) (*session, error) {
	// Config errors are rendered with the flag value alone.
	a.verbose = flags.verbose

	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configFile,
		Overrides:      flags.overrides(cmd),
	})
	if err != nil {
		return nil, err
	}
	a.verbose = cfg.UI.Verbose

	logger := logging.New(cmd.ErrOrStderr(), cfg.UI.Verbose)
	if cfg.FilePath != "" {
		logger.Debug("loaded configuration", "path", cfg.FilePath)
	} else {
		logger.Debug("no configuration file found, using defaults and environment")
	}

	return &session{cfg: cfg, logger: logger}, nil
}

// tier validates the configured tier before any record is read.
func (s *session) tier() (itam.Tier, error) {
	tier := s.cfg.Tier
	if err := tier.Validate(); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("select deployment tier").
			WithIssue(issue.InvalidTierId).
			WithSuggestion("Set " + config.LegacyTierEnv + " to one of " + tierList()).
			WithSuggestion("Or pass --tier on the command line").
			Wrap(err).
			BuildError()
	}
	s.logger.Debug("deployment tier", "tier", tier, "environments", strings.Join(tier.Environments(), ","))
	return tier, nil
}

// format resolves the configured output format.
func (s *session) format() (inventory.Format, error) {
	format := inventory.Format(s.cfg.Output.Format)
	if format == "" {
		format = inventory.FormatJSON
	}
	if valid, errs := format.IsValid(); !valid {
		return "", issue.NewErrorContext().
			WithOperation("select output format").
			WithIssue(issue.InvalidOutputFormatId).
			WithSuggestion("Use --format json, yaml or toml").
			Wrap(errs[0]).
			BuildError()
	}
	return format, nil
}

func tierList() string {
	names := make([]string, 0, 3)
	for _, t := range itam.Tiers() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// readRecords opens the configured source and reads the whole export once.
func (a *App) readRecords(ctx context.Context, s *session) ([]string, error) {
	spec := source.Spec{
		Command: s.cfg.Source.Command,
		Args:    s.cfg.Source.Args,
		Runtime: source.Runtime(s.cfg.Source.Runtime),
		File:    s.cfg.Source.File,
		Stdin:   a.stdin,
	}

	src, err := a.OpenSource(spec)
	switch {
	case errors.Is(err, source.ErrNoSource):
		return nil, issue.NewErrorContext().
			WithOperation("locate ITAM export").
			WithIssue(issue.SourceNotConfiguredId).
			WithSuggestion("Set " + config.LegacyCommandEnv + " to the export program").
			WithSuggestion("Or pass --source-cmd or --source-file").
			Wrap(err).
			BuildError()
	case errors.Is(err, source.ErrInvalidRuntime):
		return nil, issue.NewErrorContext().
			WithOperation("locate ITAM export").
			WithIssue(issue.InvalidRuntimeId).
			WithSuggestion("Use --runtime native or --runtime virtual").
			Wrap(err).
			BuildError()
	case err != nil:
		return nil, issue.WrapWithOperation(err, "locate ITAM export")
	}

	s.logger.Debug("reading ITAM export", "source", src.Name(), "runtime", spec.Runtime)
	lines, err := source.Lines(ctx, src)
	if err != nil {
		id := issue.SourceFailedId
		if errors.Is(err, fs.ErrPermission) {
			id = issue.PermissionDeniedId
		}
		return nil, issue.NewErrorContext().
			WithOperation("read ITAM export").
			WithResource(src.Name()).
			WithIssue(id).
			WithSuggestion("Run the export by hand and inspect its output").
			Wrap(err).
			BuildError()
	}
	s.logger.Debug("read ITAM export", "lines", len(lines))
	return lines, nil
}

// compileError attaches remediation to compile failures.
func compileError(err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("compile inventory").
		Wrap(err)

	var delimErr *inventory.EmbeddedDelimiterError
	if errors.As(err, &delimErr) {
		ctx = ctx.
			WithIssue(issue.EmbeddedDelimiterId).
			WithSuggestion("Run 'itaminv check' to list every malformed record").
			WithSuggestion("Remove the comma from the field in the ITAM system")
	}
	return ctx.BuildError()
}
