// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/itaminv/itaminv/internal/config"
	"github.com/itaminv/itaminv/internal/source"

	"github.com/charmbracelet/log"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// SourceOpener builds the record source for a run.
	SourceOpener func(spec source.Spec) (source.Source, error)

	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer; command handlers receive an App and delegate
	// through it.
	App struct {
		Config     ConfigProvider
		OpenSource SourceOpener
		stdin      io.Reader
		stdout     io.Writer
		stderr     io.Writer

		// verbose is resolved per run from the flag and the config file and
		// read by the error handler.
		verbose bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		OpenSource SourceOpener
		Stdin      io.Reader
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// session is the state of one invocation after configuration is loaded.
	session struct {
		cfg    *config.Config
		logger *log.Logger
	}
)

// NewApp creates an App with production defaults for nil dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		OpenSource: deps.OpenSource,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.OpenSource == nil {
		app.OpenSource = source.New
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}
