// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/itaminv/itaminv/pkg/itam"
)

const (
	// RuntimeNative executes the command directly on the host.
	RuntimeNative Runtime = "native"
	// RuntimeVirtual interprets the command with the embedded shell.
	RuntimeVirtual Runtime = "virtual"

	// StdinPath selects standard input as the export file.
	StdinPath = "-"
)

var (
	// ErrNoSource is returned when neither a command nor a file is configured.
	ErrNoSource = errors.New("no record source configured")
	// ErrInvalidRuntime is the sentinel error wrapped by InvalidRuntimeError.
	ErrInvalidRuntime = errors.New("invalid source runtime")
	// ErrCommandFailed is the sentinel error wrapped by CommandError.
	ErrCommandFailed = errors.New("record source command failed")
)

type (
	// Runtime selects how a source command is executed.
	Runtime string

	// InvalidRuntimeError is returned when a Runtime value is not recognized.
	// It wraps ErrInvalidRuntime for errors.Is() compatibility.
	InvalidRuntimeError struct {
		Value Runtime
	}

	// CommandError is returned when the source command exits non-zero.
	// It wraps ErrCommandFailed for errors.Is() compatibility.
	CommandError struct {
		Command  string
		ExitCode int
		Stderr   string
		Err      error
	}

	// Source produces the raw export text.
	Source interface {
		// Name describes the source for diagnostics.
		Name() string
		// Read returns the complete export.
		Read(ctx context.Context) (string, error)
	}

	// Spec describes where the export comes from. Command takes precedence
	// over File.
	Spec struct {
		Command string
		Args    []string
		Runtime Runtime
		File    string
		// Dir is the working directory for commands; empty means the current one.
		Dir string
		// Env is the command environment; nil inherits the process environment.
		Env []string
		// Stdin is read when File is StdinPath; nil means os.Stdin.
		Stdin io.Reader
	}
)

// String returns the string representation of the Runtime.
func (r Runtime) String() string { return string(r) }

// IsValid returns whether the Runtime is recognized. The zero value is
// valid and means native.
func (r Runtime) IsValid() (bool, []error) {
	switch r {
	case "", RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidRuntimeError{Value: r}}
	}
}

// Error implements the error interface for InvalidRuntimeError.
func (e *InvalidRuntimeError) Error() string {
	return fmt.Sprintf("invalid source runtime %q (must be %s or %s)", e.Value, RuntimeNative, RuntimeVirtual)
}

// Unwrap returns ErrInvalidRuntime for errors.Is() compatibility.
func (e *InvalidRuntimeError) Unwrap() error { return ErrInvalidRuntime }

// Error implements the error interface for CommandError.
func (e *CommandError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s exited with status %d", e.Command, e.ExitCode)
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		sb.WriteString(": ")
		sb.WriteString(msg)
	} else if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns ErrCommandFailed for errors.Is() compatibility.
func (e *CommandError) Unwrap() error { return ErrCommandFailed }

// New returns the Source described by spec.
func New(spec Spec) (Source, error) {
	if valid, errs := spec.Runtime.IsValid(); !valid {
		return nil, errs[0]
	}

	switch {
	case strings.TrimSpace(spec.Command) != "":
		if spec.Runtime == RuntimeVirtual {
			return &VirtualSource{Script: spec.Command, Args: spec.Args, Dir: spec.Dir, Env: spec.Env}, nil
		}
		return &CommandSource{Path: spec.Command, Args: spec.Args, Dir: spec.Dir, Env: spec.Env}, nil
	case spec.File == StdinPath:
		in := spec.Stdin
		if in == nil {
			in = os.Stdin
		}
		return &ReaderSource{Label: "stdin", Reader: in}, nil
	case strings.TrimSpace(spec.File) != "":
		return &FileSource{Path: spec.File}, nil
	default:
		return nil, ErrNoSource
	}
}

// Lines reads src once and splits the export into lines.
func Lines(ctx context.Context, src Source) ([]string, error) {
	raw, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	return itam.SplitLines(raw), nil
}
