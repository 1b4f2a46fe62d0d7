// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itaminv/itaminv/pkg/itam"
)

const (
	// RuntimeNative executes the export command directly on the host.
	// Defined locally to avoid coupling config to internal/source.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual interprets the export command with the embedded mvdan/sh shell.
	RuntimeVirtual RuntimeMode = "virtual"

	// FormatJSON is the Ansible dynamic inventory format.
	// Defined locally to avoid coupling config to internal/inventory.
	FormatJSON OutputFormat = "json"
	// FormatYAML renders the inventory as YAML.
	FormatYAML OutputFormat = "yaml"
	// FormatTOML renders the inventory as TOML.
	FormatTOML OutputFormat = "toml"

	// MaxIndent is the largest accepted output indent.
	MaxIndent = 8
)

var (
	// ErrInvalidConfigRuntimeMode is returned when a RuntimeMode value is not recognized.
	ErrInvalidConfigRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidIndent is returned when an output indent is out of range.
	ErrInvalidIndent = errors.New("invalid output indent")
	// ErrInvalidSourceConfig is the sentinel error wrapped by InvalidSourceConfigError.
	ErrInvalidSourceConfig = errors.New("invalid source config")
	// ErrInvalidOutputConfig is the sentinel error wrapped by InvalidOutputConfigError.
	ErrInvalidOutputConfig = errors.New("invalid output config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RuntimeMode specifies how the export command is executed.
	RuntimeMode string

	// InvalidConfigRuntimeModeError is returned when a RuntimeMode value is not recognized.
	// It wraps ErrInvalidConfigRuntimeMode for errors.Is() compatibility.
	InvalidConfigRuntimeModeError struct {
		Value RuntimeMode
	}

	// OutputFormat specifies the encoding of the inventory document.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	// It wraps ErrInvalidOutputFormat for errors.Is() compatibility.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// InvalidIndentError is returned when Indent is outside 0..MaxIndent.
	InvalidIndentError struct {
		Value int
	}

	// InvalidSourceConfigError collects SourceConfig field errors.
	InvalidSourceConfigError struct {
		FieldErrors []error
	}

	// InvalidOutputConfigError collects OutputConfig field errors.
	InvalidOutputConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig and collects field-level errors from all
	// sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// SourceConfig locates the ITAM export.
	SourceConfig struct {
		// Command is the export program (native) or shell snippet (virtual).
		Command string `json:"command" mapstructure:"command"`
		// Args are passed to Command.
		Args []string `json:"args" mapstructure:"args"`
		// Runtime selects native or virtual execution.
		Runtime RuntimeMode `json:"runtime" mapstructure:"runtime"`
		// File is a saved export; "-" reads stdin. Ignored when Command is set.
		File string `json:"file" mapstructure:"file"`
	}

	// OutputConfig controls the document encoding.
	OutputConfig struct {
		Format OutputFormat `json:"format" mapstructure:"format"`
		Indent int          `json:"indent" mapstructure:"indent"`
	}

	// UIConfig holds user interface preferences.
	UIConfig struct {
		// Verbose enables debug logging and detailed error output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config is the effective itaminv configuration.
	Config struct {
		// Tier is the deployment tier. Empty means unset; the CLI rejects it.
		Tier   itam.Tier    `json:"tier" mapstructure:"tier"`
		Source SourceConfig `json:"source" mapstructure:"source"`
		Output OutputConfig `json:"output" mapstructure:"output"`
		UI     UIConfig     `json:"ui" mapstructure:"ui"`

		// FilePath is the config file that was loaded, or "" when only
		// defaults and the environment were used.
		FilePath string `json:"-" mapstructure:"-"`
	}
)

// String returns the string representation of the RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// IsValid returns whether the RuntimeMode is recognized. The zero value
// is valid and means native.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case "", RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidConfigRuntimeModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidConfigRuntimeModeError.
func (e *InvalidConfigRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidConfigRuntimeMode for errors.Is() compatibility.
func (e *InvalidConfigRuntimeModeError) Unwrap() error { return ErrInvalidConfigRuntimeMode }

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is recognized. The zero value
// is valid and means json.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case "", FormatJSON, FormatYAML, FormatTOML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: json, yaml, toml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// Error implements the error interface for InvalidIndentError.
func (e *InvalidIndentError) Error() string {
	return fmt.Sprintf("invalid output indent %d (must be between 0 and %d)", e.Value, MaxIndent)
}

// Unwrap returns ErrInvalidIndent for errors.Is() compatibility.
func (e *InvalidIndentError) Unwrap() error { return ErrInvalidIndent }

// IsValid returns whether the SourceConfig has valid fields.
func (c SourceConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Runtime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Command != "" && strings.TrimSpace(c.Command) == "" {
		errs = append(errs, errors.New("source command must not be whitespace-only"))
	}
	if c.File != "" && strings.TrimSpace(c.File) == "" {
		errs = append(errs, errors.New("source file must not be whitespace-only"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidSourceConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSourceConfigError.
func (e *InvalidSourceConfigError) Error() string {
	return joinFieldErrors("invalid source config", e.FieldErrors)
}

// Unwrap returns ErrInvalidSourceConfig for errors.Is() compatibility.
func (e *InvalidSourceConfigError) Unwrap() error { return ErrInvalidSourceConfig }

// IsValid returns whether the OutputConfig has valid fields.
func (c OutputConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Indent < 0 || c.Indent > MaxIndent {
		errs = append(errs, &InvalidIndentError{Value: c.Indent})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidOutputConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidOutputConfigError.
func (e *InvalidOutputConfigError) Error() string {
	return joinFieldErrors("invalid output config", e.FieldErrors)
}

// Unwrap returns ErrInvalidOutputConfig for errors.Is() compatibility.
func (e *InvalidOutputConfigError) Unwrap() error { return ErrInvalidOutputConfig }

// IsValid returns whether the Config has valid fields. An empty tier is
// accepted here; the CLI requires one before compiling.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.Tier != "" {
		if valid, fieldErrs := c.Tier.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Source.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Output.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return joinFieldErrors("invalid config", e.FieldErrors)
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

func joinFieldErrors(prefix string, errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return prefix + ": " + strings.Join(msgs, "; ")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Runtime: RuntimeNative,
		},
		Output: OutputConfig{
			Format: FormatJSON,
			Indent: 4,
		},
	}
}
