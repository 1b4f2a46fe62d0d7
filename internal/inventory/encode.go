// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON is the Ansible dynamic inventory format.
	FormatJSON Format = "json"
	// FormatYAML renders the same document as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML renders the same document as TOML.
	FormatTOML Format = "toml"

	// DefaultIndent matches the indentation Ansible inventory scripts
	// traditionally print with.
	DefaultIndent = 4
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format selects the output encoding.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	// It wraps ErrInvalidFormat for errors.Is() compatibility.
	InvalidFormatError struct {
		Value Format
	}
)

// Formats returns every supported output format.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// IsValid returns whether the Format is supported.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidFormatError.
func (e *InvalidFormatError) Error() string {
	names := make([]string, 0, 3)
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("invalid output format %q (must be one of %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Encode writes doc to w in the given format. indent is the number of spaces
// per nesting level; zero selects compact JSON and each library's default
// layout for YAML and TOML.
func Encode(w io.Writer, doc any, format Format, indent int) error {
	if valid, errs := format.IsValid(); !valid {
		return errs[0]
	}
	if indent < 0 {
		indent = 0
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if indent > 0 {
			enc.SetIndent(indent)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		enc := toml.NewEncoder(w)
		if indent > 0 {
			enc.SetIndentTables(true)
			enc.SetIndentSymbol(strings.Repeat(" ", indent))
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		if indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", indent))
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}
