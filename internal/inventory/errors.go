// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"errors"
	"fmt"

	"github.com/itaminv/itaminv/pkg/itam"
)

// ErrEmbeddedDelimiter is the sentinel error wrapped by EmbeddedDelimiterError.
var ErrEmbeddedDelimiter = errors.New("embedded field delimiter")

// EmbeddedDelimiterError aborts a compile when an in-scope line matches a
// group but its host was never created because the line has too many fields.
type EmbeddedDelimiterError struct {
	Hostname string
	Line     int
	Fields   int
}

// Error implements the error interface.
func (e *EmbeddedDelimiterError) Error() string {
	return fmt.Sprintf("it seems %s has one or more commas in one of the ITAM fields (line %d has %d fields, want %d)",
		e.Hostname, e.Line, e.Fields, itam.FieldCount)
}

// Unwrap returns ErrEmbeddedDelimiter for errors.Is() compatibility.
func (e *EmbeddedDelimiterError) Unwrap() error { return ErrEmbeddedDelimiter }
