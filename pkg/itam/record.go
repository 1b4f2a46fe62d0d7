// SPDX-License-Identifier: MPL-2.0

package itam

import (
	"errors"
	"fmt"
	"strings"
)

// FieldCount is the number of comma-separated fields in a well-formed record.
const FieldCount = 12

const fieldSeparator = ","

// ErrFieldCount is the sentinel error wrapped by FieldCountError.
var ErrFieldCount = errors.New("wrong field count")

type (
	// Line is one raw export line split on the field separator.
	// Fields is never nil for a non-empty Raw.
	Line struct {
		Raw    string
		Fields []string
	}

	// Record is a well-formed export line. All values are kept verbatim.
	Record struct {
		Hostname     string
		Zone         string
		OS           string
		Env          string
		BusinessUnit string
		Meta         string
		Description  string
		Model        string
		Serial       string
		InstallDate  string
		Chassis      string
		Lifecycle    string

		// Raw is the original line the record was parsed from.
		Raw string
	}

	// FieldCountError is returned when a line does not have exactly FieldCount fields.
	// It wraps ErrFieldCount for errors.Is() compatibility.
	FieldCountError struct {
		Got int
	}
)

// Error implements the error interface.
func (e *FieldCountError) Error() string {
	return fmt.Sprintf("%s: got %d fields, want %d", ErrFieldCount, e.Got, FieldCount)
}

// Unwrap returns ErrFieldCount so callers can use errors.Is for programmatic detection.
func (e *FieldCountError) Unwrap() error { return ErrFieldCount }

// SplitLines splits a raw export into lines. A trailing carriage return is
// dropped from every line; empty lines are kept so line numbers stay aligned
// with the source.
func SplitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Split splits a raw line into its comma-separated fields.
func Split(raw string) Line {
	return Line{Raw: raw, Fields: strings.Split(raw, fieldSeparator)}
}

// Hostname returns the first field, or "" for an empty line.
func (l Line) Hostname() string {
	if len(l.Fields) == 0 {
		return ""
	}
	return l.Fields[0]
}

// Zone returns the second field, or "" when the line is too short.
func (l Line) Zone() string {
	if len(l.Fields) < 2 {
		return ""
	}
	return l.Fields[1]
}

// Env returns the fourth field, or "" when the line is too short.
func (l Line) Env() string {
	if len(l.Fields) < 4 {
		return ""
	}
	return l.Fields[3]
}

// Meta returns the sixth field, or "" when the line is too short.
func (l Line) Meta() string {
	if len(l.Fields) < 6 {
		return ""
	}
	return l.Fields[5]
}

// HasEmbeddedDelimiter reports whether the line has more fields than a record
// may have, the symptom of a comma typed into a free-text field.
func (l Line) HasEmbeddedDelimiter() bool {
	return len(l.Fields) > FieldCount
}

// Record converts the line into a Record.
func (l Line) Record() (Record, error) {
	f := l.Fields
	if len(f) != FieldCount {
		return Record{}, &FieldCountError{Got: len(f)}
	}
	return Record{
		Hostname:     f[0],
		Zone:         f[1],
		OS:           f[2],
		Env:          f[3],
		BusinessUnit: f[4],
		Meta:         f[5],
		Description:  f[6],
		Model:        f[7],
		Serial:       f[8],
		InstallDate:  f[9],
		Chassis:      f[10],
		Lifecycle:    f[11],
		Raw:          l.Raw,
	}, nil
}

// Parse splits and converts a raw line in one step.
func Parse(raw string) (Record, error) {
	return Split(raw).Record()
}

// Fields returns the record's values in export order.
func (r Record) Fields() []string {
	return []string{
		r.Hostname, r.Zone, r.OS, r.Env, r.BusinessUnit, r.Meta,
		r.Description, r.Model, r.Serial, r.InstallDate, r.Chassis, r.Lifecycle,
	}
}

// String renders the record back into export form.
func (r Record) String() string {
	return strings.Join(r.Fields(), fieldSeparator)
}
