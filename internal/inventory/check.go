// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"fmt"

	"github.com/itaminv/itaminv/pkg/itam"
)

// FindingKind classifies a problem found in an export line.
type FindingKind string

const (
	// FindingFieldCount marks a line with fewer fields than a record needs.
	FindingFieldCount FindingKind = "field-count"
	// FindingEmbeddedDelimiter marks an in-scope line with more fields than a
	// record may have whose host would otherwise be missing from the
	// inventory; compiling such an export fails.
	FindingEmbeddedDelimiter FindingKind = "embedded-delimiter"
	// FindingExtraFields marks a line with too many fields that the compile
	// skips: it is out of scope, its host has a well-formed record, or it
	// matches no group.
	FindingExtraFields FindingKind = "extra-fields"
	// FindingInvalidMeta marks a record whose meta field is ignored.
	FindingInvalidMeta FindingKind = "invalid-meta"
	// FindingDuplicateHost marks a hostname seen on an earlier line.
	FindingDuplicateHost FindingKind = "duplicate-host"
)

// Finding is one problem in an export, located by 1-based line number.
type Finding struct {
	Line     int
	Hostname string
	Kind     FindingKind
	Detail   string
}

// Report summarizes a check run.
type Report struct {
	Tier       itam.Tier
	Lines      int
	InScope    int
	OutOfScope int
	Findings   []Finding
}

// Fatal reports whether any finding would abort a compile.
func (r Report) Fatal() bool {
	for _, f := range r.Findings {
		if f.Kind == FindingEmbeddedDelimiter {
			return true
		}
	}
	return false
}

// Check inspects every non-empty line of an export without compiling it.
// Malformed lines are reported whatever their Env field says, but only the
// ones that would abort a compile are reported as embedded delimiters. The
// other findings are only reported for records in the tier.
func Check(raw []string, tier itam.Tier) Report {
	scoped := Scope(raw, tier)
	hosts := BuildHosts(scoped.Records)
	groups := Materialize(Discover(scoped.Records))

	r := Report{Tier: tier}
	seen := make(map[string]int)
	for i, line := range scoped.Lines {
		if line.Raw == "" {
			continue
		}
		r.Lines++
		n := i + 1

		rec, err := line.Record()
		if err != nil {
			kind := FindingFieldCount
			if line.HasEmbeddedDelimiter() {
				kind = FindingExtraFields
				if abortsCompile(line, tier, groups, hosts) {
					kind = FindingEmbeddedDelimiter
				}
			}
			r.Findings = append(r.Findings, Finding{
				Line: n, Hostname: line.Hostname(), Kind: kind, Detail: err.Error(),
			})
			continue
		}

		if !tier.Includes(rec.Env) {
			r.OutOfScope++
			continue
		}
		r.InScope++

		if first, dup := seen[rec.Hostname]; dup {
			r.Findings = append(r.Findings, Finding{
				Line: n, Hostname: rec.Hostname, Kind: FindingDuplicateHost,
				Detail: fmt.Sprintf("also on line %d; the later record wins", first),
			})
		} else {
			seen[rec.Hostname] = n
		}

		if rec.Meta != "" && !ValidMeta(rec.Meta) {
			r.Findings = append(r.Findings, Finding{
				Line: n, Hostname: rec.Hostname, Kind: FindingInvalidMeta,
				Detail: fmt.Sprintf("meta field %q is ignored", rec.Meta),
			})
		}
	}
	return r
}

// abortsCompile applies the Resolve rule for malformed lines: an in-scope
// line without a host entry that matches any group.
func abortsCompile(line itam.Line, tier itam.Tier, groups []string, hosts map[string]Host) bool {
	if !tier.Includes(line.Env()) {
		return false
	}
	if _, known := hosts[line.Hostname()]; known {
		return false
	}
	for _, group := range groups {
		if Matches(group, line) {
			return true
		}
	}
	return false
}
