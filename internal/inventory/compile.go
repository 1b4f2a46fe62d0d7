// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"io"

	"github.com/itaminv/itaminv/pkg/itam"

	"github.com/charmbracelet/log"
)

type (
	// Compiler turns a buffered ITAM export into an Inventory for one tier.
	Compiler struct {
		tier   itam.Tier
		logger *log.Logger
	}

	// Option configures a Compiler.
	Option func(*Compiler)

	// Scoped is the output of the scope phase.
	Scoped struct {
		// Lines holds every raw line, in input order, for the resolution pass.
		Lines []itam.Line
		// Records holds the well-formed records whose Env is in the tier.
		Records []itam.Record
		// Skipped counts lines dropped for a wrong field count.
		Skipped int
		// OutOfScope counts well-formed records outside the tier.
		OutOfScope int
	}
)

// WithLogger sets the logger used to report skipped records.
func WithLogger(l *log.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCompiler creates a compiler for tier. An unknown tier is rejected here,
// before any record is read.
func NewCompiler(tier itam.Tier, opts ...Option) (*Compiler, error) {
	if err := tier.Validate(); err != nil {
		return nil, err
	}
	c := &Compiler{tier: tier, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Tier returns the compiler's tier.
func (c *Compiler) Tier() itam.Tier { return c.tier }

// Scope splits the raw lines and keeps the well-formed records in the tier.
// Malformed lines are dropped without error.
func Scope(raw []string, tier itam.Tier) Scoped {
	s := Scoped{Lines: make([]itam.Line, 0, len(raw))}
	for _, r := range raw {
		line := itam.Split(r)
		s.Lines = append(s.Lines, line)

		rec, err := line.Record()
		if err != nil {
			s.Skipped++
			continue
		}
		if !tier.Includes(rec.Env) {
			s.OutOfScope++
			continue
		}
		s.Records = append(s.Records, rec)
	}
	return s
}

// Compile runs every phase over the buffered lines. On error no inventory
// is returned.
func (c *Compiler) Compile(raw []string) (*Inventory, error) {
	scoped := Scope(raw, c.tier)
	c.logger.Debug("scoped records",
		"tier", c.tier, "lines", len(scoped.Lines), "in_scope", len(scoped.Records),
		"out_of_scope", scoped.OutOfScope, "malformed", scoped.Skipped)
	for _, rec := range scoped.Records {
		if rec.Meta != "" && !ValidMeta(rec.Meta) {
			c.logger.Debug("ignoring invalid meta field", "host", rec.Hostname, "meta", rec.Meta)
		}
	}

	set := Discover(scoped.Records)
	hosts := BuildHosts(scoped.Records)
	groups := Materialize(set)
	c.logger.Debug("discovered groups", "names", len(set), "materialized", len(groups), "hosts", len(hosts))

	membership, err := Resolve(scoped.Lines, c.tier, groups, hosts)
	if err != nil {
		return nil, err
	}

	inv := Assemble(c.tier, hosts, groups, membership)
	c.logger.Debug("inventory assembled", "groups", len(inv.Groups), "hosts", len(inv.Hosts))
	return inv, nil
}
