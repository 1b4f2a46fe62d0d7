// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"strings"
	"testing"

	"github.com/itaminv/itaminv/pkg/itam"
)

// testRecord holds export fields for building test lines.
type testRecord struct {
	host, zone, os, env, bu, meta, desc, model, serial, date, chassis, lifecycle string
}

func (r testRecord) line() string {
	return strings.Join([]string{
		r.host, r.zone, r.os, r.env, r.bu, r.meta, r.desc, r.model, r.serial, r.date, r.chassis, r.lifecycle,
	}, ",")
}

func (r testRecord) record(t *testing.T) itam.Record {
	t.Helper()
	rec, err := itam.Parse(r.line())
	if err != nil {
		t.Fatalf("test record %q does not parse: %v", r.host, err)
	}
	return rec
}

var (
	dbPrimary = testRecord{
		host: "dbhost01a", zone: "gz01", os: "RHEL7", env: "Production", bu: "Finance",
		meta: "groups=Apache;T24;", desc: "Core DB", model: "R740", serial: "SN1",
		date: "2015-01-01", chassis: "VMware-42 05:extra", lifecycle: "Active",
	}
	dbReplica = testRecord{
		host: "dbhost01b", zone: "gz01", os: "RHEL7", env: "DR", bu: "Finance",
		desc: "Core DB replica", model: "R740", serial: "SN2",
		date: "2015-01-01", chassis: "VMware-42 05", lifecycle: "Active",
	}
	uatWeb = testRecord{
		host: "web01", zone: "gz02", os: "Windows", env: "UAT", bu: "Retail",
		desc: "Storefront", model: "R640", serial: "SN3",
		date: "2016-03-04", chassis: "blade7", lifecycle: "Active",
	}
)

func compileLines(t *testing.T, tier itam.Tier, lines ...string) *Inventory {
	t.Helper()
	c, err := NewCompiler(tier)
	if err != nil {
		t.Fatalf("NewCompiler(%q) error = %v", tier, err)
	}
	inv, err := c.Compile(lines)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return inv
}

func containsAll(haystack []string, needles ...string) bool {
	set := make(map[string]bool, len(haystack))
	for _, h := range haystack {
		set[h] = true
	}
	for _, n := range needles {
		if !set[n] {
			return false
		}
	}
	return true
}
