// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"regexp"
	"strings"

	"github.com/itaminv/itaminv/pkg/itam"

	"golang.org/x/exp/slices"
)

const (
	// ZoneSuffix marks groups built from the global-zone field.
	ZoneSuffix = "_zones"
	// ClusterSuffix marks groups inferred from HA hostname pairs.
	ClusterSuffix = "_cluster"
	// MetaKey is the top-level document key holding hostvars.
	MetaKey = "_meta"

	datacenterLen  = 4
	chassisSep     = ":"
	zoneMarker     = "zones"
	clusterPairLen = 2
)

// clusterPattern matches HA hostnames such as dbhost01a / dbhost01b. The
// a/b suffix must follow a digit, and the digit is dropped with it, so
// dbhost01a pairs into dbhost0_cluster; names like webserva never pair.
var clusterPattern = regexp.MustCompile(`(?i)[0-9][ab]$`)

// GroupSet is a deduplicated set of group names collected during discovery.
type GroupSet map[string]struct{}

// Add inserts names into the set.
func (s GroupSet) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

// Has reports whether name is in the set.
func (s GroupSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in lexical order.
func (s GroupSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// IsReserved reports whether a group name is never materialized: the empty
// name, the bare zone suffix left by an empty zone field, and the hostvars key.
func IsReserved(name string) bool {
	return name == "" || name == ZoneSuffix || name == MetaKey
}

// Datacenter returns the datacenter code of a hostname: its first four characters.
func Datacenter(hostname string) string {
	r := []rune(hostname)
	if len(r) <= datacenterLen {
		return hostname
	}
	return string(r[:datacenterLen])
}

// ChassisGroup returns the chassis value up to its first colon.
func ChassisGroup(chassis string) string {
	group, _, _ := strings.Cut(chassis, chassisSep)
	return group
}

// ClusterBase returns the hostname stem shared by an HA pair, with the
// trailing digit and a/b suffix removed. It returns false when the hostname
// does not follow the pairing convention.
func ClusterBase(hostname string) (string, bool) {
	if !clusterPattern.MatchString(hostname) {
		return "", false
	}
	base := hostname[:len(hostname)-clusterPairLen]
	if base == "" {
		return "", false
	}
	return base, true
}

// ClusterGroup returns the cluster group name for a hostname, if any.
func ClusterGroup(hostname string) (string, bool) {
	base, ok := ClusterBase(hostname)
	if !ok {
		return "", false
	}
	return base + ClusterSuffix, true
}

// StructuralGroups derives the group names implied by a record's fields.
// Names may be empty or reserved; Materialize filters them.
func StructuralGroups(rec itam.Record) []string {
	groups := []string{
		Datacenter(rec.Hostname),
		rec.Zone + ZoneSuffix,
		rec.OS,
		rec.BusinessUnit,
		rec.Model,
		ChassisGroup(rec.Chassis),
	}
	if cluster, ok := ClusterGroup(rec.Hostname); ok {
		groups = append(groups, cluster)
	}
	return groups
}

// Discover collects the structural and meta-declared group names of every
// record into a new set. Records must already be scoped to the tier.
func Discover(records []itam.Record) GroupSet {
	set := make(GroupSet)
	for _, rec := range records {
		set.Add(StructuralGroups(rec)...)
		if meta, ok := ParseMeta(rec.Meta); ok {
			set.Add(meta.Groups()...)
		}
	}
	return set
}
