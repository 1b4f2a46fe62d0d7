// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"strings"

	"github.com/itaminv/itaminv/pkg/itam"
)

// Membership is the result of the resolution pass.
type Membership struct {
	// Groups maps a group name to its hosts in join order.
	Groups map[string][]string
	// Hosts maps a hostname to its groups in join order.
	Hosts map[string][]string

	joined map[string]map[string]struct{}
}

func newMembership(groups []string) *Membership {
	m := &Membership{
		Groups: make(map[string][]string, len(groups)),
		Hosts:  make(map[string][]string),
		joined: make(map[string]map[string]struct{}),
	}
	for _, g := range groups {
		m.Groups[g] = []string{}
	}
	return m
}

// join records hostname in group on both sides. A pair is recorded once.
func (m *Membership) join(group, hostname string) {
	seen, ok := m.joined[hostname]
	if !ok {
		seen = make(map[string]struct{})
		m.joined[hostname] = seen
	}
	if _, dup := seen[group]; dup {
		return
	}
	seen[group] = struct{}{}
	m.Groups[group] = append(m.Groups[group], hostname)
	m.Hosts[hostname] = append(m.Hosts[hostname], group)
}

// Matches reports whether the raw line joins group under the substring rules:
//   - cluster groups match when their base name occurs in the line
//   - a zone group matches only the line's own zone, when that zone occurs in the line
//   - other names containing "zones" never match structurally
//   - every other name matches when it occurs anywhere in the line
//   - independently, a valid meta field containing the name matches, except
//     for zone groups, which only ever follow the line's own zone
func Matches(group string, line itam.Line) bool {
	if IsReserved(group) {
		return false
	}
	if matchesStructural(group, line) {
		return true
	}
	if strings.HasSuffix(group, ZoneSuffix) {
		return false
	}
	meta := line.Meta()
	return strings.Contains(meta, group) && ValidMeta(meta)
}

func matchesStructural(group string, line itam.Line) bool {
	switch {
	case strings.HasSuffix(group, ClusterSuffix):
		base := strings.TrimSuffix(group, ClusterSuffix)
		return base != "" && strings.Contains(line.Raw, base)
	case strings.HasSuffix(group, ZoneSuffix):
		zone := line.Zone()
		return zone != "" && group == zone+ZoneSuffix && strings.Contains(line.Raw, zone)
	case strings.Contains(group, zoneMarker):
		return false
	default:
		return strings.Contains(line.Raw, group)
	}
}

// Resolve scans the raw lines a second time and assigns in-scope hosts to
// the materialized groups. groups must be the output of Materialize and hosts
// the output of BuildHosts.
//
// A matching line whose host has no entry is skipped, unless the line has
// more fields than a record may have: then the export is corrupt and Resolve
// fails with an *EmbeddedDelimiterError.
func Resolve(lines []itam.Line, tier itam.Tier, groups []string, hosts map[string]Host) (*Membership, error) {
	m := newMembership(groups)
	for i, line := range lines {
		if !tier.Includes(line.Env()) {
			continue
		}
		hostname := line.Hostname()
		_, known := hosts[hostname]
		for _, group := range groups {
			if !Matches(group, line) {
				continue
			}
			if !known {
				if line.HasEmbeddedDelimiter() {
					return nil, &EmbeddedDelimiterError{Hostname: hostname, Line: i + 1, Fields: len(line.Fields)}
				}
				break
			}
			m.join(group, hostname)
		}
	}
	return m, nil
}
