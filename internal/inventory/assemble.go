// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"encoding/json"

	"github.com/itaminv/itaminv/pkg/itam"

	"golang.org/x/exp/slices"
)

const (
	hostvarsKey = "hostvars"
	hostsKey    = "hosts"
)

// Inventory is a compiled dynamic inventory.
type Inventory struct {
	Tier itam.Tier
	// Hosts maps hostname to host, memberships filled in.
	Hosts map[string]Host
	// Groups maps group name to member hostnames. Every materialized group
	// is present, empty ones included.
	Groups map[string][]string
}

// Materialize returns the names that become groups, sorted, with the
// reserved names removed.
func Materialize(set GroupSet) []string {
	names := make([]string, 0, len(set))
	for _, n := range set.Sorted() {
		if IsReserved(n) {
			continue
		}
		names = append(names, n)
	}
	return names
}

// Assemble combines the host entries, the materialized groups and the
// resolved memberships into a new Inventory. Its inputs are not modified.
func Assemble(tier itam.Tier, hosts map[string]Host, groups []string, m *Membership) *Inventory {
	inv := &Inventory{
		Tier:   tier,
		Hosts:  make(map[string]Host, len(hosts)),
		Groups: make(map[string][]string, len(groups)),
	}
	for name, h := range hosts {
		vars := make(map[string]string, len(h.Vars))
		for k, v := range h.Vars {
			vars[k] = v
		}
		membership := []string{}
		if m != nil {
			membership = append(membership, m.Hosts[name]...)
		}
		inv.Hosts[name] = Host{Name: h.Name, Vars: vars, Membership: membership}
	}
	for _, g := range groups {
		members := []string{}
		if m != nil {
			members = append(members, m.Groups[g]...)
		}
		inv.Groups[g] = members
	}
	return inv
}

// Host returns the named host.
func (inv *Inventory) Host(name string) (Host, bool) {
	h, ok := inv.Hosts[name]
	return h, ok
}

// GroupNames returns the group names in lexical order.
func (inv *Inventory) GroupNames() []string {
	names := make([]string, 0, len(inv.Groups))
	for n := range inv.Groups {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// HostNames returns the hostnames in lexical order.
func (inv *Inventory) HostNames() []string {
	names := make([]string, 0, len(inv.Hosts))
	for n := range inv.Hosts {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Document returns the inventory in the nested form Ansible expects:
//
//	{"_meta": {"hostvars": {host: vars}}, group: {"hosts": [host, ...]}}
func (inv *Inventory) Document() map[string]any {
	hostvars := make(map[string]any, len(inv.Hosts))
	for name, h := range inv.Hosts {
		hostvars[name] = h.Hostvars()
	}
	doc := make(map[string]any, len(inv.Groups)+1)
	doc[MetaKey] = map[string]any{hostvarsKey: hostvars}
	for name, members := range inv.Groups {
		doc[name] = map[string]any{hostsKey: slices.Clone(members)}
	}
	return doc
}

// MarshalJSON encodes the inventory document.
func (inv *Inventory) MarshalJSON() ([]byte, error) {
	return json.Marshal(inv.Document())
}
