// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"github.com/itaminv/itaminv/pkg/itam"

	"golang.org/x/exp/slices"
)

// Structural host variable names.
const (
	VarGlobalzone   = "Globalzone"
	VarOS           = "OS"
	VarEnv          = "Env"
	VarDatacenter   = "Datacenter"
	VarBusinessUnit = "Business_Unit"
	VarDescription  = "Description"
	VarModel        = "Model"
	VarSerial       = "Serial"
	VarInstallDate  = "Install_Date"
	VarChassis      = "Chassis"
	VarLifecycle    = "Lifecycle"
	VarMembership   = "Membership"
)

var reservedVars = []string{
	VarGlobalzone, VarOS, VarEnv, VarDatacenter, VarBusinessUnit, VarDescription,
	VarModel, VarSerial, VarInstallDate, VarChassis, VarLifecycle, VarMembership,
}

// Host is one inventory host: its variables and the groups it belongs to.
type Host struct {
	Name string
	// Vars holds the structural variables plus any meta-assigned ones.
	Vars map[string]string
	// Membership lists group names in the order the host joined them.
	Membership []string
}

// IsReservedVar reports whether a variable name is set from record fields
// and therefore cannot be assigned through a meta field.
func IsReservedVar(name string) bool {
	return slices.Contains(reservedVars, name)
}

// StructuralVars returns the fixed host variables of a record.
func StructuralVars(rec itam.Record) map[string]string {
	return map[string]string{
		VarGlobalzone:   rec.Zone,
		VarOS:           rec.OS,
		VarEnv:          rec.Env,
		VarDatacenter:   Datacenter(rec.Hostname),
		VarBusinessUnit: rec.BusinessUnit,
		VarDescription:  rec.Description,
		VarModel:        rec.Model,
		VarSerial:       rec.Serial,
		VarInstallDate:  rec.InstallDate,
		VarChassis:      ChassisGroup(rec.Chassis),
		VarLifecycle:    rec.Lifecycle,
	}
}

// NewHost builds the host entry of a record: structural variables, then meta
// variables that do not collide with a structural name.
func NewHost(rec itam.Record) Host {
	vars := StructuralVars(rec)
	if meta, ok := ParseMeta(rec.Meta); ok {
		for k, v := range meta.Vars() {
			if IsReservedVar(k) {
				continue
			}
			vars[k] = v
		}
	}
	return Host{Name: rec.Hostname, Vars: vars, Membership: []string{}}
}

// BuildHosts returns a host entry per hostname. When a hostname appears in
// more than one record the last record wins.
func BuildHosts(records []itam.Record) map[string]Host {
	hosts := make(map[string]Host, len(records))
	for _, rec := range records {
		hosts[rec.Hostname] = NewHost(rec)
	}
	return hosts
}

// Hostvars returns the host's variables in document form, Membership included.
func (h Host) Hostvars() map[string]any {
	out := make(map[string]any, len(h.Vars)+1)
	for k, v := range h.Vars {
		out[k] = v
	}
	membership := h.Membership
	if membership == nil {
		membership = []string{}
	}
	out[VarMembership] = slices.Clone(membership)
	return out
}
