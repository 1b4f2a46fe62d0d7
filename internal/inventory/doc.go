// SPDX-License-Identifier: MPL-2.0

// Package inventory compiles ITAM records into an Ansible dynamic inventory.
//
// Compilation runs as explicit phases over the buffered export, each phase
// returning new collections:
//
//  1. Scope: records whose Env is outside the tier are dropped.
//  2. Discover: structural group names (datacenter, zone, OS, business
//     unit, model, chassis, cluster) and meta-declared groups are collected.
//  3. BuildHosts: structural and meta host variables per hostname.
//  4. Materialize: every discovered name except the reserved ones becomes
//     an empty group.
//  5. Resolve: the raw lines are scanned again and hosts are assigned to
//     groups by substring matching.
//  6. Assemble: hosts, groups and memberships form the final Inventory.
//
// The group-name set must be complete before Resolve runs, so the two
// passes over the export are never fused.
package inventory
