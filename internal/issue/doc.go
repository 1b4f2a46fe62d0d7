// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and the catalog of known
// inventory problems.
//
// An ActionableError names the failed operation, the resource involved and
// remediation hints. Catalog entries are Markdown documents rendered with
// glamour when the CLI runs in verbose mode.
package issue
