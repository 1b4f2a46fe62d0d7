// SPDX-License-Identifier: MPL-2.0

// Package itam parses asset-management (ITAM) export records and maps
// deployment tiers to the environment labels they cover.
//
// An export is newline-delimited text. Each line carries exactly twelve
// comma-separated fields in a fixed order (see Record). The format has no
// escaping, so a comma inside a free-text field shifts every later field;
// Line keeps the raw text and field count so callers can detect that case.
package itam
