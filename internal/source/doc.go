// SPDX-License-Identifier: MPL-2.0

// Package source obtains the raw ITAM export.
//
// The export is produced once per run, either by an external command
// (executed directly on the host, or interpreted by the embedded mvdan/sh
// shell) or by reading a file or standard input. The whole output is
// buffered in memory before parsing begins.
package source
