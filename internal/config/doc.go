// SPDX-License-Identifier: MPL-2.0

// Package config handles itaminv configuration using Viper with CUE as the file format.
//
// Configuration is read from config.cue in the itaminv configuration directory
// ($XDG_CONFIG_HOME/itaminv on Linux, ~/Library/Application Support/itaminv on
// macOS, %APPDATA%\itaminv on Windows), from the current directory, or from an
// explicit path. Files are validated against the embedded schema
// (config_schema.cue) before being merged into Viper.
//
// Environment variables override file values. The variable names of the
// legacy inventory script are honored: IMPORT_ENV selects the tier and
// ITAM_PATH the export command. Every key also has an ITAMINV_ variant,
// for example ITAMINV_OUTPUT_FORMAT.
package config
