// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the itaminv command line.
//
// The root command is an Ansible dynamic inventory script: invoked with
// --list (the default) it prints the whole inventory, with --host NAME it
// prints that host's variables. The check and config subcommands help
// operators diagnose exports and configuration.
package cmd
