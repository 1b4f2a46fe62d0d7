// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	list       bool
	host       string
	tier       string
	sourceCmd  string
	sourceFile string
	runtime    string
	format     string
	indent     int
	configFile string
	verbose    bool
}

func (f *rootFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.tier, "tier", "", "deployment tier: Production, UAT or Lower (env IMPORT_ENV)")
	pf.StringVar(&f.sourceCmd, "source-cmd", "", "command that prints the ITAM export (env ITAM_PATH)")
	pf.StringVar(&f.sourceFile, "source-file", "", "read the ITAM export from a file, - for stdin")
	pf.StringVar(&f.runtime, "runtime", "", "how --source-cmd runs: native or virtual")
	pf.StringVar(&f.format, "format", "", "output format: json, yaml or toml")
	pf.IntVar(&f.indent, "indent", 0, "spaces per indentation level, 0 for compact output")
	pf.StringVar(&f.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/itaminv/config.cue)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging and detailed errors")

	cmd.Flags().BoolVar(&f.list, "list", false, "print the whole inventory (default action)")
	cmd.Flags().StringVar(&f.host, "host", "", "print the variables of a single host")
	cmd.MarkFlagsMutuallyExclusive("list", "host")
}

// overrides returns the config keys set explicitly on the command line.
// Selecting one source kind clears the other so the flag always wins.
func (f *rootFlags) overrides(cmd *cobra.Command) map[string]any {
	flags := cmd.Flags()
	out := make(map[string]any)

	if flags.Changed("tier") {
		out["tier"] = f.tier
	}
	if flags.Changed("source-cmd") {
		out["source.command"] = f.sourceCmd
		if !flags.Changed("source-file") {
			out["source.file"] = ""
		}
	}
	if flags.Changed("source-file") {
		out["source.file"] = f.sourceFile
		if !flags.Changed("source-cmd") {
			out["source.command"] = ""
		}
	}
	if flags.Changed("runtime") {
		out["source.runtime"] = f.runtime
	}
	if flags.Changed("format") {
		out["output.format"] = f.format
	}
	if flags.Changed("indent") {
		out["output.indent"] = f.indent
	}
	if flags.Changed("verbose") {
		out["ui.verbose"] = f.verbose
	}
	return out
}
