// Package cmd implements the kmap subcommands.
//
//   - [Convert] writes one keymap asset per selected layout.
//   - [List] prints the layouts found in the layout directory.
//   - [Inspect] prints the resolved keymap of one layout.
//   - [Init] writes a configuration file with the current flag values.
//
// Commands receive the parsed [kong.Context] through the context passed to
// their Run method and the shared [Input] as a kong binding.
package cmd

import (
	"github.com/alecthomas/kong"

	"github.com/ardnew/kmap/layout"
)

var (
	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file written by [Init].
	ConfigIdentifier = "config"

	// LayoutDirIdentifier is the kong variable identifier containing the
	// default layout directory.
	LayoutDirIdentifier = "layoutDir"
)

// Vars returns the kong variables referenced by the command flags.
func Vars() kong.Vars {
	return kong.Vars{LayoutDirIdentifier: layout.DefaultDir}
}
