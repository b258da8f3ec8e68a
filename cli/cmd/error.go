package cmd

import "github.com/ardnew/kmap/keymap"

// Errors reported by the commands. They share [keymap.Error], so a derived
// error matches its own sentinel only.
var (
	ErrJSONMarshal = keymap.NewError("marshal JSON")
	ErrYAMLMarshal = keymap.NewError("marshal YAML")
	ErrWriteConfig = keymap.NewError("write configuration file")
	ErrFileExists  = keymap.NewError("file exists (use --force to overwrite)")
	ErrOutputDir   = keymap.NewError("create output directory")
	ErrConvert     = keymap.NewError("layouts failed to convert")
	ErrNoLayouts   = keymap.NewError("no layouts selected")
	ErrFilter      = keymap.NewError("invalid filter expression")
	ErrFormat      = keymap.NewError("unsupported output format")
)
