// Package cli contains the command line interface for kmap.
//
// # Usage
//
//	kmap [flags] [layout ...]        convert layouts (default command)
//	kmap list [--known] [--format]   list discovered layouts
//	kmap inspect <layout> [--filter] print one layout's keymap
//	kmap init [--force]              write a configuration file
//
// Layouts are selected by code ("de"), by label ("German (Germany)") or by
// an unambiguous fuzzy query ("germ swi"). Without arguments, convert
// processes the layouts with a known label; --all converts every layout.
//
// # Configuration
//
// Flag values can be set in configuration files in the user configuration
// directory (config.yaml, config.yml, config.toml and config.json under
// $XDG_CONFIG_HOME/kmap) and in KMAP_* environment variables. The command
// line always wins. Keys are flag names; nested tables are joined with
// hyphens:
//
//	log:
//	  level: debug
//	layouts: /usr/share/qemu/keymaps
//	names: /etc/kmap/name_to_unicode.in
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/kmap/pprof)
package cli
