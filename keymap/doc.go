// Package keymap converts keyboard layout description files into a table
// from Unicode code point to the key-press sequence that types it.
//
// # Inputs
//
// A conversion reads four kinds of text files, all whitespace separated:
//
//   - name table: "<name> <unicodeHex>", shared by all layouts
//   - common codes: "<name> <decimalKey> <decimalScancode>", copied verbatim
//   - key definitions: "<name> <hexScancode> [directive|hexScancode]..."
//   - ignore list: one name per line
//
// Key definition directives are shift, altgr, localstate, numlock, addupper
// and inhibit. Lines starting with "#" and include/map lines are skipped.
//
// # Merging
//
// [Merger.Merge] layers the common codes, the common key file and the layout
// key file into one [Map]. When two records produce the same code point the
// one with the smaller raw scancode wins, and ties keep the first. After each
// key file the dead key composer adds sequences such as
//
//	dead_diaeresis, a  ->  adiaeresis
//
// for every name in the name table that is not already reachable directly.
//
// # Output
//
// [Entry.AppendText] produces one asset line per entry; [Map.All] yields
// entries in ascending key order so the encoding is deterministic.
package keymap
