// Package layout discovers keyboard layout files and selects them by code or
// label.
//
// A layout directory, such as QEMU's [DefaultDir], holds one key definition
// file per locale plus the shared [CommonFile]. [Discover] builds a [Catalog]
// from it; [Catalog.Select] resolves user queries to layouts, falling back to
// fuzzy matching on "<code> <label>".
package layout
