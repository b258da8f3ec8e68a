// Package asset serializes keymaps into the text assets read by the client
// and writes them without touching files whose content is unchanged.
package asset
