// Package tools provides host I/O helpers shared by the pngme command paths.
//
// Ownership boundary:
// - file read/write adapters
//
// The png packages never touch the filesystem; callers hand them bytes read
// through a FileStore.
package tools
