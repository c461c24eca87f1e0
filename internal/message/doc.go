// Package message hides text messages in PNG ancillary chunks.
//
// Ownership boundary:
// - encode/decode/remove/inspect flows over whole files
// - "chunk not found" downgrade for decode and remove
//
// File access goes through tools.FileStore; parsing and serialization
// belong to the png packages.
package message
