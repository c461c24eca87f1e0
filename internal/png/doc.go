// Package png owns the PNG container model.
//
// Ownership boundary:
// - file signature validation
// - ordered chunk sequence (parse, append, lookup, remove, serialize)
//
// Chunk records live in png/chunk and type tags in png/chunktype.
// Nothing in this tree performs I/O beyond the io.Reader/io.Writer helpers;
// file handling belongs to the message service.
package png
