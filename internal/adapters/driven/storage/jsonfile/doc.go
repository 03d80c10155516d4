// Package jsonfile provides a ContentStore backed by a single JSON file.
//
// The file holds one object mapping source path to extracted text,
// indented with two spaces and keys sorted, so it can be read and diffed
// by hand.
//
// # Durability
//
// Every write serialises the whole map to a temporary file in the same
// directory, fsyncs it, renames it over the store path and fsyncs the
// directory. A failure at any step leaves the previous file in place.
//
// # Thread Safety
//
// Reads and writes are serialised by a mutex held for the full
// load-modify-write cycle. Separate processes writing the same file are
// not coordinated.
package jsonfile
