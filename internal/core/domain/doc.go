// Package domain defines the core entities of the folio ingestion pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDocument: A file submitted for ingestion
//   - ExtractedText: The normalised text produced by one extraction attempt
//   - PageImage: A rasterised PDF page, transient to a single OCR call
//   - StoreEntry: One path to text mapping in the persistent store
//   - BatchReport: Per-file outcomes of a folder ingestion
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
