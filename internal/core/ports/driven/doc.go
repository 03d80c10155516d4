// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Extracts text from one document format
//   - NormaliserRegistry: Selects the normaliser for a format
//   - ContentStore: Durable path to text persistence
//   - PostProcessorPipeline: Normalises extracted text
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Rasteriser: Renders PDF pages to images. Without it, OCR reports a missing dependency.
//   - Recogniser: Recognises text in page images. Without it, OCR reports a missing dependency.
//   - Deskewer: Corrects page skew before recognition. Without it, pages are recognised as-is.
//   - FolderWatcher: Reports file changes. Without it, watch mode is unavailable.
//   - CommandRunner: Runs external programs for adapters that shell out.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
