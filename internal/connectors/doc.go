// Package connectors holds adapters that discover documents in a source.
//
// Connectors:
//   - filesystem: watches a local folder for created, written and removed files
package connectors
