// Package services implements the driving port interfaces.
// Services contain the ingestion logic and orchestrate
// calls to driven ports (adapters).
//
// Services depend only on port interfaces; external programs and
// libraries are reached through adapters.
package services
