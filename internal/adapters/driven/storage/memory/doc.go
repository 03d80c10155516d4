// Package memory provides in-memory implementations of driven port
// interfaces. They back the CLI's --no-store mode and service tests.
package memory
