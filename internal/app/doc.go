// Package app holds configuration and builds the dependency graph for the
// CLI. Configuration is an explicit value passed into constructors; there is
// no process-wide mutable state.
package app
