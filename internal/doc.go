// Package internal holds the EventSG backend internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, problem responses, and routing
// - domain: venue directory, registration ledger, and user preferences
// - storage: the PostgreSQL record store and repositories
// - assets, config, metrics, sanitize, telemetry: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
