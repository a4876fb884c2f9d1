// Package writeflow provides a write-path orchestration layer for routing
// business write requests to pluggable storage backends.
//
// # Architecture
//
// A write request names a target (which backend adapter serves it) and a
// type (which business handler inside that adapter runs it). The manager
// validates the request, selects an adapter, and executes the write through
// a middleware pipeline:
//
//	┌─────────────────────────────────────┐
//	│          Write Manager              │  validation, routing,
//	│       (manager.Manager)             │  error normalization
//	└─────────────────────────────────────┘
//	           ↓ wraps every write with
//	┌─────────────────────────────────────┐
//	│       Middleware Pipeline           │  logging → metrics →
//	│       (middleware.Chain)            │  timeout → retry
//	└─────────────────────────────────────┘
//	           ↓ dispatches to
//	┌─────────────────────────────────────┐
//	│       Backend Adapters              │  type → handler dispatch
//	│   (writer.Writer, writer.Base)      │  against native clients
//	└─────────────────────────────────────┘
//
// # Packages
//
//   - errors: closed error taxonomy shared by every layer
//   - writer: adapter and handler contracts plus the handler registry
//   - middleware: composable timeout/retry/logging/metrics wrappers
//   - manager: the orchestration entry point
//   - config: construction-time configuration with validation
//   - metric: Prometheus instruments for the write path
//   - kvwriter, sqlwriter: concrete adapters for key-value and relational
//     backends
//
// # Extension Model
//
// New backends implement writer.Writer (usually by embedding writer.Base)
// and are registered with the manager at startup. New business operations
// are handlers registered into an adapter by type string. The orchestration
// path never changes when backends or types are added.
//
// # Concurrency
//
// A manager is safe for concurrent Write calls once registration is
// complete. Registration is a startup-time operation and must not run
// concurrently with traffic. Handler registries use a concurrent map so
// steady-state lookups never contend with writes issued by arbitrarily
// many callers.
package writeflow
