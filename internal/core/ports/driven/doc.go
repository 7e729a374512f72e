// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a sync run to function:
//
//   - BatchSource: Streams a bulk export in bounded batches
//   - PermitNormaliser: Decodes and maps export elements
//   - ChangeDetector: Content hashing and field diffing
//   - NameNormaliser: Builder name dedup keys
//   - PermitStore: Canonical permit persistence
//   - ChangeStore: Append-only change log
//   - SyncRunStore: Run summary persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SyncMetrics: Run, batch and record instrumentation
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
