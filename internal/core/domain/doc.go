// Package domain defines the core business entities of the permit sync pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawElement: One undecoded element of a bulk export
//   - RawPermit: An upstream record as field name to string value
//   - Permit: The canonical, typed permit revision
//   - PermitChange: One changed field detected by a run
//   - SyncRun: One pipeline execution and its record accounting
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
