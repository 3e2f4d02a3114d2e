// Package domain defines the core business entities for ghcensus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - UserProfile: A user returned by the directory search
//   - RepositorySummary: A repository owned by a collected user
//   - UserRecord: A profile paired with its repository list
//   - Snapshot: A persisted collection run
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
