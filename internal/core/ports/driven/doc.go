// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - UserDirectory: The external search/listing capability (GitHub)
//   - SnapshotStore: Collection run persistence
//   - ConfigStore: Application configuration
//   - TokenProvider: API credential lookup
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
