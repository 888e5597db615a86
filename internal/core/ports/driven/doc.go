// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ImageryProvider: Search, order, poll and download against the
//     remote imagery API
//   - StoreOpener / AssetStore: Destination persistence for delivered
//     assets
//   - TokenProvider: Supplies the API credential per call
//
// # Optional Interfaces
//
//   - SiteStore: Named-site registry. Without it, only ad-hoc polygons
//     can be retrieved.
//   - ConfigStore: Application configuration persistence.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
