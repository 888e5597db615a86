// Package domain defines the core business entities for scenefetch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Request: A retrieval request (site, polygon, date window, destination)
//   - SceneRecord: An imagery scene discovered by search
//   - OrderRequest / OrderSnapshot: Provider order lifecycle types
//   - AssetDescriptor: A downloadable deliverable within a fulfilled order
//   - RetrievalReport: The outcome of one retrieval run
//   - Site: A named, reusable area of interest
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
