package mcp

import (
	"github.com/orbitalworks/scenefetch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever runs imagery retrievals.
	Retriever driving.Retriever

	// Sites manages the named-site registry.
	Sites driving.SiteManager
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	// Sites is optional; site tools and resources answer empty.
	return nil
}
