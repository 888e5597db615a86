// Package tui provides the live retrieval dashboard for scenefetch.
// It implements a driving adapter following hexagonal architecture
// principles.
package tui

import (
	"github.com/orbitalworks/scenefetch/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the
// dashboard. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Retriever runs the retrieval and reports live status.
	Retriever driving.Retriever
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
