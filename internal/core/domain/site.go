package domain

import "time"

// Site is a named, reusable area of interest. Sites let a retrieval be
// requested by name ("jekyllisland") instead of repeating the polygon.
type Site struct {
	// Name is the unique site identifier.
	Name string

	// AOI is the site polygon.
	AOI Ring

	// Notes is free-form operator commentary.
	Notes string

	// CreatedAt is when the site was registered.
	CreatedAt time.Time

	// UpdatedAt is when the site was last modified.
	UpdatedAt time.Time
}
