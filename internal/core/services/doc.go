// Package services implements the driving port interfaces.
// Services contain the core business logic: the retrieval pipeline
// (search, order assembly, polling, download) and the site registry,
// orchestrating calls to driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
