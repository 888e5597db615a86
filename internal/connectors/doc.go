// Package connectors provides clients for remote imagery providers.
// Each connector implements the driven.ImageryProvider port: catalogue
// search, order submission and polling, and asset download.
//
// planet is the only connector today; provider-specific wire formats
// and rate-limit behavior stay inside the connector package.
package connectors
