// Package mcp provides an MCP (Model Context Protocol) server adapter for
// scenefetch. It enables AI assistants like Claude to run imagery retrievals
// and browse the site registry.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
