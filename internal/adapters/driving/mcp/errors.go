// Package mcp provides an MCP (Model Context Protocol) server adapter for AskDocs.
// It enables AI assistants like Claude to ask questions against the local corpus.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
