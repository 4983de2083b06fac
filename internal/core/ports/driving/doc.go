// Package driving defines the interfaces through which external actors
// drive the core (primary/inbound ports in hexagonal architecture).
//
// The CLI, the chat TUI, and the MCP server all consume these
// interfaces; core services implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package, any driven port implementation
package driving
