// Package domain defines the core business entities for Askdocs.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: an ingested PDF with its extracted pages
//   - Passage: the smallest retrievable unit of document text
//   - Evidence: a scored passage or web result backing an answer
//   - Answer: the final response with ordered citations
//   - AgentTrace: the decisions taken while answering one question
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
