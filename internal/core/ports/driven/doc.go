// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: text → fixed-length vector (indexing and retrieval)
//   - LLMService: prompt → text (sufficiency judgment and answer synthesis)
//   - VectorIndex: passage/embedding storage and exact k-NN queries
//   - BlobStore: durable storage for index snapshots
//   - CorpusStore: document and passage catalog
//   - Extractor: PDF file → pages of plain text
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - WebSearchService: web escalation. Without it, the agent answers
//     from documents only and reports when evidence is insufficient.
//   - HistoryStore: ask history. Without it, answers are not recorded.
//   - PromptStore: user-customisable prompt templates.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
