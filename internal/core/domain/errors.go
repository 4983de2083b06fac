package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexNotReady indicates the vector index holds no passages.
	// The user must index documents before asking questions.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrConflict indicates a passage with the same ID is already indexed.
	// The index rejects duplicates rather than silently overwriting.
	ErrConflict = errors.New("duplicate passage ID")

	// ErrCollaborator indicates an external collaborator call failed
	// (embedding, LLM, web search, or storage). The underlying message
	// is passed through; the core never retries internally.
	ErrCollaborator = errors.New("collaborator failure")

	// ErrMalformedIndex indicates a persisted index snapshot failed
	// checksum or shape validation on load. The corpus must be
	// re-indexed before it can serve queries again.
	ErrMalformedIndex = errors.New("malformed index snapshot")

	// ErrNoDocuments indicates the corpus contains no documents.
	ErrNoDocuments = errors.New("no documents in corpus")

	// ErrDimensionMismatch indicates an embedding does not match the
	// index dimensionality. Mixing embedding model versions silently
	// corrupts similarity semantics, so this is always rejected.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Nothing can be indexed or retrieved without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrWebSearchUnavailable indicates the web-search service is not
	// configured. The agent answers from documents only.
	ErrWebSearchUnavailable = errors.New("web search service unavailable")
)
