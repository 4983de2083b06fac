package domain

const unknownDescription = "Unknown"

// Default pipeline constants.
const (
	// DefaultChunkSize is the maximum passage length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the number of characters shared between
	// adjacent passages on the same page.
	DefaultChunkOverlap = 200

	// DefaultTopK is the number of passages retrieved per question.
	DefaultTopK = 5

	// DefaultScoreThreshold is the similarity score above which the
	// threshold sufficiency policy judges evidence sufficient.
	DefaultScoreThreshold = 0.7

	// DefaultWebMaxResults is the number of web results requested on escalation.
	DefaultWebMaxResults = 3
)

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// SufficiencyPolicy selects how EVALUATE decides whether retrieved
// evidence suffices to answer without web escalation.
type SufficiencyPolicy string

// Available sufficiency policies.
const (
	// SufficiencyThreshold compares the top similarity score against a
	// configured threshold. Cheap, no extra LLM call.
	SufficiencyThreshold SufficiencyPolicy = "threshold"

	// SufficiencyLLM asks the language model to judge whether the
	// retrieved passages answer the question.
	SufficiencyLLM SufficiencyPolicy = "llm"
)

// IsValid returns true if the policy is recognised.
func (p SufficiencyPolicy) IsValid() bool {
	return p == SufficiencyThreshold || p == SufficiencyLLM
}

// RequiresLLM returns true if this policy needs an LLM provider.
func (p SufficiencyPolicy) RequiresLLM() bool {
	return p == SufficiencyLLM
}

// String returns the string representation.
func (p SufficiencyPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p SufficiencyPolicy) Description() string {
	switch p {
	case SufficiencyThreshold:
		return "Threshold (top similarity score vs configured cutoff)"
	case SufficiencyLLM:
		return "LLM (model judges whether passages answer the question)"
	default:
		return unknownDescription
	}
}

// StorageBackend identifies where index snapshots are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageFilesystem stores snapshots as files under the data directory.
	StorageFilesystem StorageBackend = "filesystem"

	// StorageBolt stores snapshots in a local bbolt database.
	StorageBolt StorageBackend = "bolt"

	// StorageS3 stores snapshots in an S3-compatible object store.
	StorageS3 StorageBackend = "s3"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageFilesystem, StorageBolt, StorageS3:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageFilesystem:
		return "Filesystem (snapshot files under the data directory)"
	case StorageBolt:
		return "Bolt (local bbolt database)"
	case StorageS3:
		return "S3 (S3-compatible object store)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// SearchSettings holds retrieval and sufficiency configuration.
type SearchSettings struct {
	// TopK is the number of passages retrieved per question.
	TopK int

	// Policy selects the sufficiency judgment implementation.
	Policy SufficiencyPolicy

	// ScoreThreshold is the cutoff used by the threshold policy.
	ScoreThreshold float64
}

// WebSearchSettings holds web-search provider configuration.
type WebSearchSettings struct {
	// APIKey is the Tavily API key.
	APIKey string

	// MaxResults is the number of results requested on escalation.
	MaxResults int
}

// IsConfigured returns true if the web-search provider is set up.
func (w WebSearchSettings) IsConfigured() bool {
	return w.APIKey != ""
}

// StorageSettings holds snapshot storage configuration.
type StorageSettings struct {
	// Backend selects where index snapshots are persisted.
	Backend StorageBackend

	// S3Endpoint is the S3-compatible endpoint (for the s3 backend).
	S3Endpoint string

	// S3Bucket is the bucket holding snapshots.
	S3Bucket string

	// S3AccessKey and S3SecretKey are the static credentials.
	S3AccessKey string
	S3SecretKey string

	// S3UseSSL enables TLS for the S3 endpoint.
	S3UseSSL bool
}

// CorpusSettings holds document corpus configuration.
type CorpusSettings struct {
	// DocsDir is the directory scanned for PDF documents to index.
	DocsDir string
}

// ChunkSettings holds passage chunking configuration.
type ChunkSettings struct {
	// MaxChunkSize is the maximum passage length in characters.
	MaxChunkSize int

	// Overlap is the number of characters shared between adjacent passages.
	Overlap int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Search holds retrieval and sufficiency settings.
	Search SearchSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// WebSearch holds web-search provider settings.
	WebSearch WebSearchSettings

	// Storage holds snapshot storage settings.
	Storage StorageSettings

	// Corpus holds document corpus settings.
	Corpus CorpusSettings

	// Chunk holds passage chunking settings.
	Chunk ChunkSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users set them up via the
// settings wizard or environment variables.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchSettings{
			TopK:           DefaultTopK,
			Policy:         SufficiencyThreshold,
			ScoreThreshold: DefaultScoreThreshold,
		},
		Embedding: EmbeddingSettings{},
		LLM:       LLMSettings{},
		WebSearch: WebSearchSettings{
			MaxResults: DefaultWebMaxResults,
		},
		Storage: StorageSettings{
			Backend: StorageFilesystem,
		},
		Corpus: CorpusSettings{},
		Chunk: ChunkSettings{
			MaxChunkSize: DefaultChunkSize,
			Overlap:      DefaultChunkOverlap,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// AllSufficiencyPolicies returns all available sufficiency policies.
func AllSufficiencyPolicies() []SufficiencyPolicy {
	return []SufficiencyPolicy{
		SufficiencyThreshold,
		SufficiencyLLM,
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{
		StorageFilesystem,
		StorageBolt,
		StorageS3,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	}
}
