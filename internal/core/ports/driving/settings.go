package driving

import "github.com/custodia-labs/askdocs-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetWebSearch configures the web-search provider.
	SetWebSearch(apiKey string, maxResults int) error

	// SetSufficiencyPolicy updates the EVALUATE policy and threshold.
	SetSufficiencyPolicy(policy domain.SufficiencyPolicy, threshold float64) error

	// SetStorageBackend selects where index snapshots are persisted.
	SetStorageBackend(backend domain.StorageBackend) error

	// SetDocsDir sets the directory scanned for PDFs.
	SetDocsDir(dir string) error

	// Validate checks if current settings are consistent.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
