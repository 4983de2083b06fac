package services

import (
	"fmt"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySearchTopK      = "search.top_k"
	keySearchPolicy    = "search.sufficiency_policy"
	keySearchThreshold = "search.score_threshold"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyWebAPIKey       = "web_search.api_key"
	keyWebMaxResults   = "web_search.max_results"
	keyStorageBackend  = "storage.backend"
	keyStorageS3End    = "storage.s3_endpoint"
	keyStorageS3Bucket = "storage.s3_bucket"
	keyStorageS3Access = "storage.s3_access_key"
	keyStorageS3Secret = "storage.s3_secret_key"
	keyStorageS3SSL    = "storage.s3_use_ssl"
	keyCorpusDocsDir   = "corpus.docs_dir"
	keyChunkSize       = "chunk.max_size"
	keyChunkOverlap    = "chunk.overlap"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Search: domain.SearchSettings{
			TopK:           s.getInt(keySearchTopK, defaults.Search.TopK),
			Policy:         s.getPolicy(defaults.Search.Policy),
			ScoreThreshold: s.getFloat(keySearchThreshold, defaults.Search.ScoreThreshold),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		WebSearch: domain.WebSearchSettings{
			APIKey:     s.configStore.GetString(keyWebAPIKey),
			MaxResults: s.getInt(keyWebMaxResults, defaults.WebSearch.MaxResults),
		},
		Storage: domain.StorageSettings{
			Backend:     s.getBackend(defaults.Storage.Backend),
			S3Endpoint:  s.configStore.GetString(keyStorageS3End),
			S3Bucket:    s.configStore.GetString(keyStorageS3Bucket),
			S3AccessKey: s.configStore.GetString(keyStorageS3Access),
			S3SecretKey: s.configStore.GetString(keyStorageS3Secret),
			S3UseSSL:    s.getBool(keyStorageS3SSL, defaults.Storage.S3UseSSL),
		},
		Corpus: domain.CorpusSettings{
			DocsDir: s.configStore.GetString(keyCorpusDocsDir),
		},
		Chunk: domain.ChunkSettings{
			MaxChunkSize: s.getInt(keyChunkSize, defaults.Chunk.MaxChunkSize),
			Overlap:      s.getInt(keyChunkOverlap, defaults.Chunk.Overlap),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save search settings
	if err := s.configStore.Set(keySearchTopK, settings.Search.TopK); err != nil {
		return fmt.Errorf("save top_k: %w", err)
	}
	if err := s.configStore.Set(keySearchPolicy, settings.Search.Policy.String()); err != nil {
		return fmt.Errorf("save sufficiency policy: %w", err)
	}
	if err := s.configStore.Set(keySearchThreshold, settings.Search.ScoreThreshold); err != nil {
		return fmt.Errorf("save score threshold: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save web-search settings
	if settings.WebSearch.APIKey != "" {
		if err := s.configStore.Set(keyWebAPIKey, settings.WebSearch.APIKey); err != nil {
			return fmt.Errorf("save web_search api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyWebMaxResults, settings.WebSearch.MaxResults); err != nil {
		return fmt.Errorf("save web_search max_results: %w", err)
	}

	// Save storage settings
	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(keyStorageS3End, settings.Storage.S3Endpoint); err != nil {
		return fmt.Errorf("save s3 endpoint: %w", err)
	}
	if err := s.configStore.Set(keyStorageS3Bucket, settings.Storage.S3Bucket); err != nil {
		return fmt.Errorf("save s3 bucket: %w", err)
	}
	if settings.Storage.S3AccessKey != "" {
		if err := s.configStore.Set(keyStorageS3Access, settings.Storage.S3AccessKey); err != nil {
			return fmt.Errorf("save s3 access_key: %w", err)
		}
	}
	if settings.Storage.S3SecretKey != "" {
		if err := s.configStore.Set(keyStorageS3Secret, settings.Storage.S3SecretKey); err != nil {
			return fmt.Errorf("save s3 secret_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyStorageS3SSL, settings.Storage.S3UseSSL); err != nil {
		return fmt.Errorf("save s3 use_ssl: %w", err)
	}

	// Save corpus settings
	if err := s.configStore.Set(keyCorpusDocsDir, settings.Corpus.DocsDir); err != nil {
		return fmt.Errorf("save docs_dir: %w", err)
	}

	// Save chunking settings
	if err := s.configStore.Set(keyChunkSize, settings.Chunk.MaxChunkSize); err != nil {
		return fmt.Errorf("save chunk max_size: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlap, settings.Chunk.Overlap); err != nil {
		return fmt.Errorf("save chunk overlap: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	validProviders := domain.AllEmbeddingProviders()
	valid := false
	for _, p := range validProviders {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetWebSearch configures the web-search provider.
func (s *SettingsService) SetWebSearch(apiKey string, maxResults int) error {
	if apiKey == "" {
		return fmt.Errorf("web search API key is required")
	}
	if maxResults <= 0 {
		maxResults = domain.DefaultWebMaxResults
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.WebSearch.APIKey = apiKey
	settings.WebSearch.MaxResults = maxResults

	return s.Save(settings)
}

// SetSufficiencyPolicy updates the evidence evaluation policy.
func (s *SettingsService) SetSufficiencyPolicy(policy domain.SufficiencyPolicy, threshold float64) error {
	if !policy.IsValid() {
		return fmt.Errorf("invalid sufficiency policy: %s", policy)
	}
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("score threshold must be between 0 and 1, got %g", threshold)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Search.Policy = policy
	if threshold > 0 {
		settings.Search.ScoreThreshold = threshold
	}

	return s.Save(settings)
}

// SetStorageBackend selects where index snapshots are persisted.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Storage.Backend = backend

	return s.Save(settings)
}

// SetDocsDir sets the directory scanned for PDFs.
func (s *SettingsService) SetDocsDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("docs directory is required")
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Corpus.DocsDir = dir

	return s.Save(settings)
}

// Validate checks if current settings are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider is not configured")
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider is not configured")
	}

	if settings.Search.Policy.RequiresLLM() && !settings.LLM.IsConfigured() {
		return fmt.Errorf(
			"sufficiency policy %q requires an LLM provider",
			settings.Search.Policy.Description(),
		)
	}

	if settings.Storage.Backend == domain.StorageS3 {
		if settings.Storage.S3Endpoint == "" || settings.Storage.S3Bucket == "" {
			return fmt.Errorf("s3 storage backend requires an endpoint and bucket")
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getPolicy(defaultVal domain.SufficiencyPolicy) domain.SufficiencyPolicy {
	val := s.configStore.GetString(keySearchPolicy)
	if val == "" {
		return defaultVal
	}
	policy := domain.SufficiencyPolicy(val)
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
