package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"ollama is valid", AIProviderOllama, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"anthropic is valid", AIProviderAnthropic, true},
		{"empty string is invalid", AIProvider(""), false},
		{"unknown provider is invalid", AIProvider("cohere"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

func TestSufficiencyPolicy_IsValid(t *testing.T) {
	assert.True(t, SufficiencyThreshold.IsValid())
	assert.True(t, SufficiencyLLM.IsValid())
	assert.False(t, SufficiencyPolicy("vibes").IsValid())
}

func TestSufficiencyPolicy_RequiresLLM(t *testing.T) {
	assert.False(t, SufficiencyThreshold.RequiresLLM())
	assert.True(t, SufficiencyLLM.RequiresLLM())
}

func TestStorageBackend_IsValid(t *testing.T) {
	assert.True(t, StorageFilesystem.IsValid())
	assert.True(t, StorageBolt.IsValid())
	assert.True(t, StorageS3.IsValid())
	assert.False(t, StorageBackend("gcs").IsValid())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{
			name:     "unconfigured",
			settings: EmbeddingSettings{},
			expected: false,
		},
		{
			name:     "ollama without key",
			settings: EmbeddingSettings{Provider: AIProviderOllama, Model: "nomic-embed-text"},
			expected: true,
		},
		{
			name:     "openai without key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, Model: "text-embedding-3-small"},
			expected: false,
		},
		{
			name:     "openai with key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestWebSearchSettings_IsConfigured(t *testing.T) {
	assert.False(t, WebSearchSettings{}.IsConfigured())
	assert.True(t, WebSearchSettings{APIKey: "tvly-test"}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, DefaultTopK, settings.Search.TopK)
	assert.Equal(t, SufficiencyThreshold, settings.Search.Policy)
	assert.InDelta(t, DefaultScoreThreshold, settings.Search.ScoreThreshold, 1e-9)
	assert.Equal(t, StorageFilesystem, settings.Storage.Backend)
	assert.Equal(t, DefaultChunkSize, settings.Chunk.MaxChunkSize)
	assert.Equal(t, DefaultChunkOverlap, settings.Chunk.Overlap)
	assert.Equal(t, DefaultWebMaxResults, settings.WebSearch.MaxResults)

	// Providers start unconfigured; the wizard or env sets them up.
	assert.False(t, settings.Embedding.IsConfigured())
	assert.False(t, settings.LLM.IsConfigured())
}

func TestDefaultModels_CoverAllProviders(t *testing.T) {
	embed := DefaultEmbeddingModels()
	for _, p := range AllEmbeddingProviders() {
		assert.NotEmpty(t, embed[p], "no default embedding model for %s", p)
	}

	llm := DefaultLLMModels()
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, llm[p], "no default LLM model for %s", p)
	}
}
