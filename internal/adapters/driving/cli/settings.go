package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, retrieval options, and storage.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used to vectorise passages and questions.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for sufficiency judgment and answer synthesis.`,
	RunE:  runSettingsLLM,
}

var settingsWebSearchCmd = &cobra.Command{
	Use:   "websearch",
	Short: "Configure web-search provider",
	Long:  `Configure the Tavily API key used when document evidence is insufficient.`,
	RunE:  runSettingsWebSearch,
}

var settingsPolicyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Set the sufficiency policy",
	Long: `Set how retrieved passages are judged sufficient to answer a question.

Available policies:
  threshold - Top retrieval score against a cutoff (no LLM call)
  llm       - Ask the LLM for a sufficiency verdict`,
	RunE: runSettingsPolicy,
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Select the snapshot storage backend",
	Long: `Select where index snapshots are persisted.

Available backends:
  filesystem - Local files under the data directory
  bolt       - Embedded bbolt database
  s3         - S3-compatible object store`,
	RunE: runSettingsStorage,
}

var settingsDocsDirCmd = &cobra.Command{
	Use:   "docsdir [path]",
	Short: "Set the directory scanned for PDFs",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsDocsDir,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsWebSearchCmd)
	settingsCmd.AddCommand(settingsPolicyCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	settingsCmd.AddCommand(settingsDocsDirCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Policy: %s\n", settings.Search.Policy.Description())
	cmd.Printf("  Top K: %d\n", settings.Search.TopK)
	if settings.Search.Policy == domain.SufficiencyThreshold {
		cmd.Printf("  Score Threshold: %.2f\n", settings.Search.ScoreThreshold)
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	printProviderSettings(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())

	cmd.Println("[LLM]")
	printProviderSettings(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())

	cmd.Println("[Web Search]")
	if settings.WebSearch.IsConfigured() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.WebSearch.APIKey))
		cmd.Printf("  Max Results: %d\n", settings.WebSearch.MaxResults)
		cmd.Printf("  Status: configured\n")
	} else {
		cmd.Printf("  Status: not configured (answers come from documents only)\n")
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	if settings.Storage.Backend == domain.StorageS3 {
		cmd.Printf("  Endpoint: %s\n", settings.Storage.S3Endpoint)
		cmd.Printf("  Bucket: %s\n", settings.Storage.S3Bucket)
	}
	cmd.Println()

	cmd.Println("[Corpus]")
	docsDir := settings.Corpus.DocsDir
	if docsDir == "" {
		docsDir = "(not set)"
	}
	cmd.Printf("  Docs Directory: %s\n", docsDir)
	cmd.Printf("  Chunk Size: %d\n", settings.Chunk.MaxChunkSize)
	cmd.Printf("  Chunk Overlap: %d\n", settings.Chunk.Overlap)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'askdocs settings embedding' and 'askdocs settings llm' to fix.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

// printProviderSettings prints one AI provider block.
func printProviderSettings(
	cmd *cobra.Command,
	provider domain.AIProvider,
	model, baseURL, apiKey string,
	configured bool,
) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	cmd.Println("Run 'askdocs reindex' to re-embed existing documents.")
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

func runSettingsWebSearch(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Print("Enter Tavily API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required")
	}

	cmd.Printf("Max results per search [%d]: ", domain.DefaultWebMaxResults)
	input := readLine(reader)
	maxResults := parseChoice(input, 20, domain.DefaultWebMaxResults)

	if err := settingsService.SetWebSearch(apiKey, maxResults); err != nil {
		return fmt.Errorf("failed to configure web search: %w", err)
	}

	cmd.Println("Web search configured.")
	return nil
}

func runSettingsPolicy(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Sufficiency Policy")
	policies := domain.AllSufficiencyPolicies()
	for i, p := range policies {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(policies), 1)
	policy := policies[idx-1]

	threshold := 0.0
	if policy == domain.SufficiencyThreshold {
		cmd.Printf("Score threshold (0..1) [%.2f]: ", domain.DefaultScoreThreshold)
		raw := readLine(reader)
		if raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("invalid threshold: %w", err)
			}
			threshold = parsed
		}
	}

	if err := settingsService.SetSufficiencyPolicy(policy, threshold); err != nil {
		return fmt.Errorf("failed to set sufficiency policy: %w", err)
	}

	cmd.Printf("Sufficiency policy set to: %s\n", policy.Description())
	if policy.RequiresLLM() {
		settings, _ := settingsService.Get() //nolint:errcheck // Best-effort check
		if settings != nil && !settings.LLM.IsConfigured() {
			cmd.Println("\nNote: This policy requires an LLM provider.")
			cmd.Println("Run 'askdocs settings llm' to configure.")
		}
	}

	return nil
}

func runSettingsStorage(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Storage Backend")
	backends := domain.AllStorageBackends()
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(backends), 1)
	backend := backends[idx-1]

	if err := settingsService.SetStorageBackend(backend); err != nil {
		return fmt.Errorf("failed to set storage backend: %w", err)
	}

	// S3 needs connection details on top of the backend choice.
	if backend == domain.StorageS3 {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}

		cmd.Print("S3 endpoint: ")
		settings.Storage.S3Endpoint = readLine(reader)
		cmd.Print("Bucket: ")
		settings.Storage.S3Bucket = readLine(reader)
		cmd.Print("Access key: ")
		settings.Storage.S3AccessKey = readLine(reader)
		cmd.Print("Secret key: ")
		settings.Storage.S3SecretKey = readPassword()
		cmd.Println()

		if err := settingsService.Save(settings); err != nil {
			return fmt.Errorf("failed to save S3 settings: %w", err)
		}
	}

	cmd.Printf("Storage backend set to: %s\n", backend.Description())
	cmd.Println("The new backend takes effect on the next run.")
	return nil
}

func runSettingsDocsDir(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetDocsDir(args[0]); err != nil {
		return fmt.Errorf("failed to set docs directory: %w", err)
	}

	cmd.Printf("Docs directory set to: %s\n", args[0])
	return nil
}

// Helper functions.

// maskAPIKey hides all but the tail of a secret for display.
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
