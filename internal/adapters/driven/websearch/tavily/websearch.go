// Package tavily provides a web-search service adapter using the
// Tavily API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure WebSearchService implements the interface.
var _ driven.WebSearchService = (*WebSearchService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.tavily.com"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Tavily web-search service.
type Config struct {
	// APIKey is the Tavily API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.tavily.com).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// WebSearchService searches the web using the Tavily API.
type WebSearchService struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// searchRequest is the Tavily /search request format.
type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// searchResponse is the Tavily /search response format.
type searchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// NewWebSearchService creates a new Tavily web-search service.
func NewWebSearchService(cfg Config) (*WebSearchService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("tavily: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &WebSearchService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}, nil
}

// Search returns up to maxResults ranked results for the query.
func (s *WebSearchService) Search(ctx context.Context, query string, maxResults int) ([]domain.WebResult, error) {
	if maxResults <= 0 {
		maxResults = domain.DefaultWebMaxResults
	}

	reqBody := searchRequest{
		Query:      query,
		MaxResults: maxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/search",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("tavily error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("tavily error (status %d): %s", resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]domain.WebResult, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		results = append(results, domain.WebResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		})
		if len(results) == maxResults {
			break
		}
	}

	return results, nil
}

// Ping validates the service is reachable by running a minimal query.
// Tavily has no dedicated health endpoint.
func (s *WebSearchService) Ping(ctx context.Context) error {
	_, err := s.Search(ctx, "ping", 1)
	if err != nil {
		return fmt.Errorf("tavily: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *WebSearchService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
