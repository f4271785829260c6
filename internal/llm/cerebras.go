package llm

import (
	"context"
	"net/http"

	"github.com/Harshitk-cp/veritas/internal/domain"
)

const (
	cerebrasAPIURL = "https://api.cerebras.ai/v1/chat/completions"
	cerebrasModel  = "llama-3.3-70b"
)

// CerebrasClient talks to Cerebras' OpenAI-compatible endpoint.
type CerebrasClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

func NewCerebrasClient(apiKey string) *CerebrasClient {
	return &CerebrasClient{
		apiKey:     apiKey,
		url:        cerebrasAPIURL,
		httpClient: &http.Client{},
	}
}

func (c *CerebrasClient) complete(ctx context.Context, prompt string) (string, error) {
	return postChat(ctx, c.httpClient, c.url, c.apiKey, cerebrasModel, prompt, "cerebras")
}

func (c *CerebrasClient) ExtractClaims(ctx context.Context, text string) (*domain.ClaimExtraction, error) {
	return extractClaims(ctx, c.complete, text)
}

func (c *CerebrasClient) Search(ctx context.Context, query string) (*domain.SearchExtraction, error) {
	return search(ctx, c.complete, query)
}

func (c *CerebrasClient) Rephrase(ctx context.Context, text string) (string, error) {
	return rephrase(ctx, c.complete, text)
}
