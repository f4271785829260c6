package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/veritas/internal/domain"
)

const (
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	chatModel     = "gpt-4o-mini"
)

type OpenAIClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		url:        openAIChatURL,
		httpClient: &http.Client{},
	}
}

// chat types for OpenAI-compatible APIs
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// postChat sends one chat completion request. OpenAI and Cerebras share the
// wire format.
func postChat(ctx context.Context, hc *http.Client, url, apiKey, model, prompt, name string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s API returned status %d: %s", name, resp.StatusCode, truncate(string(respBody), 500))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal %s response: %w", name, err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("%s API error: %s", name, result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%s API returned no choices", name)
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	return postChat(ctx, c.httpClient, c.url, c.apiKey, chatModel, prompt, "chat")
}

func (c *OpenAIClient) ExtractClaims(ctx context.Context, text string) (*domain.ClaimExtraction, error) {
	return extractClaims(ctx, c.complete, text)
}

func (c *OpenAIClient) Search(ctx context.Context, query string) (*domain.SearchExtraction, error) {
	return search(ctx, c.complete, query)
}

func (c *OpenAIClient) Rephrase(ctx context.Context, text string) (string, error) {
	return rephrase(ctx, c.complete, text)
}
