package llm

import (
	"context"
	"strings"
	"sync"

	"github.com/Harshitk-cp/veritas/internal/domain"
)

// MockClient is a configurable LLM client for testing and local runs.
// Set the response fields to control what each method returns. With no
// extraction configured it splits the text into sentences and returns each
// as an unsourced claim.
type MockClient struct {
	mu sync.Mutex

	ExtractClaimsResponse *domain.ClaimExtraction
	ExtractClaimsError    error
	SearchResponse        *domain.SearchExtraction
	SearchError           error
	RephraseResponse      string
	RephraseError         error

	// Block makes every call wait for its context to end and return ctx.Err().
	Block bool

	// Call tracking for assertions
	ExtractClaimsCalls []string
	SearchCalls        []string
	RephraseCalls      []string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) wait(ctx context.Context) error {
	if !c.Block {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (c *MockClient) ExtractClaims(ctx context.Context, text string) (*domain.ClaimExtraction, error) {
	c.mu.Lock()
	c.ExtractClaimsCalls = append(c.ExtractClaimsCalls, text)
	resp, err := c.ExtractClaimsResponse, c.ExtractClaimsError
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if resp != nil {
		return resp, nil
	}

	out := &domain.ClaimExtraction{Claims: []domain.RawClaim{}}
	for _, s := range splitSentences(text) {
		out.Claims = append(out.Claims, domain.RawClaim{Text: s, Explanation: "Mock extraction"})
	}
	return out, nil
}

func (c *MockClient) Search(ctx context.Context, query string) (*domain.SearchExtraction, error) {
	c.mu.Lock()
	c.SearchCalls = append(c.SearchCalls, query)
	resp, err := c.SearchResponse, c.SearchError
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if resp != nil {
		return resp, nil
	}
	return &domain.SearchExtraction{Answer: "Mock answer", Sources: []domain.RawSource{}}, nil
}

func (c *MockClient) Rephrase(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	c.RephraseCalls = append(c.RephraseCalls, text)
	resp, err := c.RephraseResponse, c.RephraseError
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return "", err
	}
	if err != nil {
		return "", err
	}
	if resp != "" {
		return resp, nil
	}
	return strings.TrimSpace(text), nil
}

// Reset clears all recorded calls and resets responses to defaults.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ExtractClaimsResponse = nil
	c.ExtractClaimsError = nil
	c.SearchResponse = nil
	c.SearchError = nil
	c.RephraseResponse = ""
	c.RephraseError = nil
	c.Block = false
	c.ExtractClaimsCalls = nil
	c.SearchCalls = nil
	c.RephraseCalls = nil
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s+".")
		}
	}
	return out
}
