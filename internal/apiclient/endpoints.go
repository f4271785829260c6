package apiclient

import (
	"context"
	"net/http"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/result"
)

type VerifyRequest struct {
	Text        string `json:"text"`
	SourceLabel string `json:"sourceLabel,omitempty"`
}

type VerifyResponse struct {
	Claims  []domain.Claim              `json:"claims" validate:"required,dive"`
	Summary *domain.VerificationSummary `json:"summary" validate:"required"`
	Message string                      `json:"message,omitempty"`
}

// searchResponse mirrors domain.SearchResult with pointer fields so a missing
// number is told apart from a zero.
type searchResponse struct {
	Answer          *string         `json:"answer" validate:"required"`
	TrustScore      *int            `json:"trustScore" validate:"required,min=0,max=100"`
	Sources         []domain.Source `json:"sources" validate:"required,dive"`
	SourceAgreement *int            `json:"sourceAgreement" validate:"required,min=0"`
	Warnings        []string        `json:"warnings"`
}

type rephraseResponse struct {
	Rephrased string `json:"rephrased" validate:"required"`
}

type rankingsResponse struct {
	Rankings []domain.AIRanking `json:"rankings" validate:"required,dive"`
}

type RecordRankingRequest struct {
	AISource string `json:"aiSource"`
	domain.Tallies
}

type recordResponse struct {
	Success bool `json:"success" validate:"required"`
}

func (c *Client) Verify(ctx context.Context, text, sourceLabel string) result.Result[VerifyResponse] {
	return Do[VerifyResponse](ctx, c, RequestSpec{
		Method: http.MethodPost,
		Path:   "/verify",
		Body:   VerifyRequest{Text: text, SourceLabel: sourceLabel},
	})
}

func (c *Client) Search(ctx context.Context, query string) result.Result[domain.SearchResult] {
	r := Do[searchResponse](ctx, c, RequestSpec{
		Method: http.MethodPost,
		Path:   "/search",
		Body:   map[string]string{"query": query},
	})
	return result.Map(r, func(s searchResponse) domain.SearchResult {
		warnings := s.Warnings
		if warnings == nil {
			warnings = []string{}
		}
		return domain.SearchResult{
			Answer:          *s.Answer,
			TrustScore:      *s.TrustScore,
			Sources:         s.Sources,
			SourceAgreement: *s.SourceAgreement,
			Warnings:        warnings,
		}
	})
}

func (c *Client) Rephrase(ctx context.Context, text string) result.Result[string] {
	r := Do[rephraseResponse](ctx, c, RequestSpec{
		Method: http.MethodPost,
		Path:   "/rephrase",
		Body:   map[string]string{"text": text},
	})
	return result.Map(r, func(r rephraseResponse) string { return r.Rephrased })
}

func (c *Client) Rankings(ctx context.Context) result.Result[[]domain.AIRanking] {
	r := Do[rankingsResponse](ctx, c, RequestSpec{
		Method: http.MethodGet,
		Path:   "/rankings",
	})
	return result.Map(r, func(r rankingsResponse) []domain.AIRanking { return r.Rankings })
}

// RecordRanking reports one finished check. Callers must not call it for a
// cancelled verification.
func (c *Client) RecordRanking(ctx context.Context, aiSource string, t domain.Tallies) result.Result[bool] {
	r := Do[recordResponse](ctx, c, RequestSpec{
		Method: http.MethodPost,
		Path:   "/rankings",
		Body:   RecordRankingRequest{AISource: aiSource, Tallies: t},
	})
	return result.Map(r, func(r recordResponse) bool { return r.Success })
}
