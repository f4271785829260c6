package domain

import "context"

// RankingStore accumulates per-source tallies. Increment must be atomic with
// respect to concurrent calls for the same name.
type RankingStore interface {
	Increment(ctx context.Context, aiSource string, t Tallies) error
	List(ctx context.Context) ([]RankingTally, error)
	Ping(ctx context.Context) error
}

// LLMClient is the external text-understanding collaborator. It extracts
// claims with candidate sources, answers search questions and rewrites text.
type LLMClient interface {
	ExtractClaims(ctx context.Context, text string) (*ClaimExtraction, error)
	Search(ctx context.Context, query string) (*SearchExtraction, error)
	Rephrase(ctx context.Context, text string) (string, error)
}
