package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/trust"
	"github.com/Harshitk-cp/veritas/internal/verdict"
	"go.uber.org/zap"
)

const (
	DefaultMaxTextLength       = 10000
	MaxQueryLength             = 1000
	DefaultCollaboratorTimeout = 45 * time.Second

	NoClaimsMessage = "No verifiable factual claims were found in the text."
)

type VerifyRequest struct {
	Text        string `json:"text"`
	SourceLabel string `json:"sourceLabel"`
}

type VerifyResponse struct {
	Claims  []domain.Claim             `json:"claims"`
	Summary domain.VerificationSummary `json:"summary"`
	Message string                     `json:"message,omitempty"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

// VerificationStats are process-lifetime counters exposed on /metrics.
type VerificationStats struct {
	Verifications int64 `json:"verifications"`
	Searches      int64 `json:"searches"`
	Claims        int64 `json:"claims"`
	Dropped       int64 `json:"dropped_claims"`
	Failures      int64 `json:"failures"`
}

type VerificationService struct {
	llmClient     domain.LLMClient
	maxTextLength int
	timeout       time.Duration
	logger        *zap.Logger

	verifications atomic.Int64
	searches      atomic.Int64
	claims        atomic.Int64
	dropped       atomic.Int64
	failures      atomic.Int64
}

// NewVerificationService accepts a nil client; calls then fail with
// CONFIG_ERROR instead of the server refusing to start.
func NewVerificationService(lc domain.LLMClient, maxTextLength int, timeout time.Duration, logger *zap.Logger) *VerificationService {
	if maxTextLength <= 0 {
		maxTextLength = DefaultMaxTextLength
	}
	if timeout <= 0 {
		timeout = DefaultCollaboratorTimeout
	}
	return &VerificationService{
		llmClient:     lc,
		maxTextLength: maxTextLength,
		timeout:       timeout,
		logger:        logger,
	}
}

func (s *VerificationService) Stats() VerificationStats {
	return VerificationStats{
		Verifications: s.verifications.Load(),
		Searches:      s.searches.Load(),
		Claims:        s.claims.Load(),
		Dropped:       s.dropped.Load(),
		Failures:      s.failures.Load(),
	}
}

func (s *VerificationService) Verify(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, domain.ErrTextRequired
	}
	if utf8.RuneCountInString(text) > s.maxTextLength {
		return nil, domain.ErrTextTooLong
	}
	if s.llmClient == nil {
		return nil, domain.ErrCollaboratorNotConfigured
	}

	s.verifications.Add(1)
	start := time.Now()

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	extraction, err := s.llmClient.ExtractClaims(cctx, text)
	if err == nil && extraction == nil {
		err = errors.New("collaborator returned no extraction")
	}
	if err != nil {
		s.failures.Add(1)
		mapped := collaboratorError(ctx, err)
		s.logger.Warn("claim extraction failed",
			zap.String("source_label", req.SourceLabel),
			zap.String("code", string(domain.CodeOf(mapped))),
			zap.Error(err))
		return nil, mapped
	}

	claims := s.assess(extraction.Claims)
	summary := domain.Summarize(claims)
	s.claims.Add(int64(len(claims)))

	s.logger.Info("verification complete",
		zap.String("source_label", req.SourceLabel),
		zap.Int("claims", summary.Total),
		zap.Int("verified", summary.Verified),
		zap.Int("false", summary.False),
		zap.Duration("elapsed", time.Since(start)))

	resp := &VerifyResponse{Claims: claims, Summary: summary}
	if len(claims) == 0 {
		resp.Message = NoClaimsMessage
	}
	return resp, nil
}

// assess classifies and aggregates every raw claim concurrently. Order is
// preserved; claims the aggregator rejects are dropped.
func (s *VerificationService) assess(raw []domain.RawClaim) []domain.Claim {
	results := make([]domain.Claim, len(raw))
	kept := make([]bool, len(raw))

	var wg sync.WaitGroup
	for i, rc := range raw {
		wg.Add(1)
		go func(i int, rc domain.RawClaim) {
			defer wg.Done()
			sources := cleanSources(trust.ClassifySources(rc.Sources))
			v, err := verdict.Aggregate(rc.Text, sources, rc.Opinion)
			if err != nil {
				return
			}
			results[i] = domain.Claim{
				Text:        strings.TrimSpace(rc.Text),
				Status:      v.Status,
				Explanation: plainText(rc.Explanation),
				Sources:     sources,
				Confidence:  v.Confidence,
			}
			kept[i] = true
		}(i, rc)
	}
	wg.Wait()

	claims := make([]domain.Claim, 0, len(raw))
	for i, c := range results {
		if kept[i] {
			claims = append(claims, c)
		}
	}
	if dropped := len(raw) - len(claims); dropped > 0 {
		s.dropped.Add(int64(dropped))
		s.logger.Debug("dropped blank claims", zap.Int("count", dropped))
	}
	return claims
}

func (s *VerificationService) Search(ctx context.Context, req SearchRequest) (*domain.SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domain.ErrQueryRequired
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return nil, domain.ErrQueryTooLong
	}
	if s.llmClient == nil {
		return nil, domain.ErrCollaboratorNotConfigured
	}

	s.searches.Add(1)

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	extraction, err := s.llmClient.Search(cctx, query)
	if err == nil && (extraction == nil || strings.TrimSpace(extraction.Answer) == "") {
		err = errors.New("collaborator returned no answer")
	}
	if err != nil {
		s.failures.Add(1)
		mapped := collaboratorError(ctx, err)
		s.logger.Warn("search failed", zap.String("code", string(domain.CodeOf(mapped))), zap.Error(err))
		return nil, mapped
	}

	sources := cleanSources(trust.ClassifySources(extraction.Sources))
	answer := strings.TrimSpace(extraction.Answer)
	v, err := verdict.Aggregate(answer, sources, false)
	if err != nil {
		return nil, domain.NewUpstreamError(retryMessage, err)
	}

	return &domain.SearchResult{
		Answer:          answer,
		TrustScore:      v.Confidence,
		Sources:         sources,
		SourceAgreement: SourceAgreement(sources),
		Warnings:        SearchWarnings(sources),
	}, nil
}

// SourceAgreement counts the distinct registrable domains among supporting
// sources.
func SourceAgreement(sources []domain.Source) int {
	seen := make(map[string]bool)
	for _, src := range sources {
		if src.Stance != domain.StanceSupports {
			continue
		}
		key := strings.ToLower(src.Domain)
		if key == "" {
			key = trust.RegistrableDomain(src.URL)
		}
		if key != "" {
			seen[key] = true
		}
	}
	return len(seen)
}

func SearchWarnings(sources []domain.Source) []string {
	warnings := []string{}
	if len(sources) == 0 {
		return append(warnings, domain.WarningNoSources)
	}

	var supports, contradicts, commercial bool
	lowOnly := true
	for _, src := range sources {
		switch src.Stance {
		case domain.StanceSupports:
			supports = true
		case domain.StanceContradicts:
			contradicts = true
		}
		if src.Commercial {
			commercial = true
		}
		if src.Trust != domain.TrustLow {
			lowOnly = false
		}
	}

	if supports && contradicts {
		warnings = append(warnings, domain.WarningConflictingSources)
	}
	if lowOnly {
		warnings = append(warnings, domain.WarningLowTrustOnly)
	}
	if commercial {
		warnings = append(warnings, domain.WarningCommercialSources)
	}
	return warnings
}
