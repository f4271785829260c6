package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"go.uber.org/zap"
)

const MaxRephraseLength = 5000

type RephraseService struct {
	llmClient domain.LLMClient
	timeout   time.Duration
	logger    *zap.Logger
}

func NewRephraseService(lc domain.LLMClient, timeout time.Duration, logger *zap.Logger) *RephraseService {
	if timeout <= 0 {
		timeout = DefaultCollaboratorTimeout
	}
	return &RephraseService{llmClient: lc, timeout: timeout, logger: logger}
}

// Rephrase rewrites text in neutral language.
func (s *RephraseService) Rephrase(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrTextRequired
	}
	if utf8.RuneCountInString(text) > MaxRephraseLength {
		return "", domain.ErrTextTooLong
	}
	if s.llmClient == nil {
		return "", domain.ErrCollaboratorNotConfigured
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.llmClient.Rephrase(cctx, text)
	if err == nil && strings.TrimSpace(out) == "" {
		err = errors.New("collaborator returned empty text")
	}
	if err != nil {
		mapped := collaboratorError(ctx, err)
		s.logger.Warn("rephrase failed", zap.String("code", string(domain.CodeOf(mapped))), zap.Error(err))
		return "", mapped
	}
	return strings.TrimSpace(out), nil
}
