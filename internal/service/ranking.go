package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"go.uber.org/zap"
)

type RankingService struct {
	store  domain.RankingStore
	logger *zap.Logger
}

func NewRankingService(s domain.RankingStore, logger *zap.Logger) *RankingService {
	return &RankingService{store: s, logger: logger}
}

// Record adds one check's tallies to aiSource. Updates commute, so concurrent
// and out-of-order calls converge on the same totals.
func (s *RankingService) Record(ctx context.Context, aiSource string, t domain.Tallies) error {
	name := strings.TrimSpace(aiSource)
	if name == "" {
		return domain.ErrAISourceRequired
	}
	if t.Negative() {
		return domain.ErrNegativeTallies
	}

	if err := s.store.Increment(ctx, name, t); err != nil {
		s.logger.Error("failed to record ranking", zap.String("ai_source", name), zap.Error(err))
		return domain.NewUpstreamError("rankings are unavailable, please try again", err)
	}
	return nil
}

func (s *RankingService) List(ctx context.Context) ([]domain.AIRanking, error) {
	tallies, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to list rankings", zap.Error(err))
		return nil, domain.NewUpstreamError("rankings are unavailable, please try again", err)
	}
	return Rank(tallies), nil
}

// Rank derives the leaderboard. Names with no checks are omitted. Ties on
// avgScore keep first-insertion order.
func Rank(tallies []domain.RankingTally) []domain.AIRanking {
	sorted := make([]domain.RankingTally, len(tallies))
	copy(sorted, tallies)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	out := make([]domain.AIRanking, 0, len(sorted))
	for _, t := range sorted {
		if t.Total() == 0 {
			continue
		}
		out = append(out, ranking(t))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgScore > out[j].AvgScore })
	return out
}

func ranking(t domain.RankingTally) domain.AIRanking {
	r := domain.AIRanking{AISource: t.AISource, ChecksCount: t.Total()}

	factual := t.Verified + t.False + t.Unconfirmed
	if factual > 0 {
		r.VerifiedRate = percent(t.Verified, factual)
		r.FalseRate = percent(t.False, factual)
	}
	r.AvgScore = r.VerifiedRate - 2*r.FalseRate
	return r
}

// percent rounds half away from zero.
func percent(n, total int) int {
	return int(math.Round(float64(n) * 100 / float64(total)))
}
