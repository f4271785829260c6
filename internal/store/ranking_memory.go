package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Harshitk-cp/veritas/internal/domain"
)

// MemoryRankingStore keeps tallies in process memory. Contents are lost on
// restart.
type MemoryRankingStore struct {
	mu      sync.Mutex
	tallies map[string]*domain.RankingTally
	seq     int64
}

func NewMemoryRankingStore() *MemoryRankingStore {
	return &MemoryRankingStore{tallies: make(map[string]*domain.RankingTally)}
}

func (s *MemoryRankingStore) Increment(ctx context.Context, aiSource string, t domain.Tallies) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.tallies[aiSource]
	if !ok {
		s.seq++
		cur = &domain.RankingTally{AISource: aiSource, Seq: s.seq}
		s.tallies[aiSource] = cur
	}
	cur.Verified += t.Verified
	cur.False += t.False
	cur.Unconfirmed += t.Unconfirmed
	cur.Opinions += t.Opinions
	return nil
}

// List returns a snapshot ordered by first insertion.
func (s *MemoryRankingStore) List(ctx context.Context) ([]domain.RankingTally, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	out := make([]domain.RankingTally, 0, len(s.tallies))
	for _, t := range s.tallies {
		out = append(out, *t)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (s *MemoryRankingStore) Ping(ctx context.Context) error {
	return nil
}
