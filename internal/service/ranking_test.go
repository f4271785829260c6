package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRankingStore struct {
	mock.Mock
}

func (m *MockRankingStore) Increment(ctx context.Context, aiSource string, t domain.Tallies) error {
	args := m.Called(ctx, aiSource, t)
	return args.Error(0)
}

func (m *MockRankingStore) List(ctx context.Context) ([]domain.RankingTally, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RankingTally), args.Error(1)
}

func (m *MockRankingStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestRecord_Validation(t *testing.T) {
	s := &MockRankingStore{}
	svc := NewRankingService(s, zap.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Record(ctx, "", domain.Tallies{Verified: 1}), domain.ErrAISourceRequired)
	assert.ErrorIs(t, svc.Record(ctx, "   ", domain.Tallies{Verified: 1}), domain.ErrAISourceRequired)
	assert.ErrorIs(t, svc.Record(ctx, "gpt", domain.Tallies{False: -1}), domain.ErrNegativeTallies)
	s.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecord_TrimsName(t *testing.T) {
	s := &MockRankingStore{}
	s.On("Increment", mock.Anything, "gemini", domain.Tallies{Verified: 2}).Return(nil)
	svc := NewRankingService(s, zap.NewNop())

	require.NoError(t, svc.Record(context.Background(), "  gemini ", domain.Tallies{Verified: 2}))
	s.AssertExpectations(t)
}

func TestRecord_StoreFailure(t *testing.T) {
	s := &MockRankingStore{}
	s.On("Increment", mock.Anything, "gpt", mock.Anything).Return(errors.New("connection refused"))
	svc := NewRankingService(s, zap.NewNop())

	err := svc.Record(context.Background(), "gpt", domain.Tallies{Verified: 1})
	assert.Equal(t, domain.CodeUpstream, domain.CodeOf(err))
}

func TestList_StoreFailure(t *testing.T) {
	s := &MockRankingStore{}
	s.On("List", mock.Anything).Return(nil, errors.New("timeout"))
	svc := NewRankingService(s, zap.NewNop())

	_, err := svc.List(context.Background())
	assert.Equal(t, domain.CodeUpstream, domain.CodeOf(err))
}

func TestRank(t *testing.T) {
	tests := []struct {
		name    string
		tallies []domain.RankingTally
		want    []domain.AIRanking
	}{
		{
			name:    "empty",
			tallies: nil,
			want:    []domain.AIRanking{},
		},
		{
			name: "rates and avg score",
			tallies: []domain.RankingTally{
				{AISource: "chatgpt", Tallies: domain.Tallies{Verified: 8, False: 1, Unconfirmed: 1}, Seq: 1},
			},
			want: []domain.AIRanking{
				{AISource: "chatgpt", ChecksCount: 10, VerifiedRate: 80, FalseRate: 10, AvgScore: 60},
			},
		},
		{
			name: "opinions count as checks but not in rates",
			tallies: []domain.RankingTally{
				{AISource: "claude", Tallies: domain.Tallies{Verified: 1, Opinions: 5}, Seq: 1},
			},
			want: []domain.AIRanking{
				{AISource: "claude", ChecksCount: 6, VerifiedRate: 100, FalseRate: 0, AvgScore: 100},
			},
		},
		{
			name: "only opinions gives zero rates",
			tallies: []domain.RankingTally{
				{AISource: "poet", Tallies: domain.Tallies{Opinions: 3}, Seq: 1},
			},
			want: []domain.AIRanking{
				{AISource: "poet", ChecksCount: 3},
			},
		},
		{
			name: "rounds half away from zero",
			tallies: []domain.RankingTally{
				{AISource: "a", Tallies: domain.Tallies{Verified: 1, Unconfirmed: 7}, Seq: 1},
			},
			want: []domain.AIRanking{
				{AISource: "a", ChecksCount: 8, VerifiedRate: 13, FalseRate: 0, AvgScore: 13},
			},
		},
		{
			name: "sorted by score then first insertion",
			tallies: []domain.RankingTally{
				{AISource: "late-tie", Tallies: domain.Tallies{Verified: 1, Unconfirmed: 1}, Seq: 3},
				{AISource: "worst", Tallies: domain.Tallies{False: 1}, Seq: 1},
				{AISource: "early-tie", Tallies: domain.Tallies{Verified: 2, Unconfirmed: 2}, Seq: 2},
				{AISource: "best", Tallies: domain.Tallies{Verified: 1}, Seq: 4},
				{AISource: "never-checked", Seq: 5},
			},
			want: []domain.AIRanking{
				{AISource: "best", ChecksCount: 1, VerifiedRate: 100, AvgScore: 100},
				{AISource: "early-tie", ChecksCount: 4, VerifiedRate: 50, AvgScore: 50},
				{AISource: "late-tie", ChecksCount: 2, VerifiedRate: 50, AvgScore: 50},
				{AISource: "worst", ChecksCount: 1, FalseRate: 100, AvgScore: -200},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(tt.tallies))
		})
	}
}

func TestRankingService_ConcurrentRecordsConverge(t *testing.T) {
	svc := NewRankingService(store.NewMemoryRankingStore(), zap.NewNop())
	ctx := context.Background()

	updates := []struct {
		name string
		t    domain.Tallies
	}{
		{"chatgpt", domain.Tallies{Verified: 2}},
		{"chatgpt", domain.Tallies{False: 1}},
		{"gemini", domain.Tallies{Verified: 1, Unconfirmed: 1}},
		{"chatgpt", domain.Tallies{Verified: 6, Unconfirmed: 1}},
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, u := range updates {
			wg.Add(1)
			go func(name string, t domain.Tallies) {
				defer wg.Done()
				_ = svc.Record(ctx, name, t)
			}(u.name, u.t)
		}
	}
	wg.Wait()

	rankings, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rankings, 2)
	assert.Equal(t, domain.AIRanking{AISource: "chatgpt", ChecksCount: 500, VerifiedRate: 80, FalseRate: 10, AvgScore: 60}, rankings[0])
	assert.Equal(t, domain.AIRanking{AISource: "gemini", ChecksCount: 100, VerifiedRate: 50, FalseRate: 0, AvgScore: 50}, rankings[1])
}
