package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseRankingStore runs the behaviour every RankingStore must share.
// prefix keeps names unique when the backend is shared between runs.
func exerciseRankingStore(t *testing.T, s domain.RankingStore, prefix string) {
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	a, b := prefix+"alpha", prefix+"beta"
	require.NoError(t, s.Increment(ctx, a, domain.Tallies{Verified: 1}))
	require.NoError(t, s.Increment(ctx, b, domain.Tallies{False: 2}))
	require.NoError(t, s.Increment(ctx, a, domain.Tallies{Verified: 2, Unconfirmed: 1, Opinions: 4}))

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				assert.NoError(t, s.Increment(ctx, b, domain.Tallies{Verified: 1, False: 1}))
			}
		}()
	}
	wg.Wait()

	list, err := s.List(ctx)
	require.NoError(t, err)

	byName := map[string]domain.RankingTally{}
	var order []string
	for _, tally := range list {
		if tally.AISource == a || tally.AISource == b {
			byName[tally.AISource] = tally
			order = append(order, tally.AISource)
		}
	}

	assert.Equal(t, []string{a, b}, order, "first-insertion order")
	assert.Equal(t, domain.Tallies{Verified: 3, Unconfirmed: 1, Opinions: 4}, byName[a].Tallies)
	assert.Equal(t, domain.Tallies{Verified: workers * perWorker, False: 2 + workers*perWorker}, byName[b].Tallies)
}

func TestMemoryRankingStore(t *testing.T) {
	exerciseRankingStore(t, NewMemoryRankingStore(), "")
}

func TestMemoryRankingStore_ListIsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRankingStore()
	require.NoError(t, s.Increment(ctx, "x", domain.Tallies{Verified: 1}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	list[0].Verified = 100

	again, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].Verified)
}

func TestMemoryRankingStore_EmptyListNotNil(t *testing.T) {
	list, err := NewMemoryRankingStore().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestMemoryRankingStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryRankingStore()
	assert.ErrorIs(t, s.Increment(ctx, "x", domain.Tallies{Verified: 1}), context.Canceled)
}

func TestPostgresRankingStore(t *testing.T) {
	url := os.Getenv("VERITAS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("VERITAS_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	_, err = Migrate(ctx, pool)
	require.NoError(t, err)

	exerciseRankingStore(t, NewPostgresRankingStore(pool), fmt.Sprintf("test-%d-", os.Getpid()))
}

func TestRedisRankingStore(t *testing.T) {
	url := os.Getenv("VERITAS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("VERITAS_TEST_REDIS_URL not set")
	}
	rdb, err := NewRedisClient(url)
	require.NoError(t, err)
	defer func() { _ = rdb.Close() }()

	exerciseRankingStore(t, NewRedisRankingStore(rdb), fmt.Sprintf("test-%d-", os.Getpid()))
}

func TestParseRankingHash(t *testing.T) {
	got, err := parseRankingHash("gpt", map[string]string{
		"aiSource": "gpt", "verified": "3", "false": "1", "opinions": "2", "seq": "7",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RankingTally{
		AISource: "gpt",
		Tallies:  domain.Tallies{Verified: 3, False: 1, Opinions: 2},
		Seq:      7,
	}, got)

	_, err = parseRankingHash("gpt", map[string]string{"verified": "lots"})
	assert.Error(t, err)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient("not a url")
	assert.Error(t, err)
}
