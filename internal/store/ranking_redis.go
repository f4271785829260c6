package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix  = "veritas:rankings:"
	redisSourcesKey = redisKeyPrefix + "sources"
	redisSeqKey     = redisKeyPrefix + "seq"
)

// RedisRankingStore keeps one hash per source name plus a set of names.
type RedisRankingStore struct {
	rdb *redis.Client
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func NewRedisRankingStore(rdb *redis.Client) *RedisRankingStore {
	return &RedisRankingStore{rdb: rdb}
}

func rankingKey(aiSource string) string {
	return redisKeyPrefix + "source:" + aiSource
}

// Increment adds t atomically. The sequence number is drawn on every call
// but HSETNX keeps only the first, so order reflects first insertion.
func (s *RedisRankingStore) Increment(ctx context.Context, aiSource string, t domain.Tallies) error {
	seq, err := s.rdb.Incr(ctx, redisSeqKey).Result()
	if err != nil {
		return fmt.Errorf("next ranking seq: %w", err)
	}

	key := rankingKey(aiSource)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, "seq", seq)
		pipe.HSetNX(ctx, key, "aiSource", aiSource)
		pipe.HIncrBy(ctx, key, "verified", int64(t.Verified))
		pipe.HIncrBy(ctx, key, "false", int64(t.False))
		pipe.HIncrBy(ctx, key, "unconfirmed", int64(t.Unconfirmed))
		pipe.HIncrBy(ctx, key, "opinions", int64(t.Opinions))
		pipe.SAdd(ctx, redisSourcesKey, aiSource)
		return nil
	})
	if err != nil {
		return fmt.Errorf("increment ranking %q: %w", aiSource, err)
	}
	return nil
}

func (s *RedisRankingStore) List(ctx context.Context) ([]domain.RankingTally, error) {
	names, err := s.rdb.SMembers(ctx, redisSourcesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list ranking sources: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(names))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, name := range names {
			cmds[i] = pipe.HGetAll(ctx, rankingKey(name))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load rankings: %w", err)
	}

	out := make([]domain.RankingTally, 0, len(names))
	for i, cmd := range cmds {
		t, err := parseRankingHash(names[i], cmd.Val())
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (s *RedisRankingStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func parseRankingHash(name string, h map[string]string) (domain.RankingTally, error) {
	t := domain.RankingTally{AISource: name}
	fields := []struct {
		key string
		dst *int
	}{
		{"verified", &t.Verified},
		{"false", &t.False},
		{"unconfirmed", &t.Unconfirmed},
		{"opinions", &t.Opinions},
	}
	for _, f := range fields {
		v, ok := h[f.key]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return t, fmt.Errorf("ranking %q field %s: %w", name, f.key, err)
		}
		*f.dst = n
	}
	if v, ok := h["seq"]; ok {
		seq, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return t, fmt.Errorf("ranking %q seq: %w", name, err)
		}
		t.Seq = seq
	}
	return t, nil
}
