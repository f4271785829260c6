package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

type PostgresRankingStore struct {
	db *pgxpool.Pool
}

func NewPostgresRankingStore(db *pgxpool.Pool) *PostgresRankingStore {
	return &PostgresRankingStore{db: db}
}

// Migrate brings the rankings schema up to date.
func Migrate(ctx context.Context, db *pgxpool.Pool) ([]string, error) {
	fsys, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(db)
	defer func() { _ = sqlDB.Close() }()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	applied := make([]string, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Path)
	}
	return applied, nil
}

func (s *PostgresRankingStore) Increment(ctx context.Context, aiSource string, t domain.Tallies) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO ai_rankings (ai_source, verified, false_count, unconfirmed, opinions)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (ai_source) DO UPDATE SET
		   verified    = ai_rankings.verified + EXCLUDED.verified,
		   false_count = ai_rankings.false_count + EXCLUDED.false_count,
		   unconfirmed = ai_rankings.unconfirmed + EXCLUDED.unconfirmed,
		   opinions    = ai_rankings.opinions + EXCLUDED.opinions,
		   updated_at  = now()`,
		aiSource, t.Verified, t.False, t.Unconfirmed, t.Opinions,
	)
	if err != nil {
		return fmt.Errorf("increment ranking %q: %w", aiSource, err)
	}
	return nil
}

func (s *PostgresRankingStore) List(ctx context.Context) ([]domain.RankingTally, error) {
	rows, err := s.db.Query(ctx,
		`SELECT ai_source, verified, false_count, unconfirmed, opinions, seq
		 FROM ai_rankings ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}
	defer rows.Close()

	out := []domain.RankingTally{}
	for rows.Next() {
		var t domain.RankingTally
		if err := rows.Scan(&t.AISource, &t.Verified, &t.False, &t.Unconfirmed, &t.Opinions, &t.Seq); err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresRankingStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
