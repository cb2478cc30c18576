package score

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/plus3/flapper/score/migrations"
	"github.com/pressly/goose/v3"
	"gitlab.com/tozd/go/errors"
)

// PostgresStore keeps entries in the scores table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres migrates the database at dsn and connects to it.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is empty")
	}
	if err := Migrate(ctx, dsn); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Errorf("pinging database: %w", err)
	}
	slog.InfoContext(ctx, "score database ready")
	return &PostgresStore{pool: pool}, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return errors.Errorf("opening sql connection for migrations: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Errorf("running migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) Best(ctx context.Context, level string) (int, error) {
	var b int
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(score), 0) FROM scores WHERE level = $1`, level,
	).Scan(&b)
	if err != nil {
		return 0, errors.Errorf("querying best score for %q: %w", level, err)
	}
	return b, nil
}

func (s *PostgresStore) Submit(ctx context.Context, e Entry) (bool, error) {
	e = stamp(e)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, errors.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var prev int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(score), 0) FROM scores WHERE level = $1`, e.Level,
	).Scan(&prev)
	if err != nil {
		return false, errors.Errorf("querying best score for %q: %w", e.Level, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO scores (level, player, score, created_at) VALUES ($1, $2, $3, $4)`,
		e.Level, e.Player, e.Score, e.At,
	)
	if err != nil {
		return false, errors.Errorf("inserting score: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, errors.Errorf("committing score: %w", err)
	}
	return e.Score > prev, nil
}

func (s *PostgresStore) Top(ctx context.Context, level string, n int) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT level, player, score, created_at
		FROM scores
		WHERE level = $1
		ORDER BY score DESC, created_at ASC
		LIMIT $2
	`, level, n)
	if err != nil {
		return nil, errors.Errorf("querying scores for %q: %w", level, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Level, &e.Player, &e.Score, &e.At); err != nil {
			return nil, errors.Errorf("scanning score row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating score rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
