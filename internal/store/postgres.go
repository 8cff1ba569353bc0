package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultListLimit = 50

const schema = `
CREATE TABLE IF NOT EXISTS topsis_runs (
	run_id        UUID PRIMARY KEY,
	source        TEXT NOT NULL DEFAULT '',
	criteria      TEXT[] NOT NULL DEFAULT '{}',
	weights       TEXT NOT NULL DEFAULT '',
	impacts       TEXT NOT NULL DEFAULT '',
	alternatives  INTEGER NOT NULL DEFAULT 0,
	outcome       TEXT NOT NULL,
	failure_kind  TEXT NOT NULL DEFAULT '',
	results       JSONB,
	duration_ms   DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS topsis_runs_created_at_idx ON topsis_runs (created_at DESC);`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the runs table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const runColumns = `run_id, source, criteria, weights, impacts, alternatives,
	outcome, failure_kind, results, duration_ms, created_at`

func (s *PostgresStore) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	var resultsJSON []byte
	if run.Results != nil {
		b, err := json.Marshal(run.Results)
		if err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		resultsJSON = b
	}
	criteria := run.Criteria
	if criteria == nil {
		criteria = []string{}
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO topsis_runs (run_id, source, criteria, weights, impacts, alternatives,
			outcome, failure_kind, results, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		run.ID, run.Source, criteria, run.Weights, run.Impacts, run.Alternatives,
		string(run.Outcome), run.FailureKind, resultsJSON, run.DurationMs,
	).Scan(&run.CreatedAt)
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM topsis_runs WHERE run_id = $1`, id)
	run, err := scanRun(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM topsis_runs WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Outcome != nil {
		n++
		query += fmt.Sprintf(" AND outcome = $%d", n)
		args = append(args, string(*filter.Outcome))
	}
	if filter.Source != "" {
		n++
		query += fmt.Sprintf(" AND source = $%d", n)
		args = append(args, filter.Source)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	n++
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", n)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row) (*Run, error) {
	r := &Run{}
	var outcome string
	var resultsJSON []byte
	err := row.Scan(
		&r.ID, &r.Source, &r.Criteria, &r.Weights, &r.Impacts, &r.Alternatives,
		&outcome, &r.FailureKind, &resultsJSON, &r.DurationMs, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Outcome = RunOutcome(outcome)
	if resultsJSON != nil {
		if err := json.Unmarshal(resultsJSON, &r.Results); err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}
	}
	return r, nil
}
