//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE topsis_runs")
		s.Close()
	})

	return s
}

func TestSaveAndGetRun(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	run := &Run{
		ID:           uuid.New(),
		Source:       "integration-test",
		Criteria:     []string{"P1", "P2", "P3"},
		Weights:      "1,1,1",
		Impacts:      "+,-,+",
		Alternatives: 3,
		Outcome:      OutcomeCompleted,
		Results: []Result{
			{Label: "M1", Score: 0, Rank: 3},
			{Label: "M2", Score: 0.6132, Rank: 2},
			{Label: "M3", Score: 1, Rank: 1},
		},
		DurationMs: 0.42,
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if run.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected run, got nil")
	}
	if got.Source != "integration-test" || got.Outcome != OutcomeCompleted {
		t.Errorf("unexpected run %+v", got)
	}
	if len(got.Criteria) != 3 || got.Criteria[1] != "P2" {
		t.Errorf("unexpected criteria %v", got.Criteria)
	}
	if len(got.Results) != 3 || got.Results[2].Rank != 1 {
		t.Errorf("unexpected results %+v", got.Results)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := setupTestDB(t)
	got, err := s.GetRun(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing run, got %+v", got)
	}
}

func TestListRunsWithFilters(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	for i, outcome := range []RunOutcome{OutcomeCompleted, OutcomeFailed, OutcomeCompleted} {
		run := &Run{Source: "cli", Outcome: outcome, Alternatives: i}
		if outcome == OutcomeFailed {
			run.FailureKind = "count_mismatch"
			run.Source = "api"
		}
		if err := s.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	completed := OutcomeCompleted
	runs, err := s.ListRuns(ctx, RunFilter{Outcome: &completed})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 completed runs, got %d", len(runs))
	}

	runs, err = s.ListRuns(ctx, RunFilter{Source: "api"})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].FailureKind != "count_mismatch" {
		t.Errorf("unexpected api runs %+v", runs)
	}

	runs, err = s.ListRuns(ctx, RunFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected limit 1, got %d", len(runs))
	}
}
