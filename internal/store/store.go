package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RunOutcome string

const (
	OutcomeCompleted RunOutcome = "completed"
	OutcomeFailed    RunOutcome = "failed"
)

// Run is the audit record of one ranking invocation.
type Run struct {
	ID           uuid.UUID  `json:"run_id"`
	Source       string     `json:"source"`
	Criteria     []string   `json:"criteria"`
	Weights      string     `json:"weights"`
	Impacts      string     `json:"impacts"`
	Alternatives int        `json:"alternatives"`
	Outcome      RunOutcome `json:"outcome"`
	FailureKind  string     `json:"failure_kind,omitempty"`
	Results      []Result   `json:"results,omitempty"`
	DurationMs   float64    `json:"duration_ms"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Result is one ranked alternative of a completed run.
type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Best returns the rank-1 result, or false when the run has none.
func (r *Run) Best() (Result, bool) {
	for _, res := range r.Results {
		if res.Rank == 1 {
			return res, true
		}
	}
	return Result{}, false
}

type RunFilter struct {
	Outcome *RunOutcome
	Source  string
	Limit   int
}

type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
	Close() error
}
