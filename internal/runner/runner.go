// Package runner executes one ranking run end to end: validate, rank,
// append the result columns, then report the run to whichever of the
// metrics registry, run store and event bus are configured.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Topsis/internal/hermes"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
	"github.com/MikeSquared-Agency/Topsis/internal/table"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const (
	ScoreColumn = "Topsis Score"
	RankColumn  = "Rank"
)

type Request struct {
	Source  string
	Table   *table.Table
	Weights string
	Impacts string
}

type Outcome struct {
	RunID   uuid.UUID
	Table   *table.Table
	Input   *topsis.Input
	Ranking *topsis.Ranking
}

type Runner struct {
	store   store.Store
	hermes  hermes.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Runner. s, h and m may each be nil.
func New(s store.Store, h hermes.Client, m *metrics.Metrics, logger *slog.Logger) *Runner {
	return &Runner{
		store:   s,
		hermes:  h,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Execute ranks req.Table and appends the score and rank columns to it in
// place. On failure the table is left untouched and the error is either a
// *topsis.ValidationError or an internal error.
func (r *Runner) Execute(ctx context.Context, req Request) (*Outcome, error) {
	runID := uuid.New()
	start := r.now()

	in, err := topsis.Validate(req.Table.Header, req.Table.Rows, req.Weights, req.Impacts)
	var ranking *topsis.Ranking
	if err == nil {
		ranking, err = topsis.Rank(in)
	}
	if err == nil {
		err = checkScores(ranking.Scores)
	}
	if err != nil {
		r.recordFailure(ctx, runID, req, err, r.now().Sub(start))
		return nil, err
	}

	scores := make([]string, len(ranking.Scores))
	ranks := make([]string, len(ranking.Ranks))
	for i := range ranking.Scores {
		scores[i] = FormatScore(ranking.Scores[i])
		ranks[i] = strconv.Itoa(ranking.Ranks[i])
	}
	if err := req.Table.AppendColumn(ScoreColumn, scores); err != nil {
		return nil, err
	}
	if err := req.Table.AppendColumn(RankColumn, ranks); err != nil {
		return nil, err
	}

	out := &Outcome{RunID: runID, Table: req.Table, Input: in, Ranking: ranking}
	r.recordSuccess(ctx, req, out, r.now().Sub(start))
	return out, nil
}

// FormatScore renders a score with the fewest digits that round-trip,
// keeping a decimal point on whole numbers ("0.0", "1.0").
func FormatScore(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// checkScores rejects rankings that would write NaN or Inf. Validated input
// can still overflow when weights are close to the float64 limit.
func checkScores(scores []float64) error {
	for i, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("rank: non-finite score %v for row %d", s, i+1)
		}
	}
	return nil
}

func (r *Runner) recordSuccess(ctx context.Context, req Request, out *Outcome, elapsed time.Duration) {
	n := len(out.Ranking.Scores)
	r.metrics.ObserveCompleted(elapsed, n)

	run := &store.Run{
		ID:           out.RunID,
		Source:       req.Source,
		Criteria:     out.Input.Criteria,
		Weights:      req.Weights,
		Impacts:      req.Impacts,
		Alternatives: n,
		Outcome:      store.OutcomeCompleted,
		Results:      make([]store.Result, n),
		DurationMs:   float64(elapsed.Microseconds()) / 1000,
	}
	for i := 0; i < n; i++ {
		run.Results[i] = store.Result{
			Label: out.Input.Labels[i],
			Score: out.Ranking.Scores[i],
			Rank:  out.Ranking.Ranks[i],
		}
	}
	r.save(ctx, run)

	if r.hermes != nil {
		evt := hermes.RunCompletedEvent{
			RunID:        out.RunID.String(),
			Source:       req.Source,
			Alternatives: n,
			Criteria:     len(out.Input.Weights),
		}
		if best, ok := run.Best(); ok {
			evt.BestLabel = best.Label
			evt.BestScore = best.Score
		}
		r.publish(hermes.SubjectRunCompleted(evt.RunID), evt)
	}

	r.logger.Debug("run completed",
		"run_id", out.RunID,
		"source", req.Source,
		"alternatives", n,
		"duration_ms", run.DurationMs,
	)
}

func (r *Runner) recordFailure(ctx context.Context, runID uuid.UUID, req Request, err error, elapsed time.Duration) {
	kind := "internal"
	if k, ok := topsis.KindOf(err); ok {
		kind = string(k)
	}
	r.metrics.ObserveFailed(elapsed, kind)

	var criteria []string
	if len(req.Table.Header) > 1 {
		criteria = append(criteria, req.Table.Header[1:]...)
	}
	r.save(ctx, &store.Run{
		ID:           runID,
		Source:       req.Source,
		Criteria:     criteria,
		Weights:      req.Weights,
		Impacts:      req.Impacts,
		Alternatives: len(req.Table.Rows),
		Outcome:      store.OutcomeFailed,
		FailureKind:  kind,
		DurationMs:   float64(elapsed.Microseconds()) / 1000,
	})

	if r.hermes != nil {
		r.publish(hermes.SubjectRunFailed(runID.String()), hermes.RunFailedEvent{
			RunID:  runID.String(),
			Source: req.Source,
			Kind:   kind,
			Error:  err.Error(),
		})
	}

	r.logger.Debug("run rejected", "run_id", runID, "source", req.Source, "kind", kind, "error", err)
}

func (r *Runner) save(ctx context.Context, run *store.Run) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveRun(ctx, run); err != nil {
		r.logger.Warn("failed to save run", "run_id", run.ID, "error", err)
	}
}

func (r *Runner) publish(subject string, evt interface{}) {
	if err := r.hermes.Publish(subject, evt); err != nil {
		r.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
