package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/Topsis/internal/runner"
	"github.com/MikeSquared-Agency/Topsis/internal/table"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const runIDHeader = "X-Run-ID"

type RankHandler struct {
	runner       *runner.Runner
	maxBodyBytes int64
	logger       *slog.Logger
}

func NewRankHandler(rn *runner.Runner, maxBodyBytes int64, logger *slog.Logger) *RankHandler {
	return &RankHandler{runner: rn, maxBodyBytes: maxBodyBytes, logger: logger}
}

// RankResponse is the JSON form of a ranked table.
type RankResponse struct {
	RunID      string      `json:"run_id"`
	Header     []string    `json:"header"`
	Rows       []RankedRow `json:"rows"`
	IdealBest  []float64   `json:"ideal_best"`
	IdealWorst []float64   `json:"ideal_worst"`
}

// RankedRow is one alternative. Dominated marks rows off the Pareto
// frontier of the raw criteria.
type RankedRow struct {
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	Rank      int     `json:"rank"`
	Dominated bool    `json:"dominated"`
}

type validationErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Rank ranks the CSV request body using the weights and impacts query
// parameters. The result is CSV unless the client accepts JSON.
func (h *RankHandler) Rank(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	tbl, err := table.Parse(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "could not read csv: "+err.Error())
		return
	}

	q := r.URL.Query()
	out, err := h.runner.Execute(r.Context(), runner.Request{
		Source:  "api",
		Table:   tbl,
		Weights: q.Get("weights"),
		Impacts: q.Get("impacts"),
	})
	if err != nil {
		if kind, ok := topsis.KindOf(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{
				Error: topsis.Message(kind),
				Kind:  string(kind),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if wantsJSON(r) {
		w.Header().Set(runIDHeader, out.RunID.String())
		resp := RankResponse{
			RunID:      out.RunID.String(),
			Header:     out.Table.Header,
			Rows:       make([]RankedRow, len(out.Ranking.Scores)),
			IdealBest:  out.Ranking.IdealBest,
			IdealWorst: out.Ranking.IdealWorst,
		}
		dominated := topsis.Dominated(out.Input)
		for i := range resp.Rows {
			resp.Rows[i] = RankedRow{
				Label:     out.Input.Labels[i],
				Score:     out.Ranking.Scores[i],
				Rank:      out.Ranking.Ranks[i],
				Dominated: dominated[i],
			}
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	var buf bytes.Buffer
	if err := out.Table.Encode(&buf); err != nil {
		h.logger.Error("failed to encode result csv", "run_id", out.RunID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not encode result")
		return
	}
	w.Header().Set(runIDHeader, out.RunID.String())
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write result csv", "run_id", out.RunID, "error", err)
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
