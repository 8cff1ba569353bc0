package topsis

import (
	"fmt"
	"math"
	"sort"
)

// Ranking is the outcome of one TOPSIS pass. Scores and Ranks are indexed
// by input row; the remaining vectors explain how the scores were reached.
type Ranking struct {
	Scores     []float64 `json:"scores"`
	Ranks      []int     `json:"ranks"`
	IdealBest  []float64 `json:"ideal_best"`
	IdealWorst []float64 `json:"ideal_worst"`
	DistBest   []float64 `json:"dist_best"`
	DistWorst  []float64 `json:"dist_worst"`
}

// Rank scores every row of in.Matrix by relative closeness to the ideal
// solution and assigns competition ranks (1 = best).
//
//	v[i][j] = w[j] * x[i][j] / sqrt(sum_i x[i][j]^2)
//	score[i] = d-[i] / (d+[i] + d-[i])
//
// A column whose values are all zero normalizes to NaN and the NaN carries
// through to the affected scores. A row at zero distance from both ideal
// points (every row identical) scores 0.5.
func Rank(in *Input) (*Ranking, error) {
	criteria := len(in.Weights)
	if len(in.Impacts) != criteria {
		return nil, fmt.Errorf("rank: %d weights but %d impacts", criteria, len(in.Impacts))
	}
	for i, row := range in.Matrix {
		if len(row) != criteria {
			return nil, fmt.Errorf("rank: row %d has %d values, want %d", i+1, len(row), criteria)
		}
	}

	weighted := weightedNormalized(in.Matrix, in.Weights)
	best, worst := idealPoints(weighted, in.Impacts, criteria)

	n := len(weighted)
	r := &Ranking{
		Scores:     make([]float64, n),
		IdealBest:  best,
		IdealWorst: worst,
		DistBest:   make([]float64, n),
		DistWorst:  make([]float64, n),
	}
	for i, row := range weighted {
		dPlus := distance(row, best)
		dMinus := distance(row, worst)
		r.DistBest[i] = dPlus
		r.DistWorst[i] = dMinus
		if dPlus+dMinus == 0 {
			r.Scores[i] = 0.5
			continue
		}
		r.Scores[i] = dMinus / (dPlus + dMinus)
	}
	r.Ranks = competitionRanks(r.Scores)
	return r, nil
}

func weightedNormalized(matrix [][]float64, weights []float64) [][]float64 {
	norms := make([]float64, len(weights))
	col := make([]float64, len(matrix))
	for j := range norms {
		for i, row := range matrix {
			col[i] = row[j]
		}
		norms[j] = euclidean(col)
	}

	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			// 0/0 is NaN in IEEE arithmetic; keep it.
			out[i][j] = v / norms[j] * weights[j]
		}
	}
	return out
}

func idealPoints(weighted [][]float64, impacts []Impact, criteria int) (best, worst []float64) {
	best = make([]float64, criteria)
	worst = make([]float64, criteria)
	for j := 0; j < criteria; j++ {
		if len(weighted) == 0 {
			best[j], worst[j] = math.NaN(), math.NaN()
			continue
		}
		hi, lo := weighted[0][j], weighted[0][j]
		for _, row := range weighted[1:] {
			hi = math.Max(hi, row[j])
			lo = math.Min(lo, row[j])
		}
		if impacts[j] == Minimize {
			hi, lo = lo, hi
		}
		best[j], worst[j] = hi, lo
	}
	return best, worst
}

func distance(a, b []float64) float64 {
	diff := make([]float64, len(a))
	for j := range a {
		diff[j] = a[j] - b[j]
	}
	return euclidean(diff)
}

// Magnitudes outside [safeMin, safeMax] overflow or lose precision when
// squared.
const (
	safeMin = 1e-150
	safeMax = 1e150
)

// euclidean returns sqrt(sum x^2). When the largest magnitude is outside
// the safe range the values are divided by it before squaring and the
// root is scaled back.
func euclidean(xs []float64) float64 {
	var maxAbs float64
	for _, x := range xs {
		if math.IsNaN(x) {
			return math.NaN()
		}
		maxAbs = math.Max(maxAbs, math.Abs(x))
	}
	if maxAbs == 0 || math.IsInf(maxAbs, 1) {
		return maxAbs
	}

	scale := 1.0
	if maxAbs < safeMin || maxAbs > safeMax {
		scale = maxAbs
	}
	var sum float64
	for _, x := range xs {
		y := x / scale
		sum += y * y
	}
	return scale * math.Sqrt(sum)
}

// competitionRanks ranks scores descending. Equal scores share the lowest
// rank of their group and the next distinct score skips ahead ("1224").
// NaN scores come after every number and share one rank.
func competitionRanks(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ahead(scores[order[a]], scores[order[b]])
	})

	ranks := make([]int, len(scores))
	for pos, idx := range order {
		if pos > 0 && sameScore(scores[idx], scores[order[pos-1]]) {
			ranks[idx] = ranks[order[pos-1]]
			continue
		}
		ranks[idx] = pos + 1
	}
	return ranks
}

func ahead(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

func sameScore(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
