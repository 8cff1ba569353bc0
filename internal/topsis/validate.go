package topsis

import (
	"math"
	"strconv"
	"strings"
)

// Input is a ranking problem that passed validation.
type Input struct {
	Labels   []string
	Criteria []string
	Matrix   [][]float64
	Weights  []float64
	Impacts  []Impact
}

// Validate turns a raw table plus comma-separated weight and impact lists
// into an Input. Checks run in a fixed order and the first failure wins:
// column count, numeric cells, list lengths, impact symbols, weight
// syntax. Weight sign, row count and all-zero columns are checked only
// once those pass.
func Validate(header []string, rows [][]string, weights, impacts string) (*Input, error) {
	if len(header) < 3 {
		return nil, reject(KindInsufficientColumns, "got %d columns", len(header))
	}
	criteria := len(header) - 1

	matrix := make([][]float64, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			labels[i] = row[0]
		}
		matrix[i] = make([]float64, criteria)
		for j := 0; j < criteria; j++ {
			var cell string
			if j+1 < len(row) {
				cell = row[j+1]
			}
			v, ok := parseNumber(cell)
			if !ok {
				return nil, reject(KindNonNumericData, "row %d column %q: %q", i+1, header[j+1], cell)
			}
			matrix[i][j] = v
		}
	}

	weightTokens := strings.Split(weights, ",")
	impactTokens := strings.Split(impacts, ",")
	if len(weightTokens) != criteria || len(impactTokens) != criteria {
		return nil, reject(KindCountMismatch, "%d weights, %d impacts, %d criteria",
			len(weightTokens), len(impactTokens), criteria)
	}

	parsedImpacts := make([]Impact, criteria)
	for j, tok := range impactTokens {
		imp, ok := ParseImpact(tok)
		if !ok {
			return nil, reject(KindInvalidImpact, "impact %d: %q", j+1, tok)
		}
		parsedImpacts[j] = imp
	}

	parsedWeights := make([]float64, criteria)
	for j, tok := range weightTokens {
		w, ok := parseNumber(tok)
		if !ok {
			return nil, reject(KindInvalidWeight, "weight %d: %q", j+1, tok)
		}
		parsedWeights[j] = w
	}

	for j, w := range parsedWeights {
		if w <= 0 {
			return nil, reject(KindNonPositiveWeight, "weight %d: %v", j+1, w)
		}
	}
	if len(rows) == 0 {
		return nil, reject(KindEmptyData, "no data rows")
	}
	for j := 0; j < criteria; j++ {
		if columnIsZero(matrix, j) {
			return nil, reject(KindZeroCriterion, "column %q", header[j+1])
		}
	}

	return &Input{
		Labels:   labels,
		Criteria: append([]string(nil), header[1:]...),
		Matrix:   matrix,
		Weights:  parsedWeights,
		Impacts:  parsedImpacts,
	}, nil
}

// parseNumber accepts decimal integers and reals with optional surrounding
// whitespace. Empty strings, hex literals, NaN and infinities are rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func columnIsZero(matrix [][]float64, j int) bool {
	for _, row := range matrix {
		if row[j] != 0 {
			return false
		}
	}
	return true
}
