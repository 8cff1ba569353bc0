package topsis

// Dominated flags every alternative that some other alternative dominates:
// at least as good on every criterion (respecting each impact) and strictly
// better on at least one. Rows left unflagged form the Pareto frontier.
// O(n^2) pairwise check over the raw matrix.
func Dominated(in *Input) []bool {
	out := make([]bool, len(in.Matrix))
	for i := range in.Matrix {
		for k := range in.Matrix {
			if i == k {
				continue
			}
			if dominates(in.Matrix[k], in.Matrix[i], in.Impacts) {
				out[i] = true
				break
			}
		}
	}
	return out
}

func dominates(a, b []float64, impacts []Impact) bool {
	strict := false
	for j := range a {
		av, bv := a[j], b[j]
		if impacts[j] == Minimize {
			av, bv = -av, -bv
		}
		if av < bv {
			return false
		}
		if av > bv {
			strict = true
		}
	}
	return strict
}
