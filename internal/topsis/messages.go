package topsis

var messages = map[Kind]string{
	KindInsufficientColumns: "Input file must contain three or more columns",
	KindNonNumericData:      "From 2nd to last columns must contain numeric values only",
	KindCountMismatch:       "Number of weights, impacts and columns must be the same",
	KindInvalidImpact:       "Impacts must be either +ve or -ve",
	KindInvalidWeight:       "Weights must be numeric",
	KindNonPositiveWeight:   "Weights must be positive",
	KindEmptyData:           "Input file must contain at least one data row",
	KindZeroCriterion:       "Criterion columns must not be all zeros",
}

// Message returns the user-facing wording for a validation kind, without
// the "Error: " prefix.
func Message(kind Kind) string {
	if m, ok := messages[kind]; ok {
		return m
	}
	return string(kind)
}
