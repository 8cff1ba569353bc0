package topsis

import (
	"errors"
	"fmt"
)

// Kind classifies why an input was rejected.
type Kind string

const (
	KindInsufficientColumns Kind = "insufficient_columns"
	KindNonNumericData      Kind = "non_numeric_data"
	KindCountMismatch       Kind = "count_mismatch"
	KindInvalidImpact       Kind = "invalid_impact_symbol"
	KindInvalidWeight       Kind = "invalid_weight"
	KindNonPositiveWeight   Kind = "non_positive_weight"
	KindEmptyData           Kind = "empty_data"
	KindZeroCriterion       Kind = "zero_criterion"
)

// ValidationError is returned by Validate. Detail locates the offending
// value for logs; it is never part of the user-facing message.
type ValidationError struct {
	Kind   Kind
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func reject(kind Kind, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf reports the validation kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return "", false
}
