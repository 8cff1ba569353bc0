package topsis

// Impact is the preferred direction of a criterion.
type Impact int

const (
	Maximize Impact = iota
	Minimize
)

// ParseImpact accepts exactly "+" or "-".
func ParseImpact(s string) (Impact, bool) {
	switch s {
	case "+":
		return Maximize, true
	case "-":
		return Minimize, true
	}
	return 0, false
}

func (i Impact) String() string {
	if i == Minimize {
		return "-"
	}
	return "+"
}
