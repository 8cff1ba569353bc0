package hermes

const (
	StreamName   = "TOPSIS_EVENTS"
	StreamMaxAge = "720h" // 30 days

	subjectRunWildcard = "topsis.run.>"
)

func SubjectRunCompleted(runID string) string { return "topsis.run." + runID + ".completed" }
func SubjectRunFailed(runID string) string    { return "topsis.run." + runID + ".failed" }
