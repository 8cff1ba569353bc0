package hermes

type RunCompletedEvent struct {
	RunID        string  `json:"run_id"`
	Source       string  `json:"source"`
	Alternatives int     `json:"alternatives"`
	Criteria     int     `json:"criteria"`
	BestLabel    string  `json:"best_label"`
	BestScore    float64 `json:"best_score"`
}

type RunFailedEvent struct {
	RunID  string `json:"run_id"`
	Source string `json:"source"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}
