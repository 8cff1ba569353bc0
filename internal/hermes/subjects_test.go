package hermes

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRunSubjects(t *testing.T) {
	id := "6f1c2a9e-0000-4000-8000-000000000001"
	if got := SubjectRunCompleted(id); got != "topsis.run."+id+".completed" {
		t.Errorf("unexpected completed subject %s", got)
	}
	if got := SubjectRunFailed(id); got != "topsis.run."+id+".failed" {
		t.Errorf("unexpected failed subject %s", got)
	}
	for _, s := range []string{SubjectRunCompleted(id), SubjectRunFailed(id)} {
		if !strings.HasPrefix(s, strings.TrimSuffix(subjectRunWildcard, ">")) {
			t.Errorf("subject %s not covered by stream wildcard %s", s, subjectRunWildcard)
		}
	}
}

func TestRunCompletedEventJSON(t *testing.T) {
	data, err := json.Marshal(RunCompletedEvent{RunID: "r1", Alternatives: 3, BestLabel: "M3", BestScore: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"run_id", "source", "alternatives", "criteria", "best_label", "best_score"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %s in %s", key, data)
		}
	}
}
