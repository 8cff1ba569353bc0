package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCompleted(t *testing.T) {
	m := New()
	m.ObserveCompleted(5*time.Millisecond, 3)
	m.ObserveCompleted(time.Millisecond, 4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeCompleted)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.alternatives))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeFailed)))
}

func TestObserveFailed(t *testing.T) {
	m := New()
	m.ObserveFailed(time.Millisecond, "count_mismatch")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("count_mismatch")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveCompleted(time.Second, 10)
	m.ObserveFailed(time.Second, "x")
	assert.NoError(t, m.Push(context.Background(), "http://unused"))
}

func TestHandlerExposesRunCounter(t *testing.T) {
	m := New()
	m.ObserveCompleted(time.Millisecond, 2)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `topsis_runs_total{outcome="completed"} 1`)
}

func TestPush(t *testing.T) {
	var gotPath, gotBody string
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	m := New()
	m.ObserveCompleted(time.Millisecond, 1)
	require.NoError(t, m.Push(context.Background(), gw.URL))

	assert.True(t, strings.HasPrefix(gotPath, "/metrics/job/topsis"), "unexpected push path %s", gotPath)
	assert.NotEmpty(t, gotBody)
}
