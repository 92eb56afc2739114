package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.IncrementHabitsCreated()
	m.IncrementCompletionsRecorded()
	m.IncrementCompletionsRecorded()
	m.IncrementDuplicateCompletions()
	m.IncrementReportsGenerated("WEEK")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HabitsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CompletionsRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DuplicateCompletions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsGenerated.WithLabelValues("WEEK")))
}

func TestInstancesDoNotShareRegistry(t *testing.T) {
	first := New()
	second := New()

	first.IncrementHabitsCreated()
	assert.Equal(t, 0.0, testutil.ToFloat64(second.HabitsCreated))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, http.StatusOK, 25*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "habitkit_http_request_duration_seconds")
}
