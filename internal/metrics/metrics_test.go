package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape returns the text exposition of the collector's registry.
func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestCollector_RecordSubmission(t *testing.T) {
	c := NewCollector("survey")

	c.RecordSubmission(StatusSucceeded, 20*time.Millisecond)
	c.RecordSubmission(StatusFailed, 5*time.Millisecond)
	c.RecordSubmission(StatusFailed, 5*time.Millisecond)
	c.RecordSubmission(StatusRejected, 0)

	body := scrape(t, c)
	assert.Contains(t, body, `survey_submissions_total{status="succeeded"} 1`)
	assert.Contains(t, body, `survey_submissions_total{status="failed"} 2`)
	assert.Contains(t, body, `survey_submissions_total{status="rejected"} 1`)
	assert.Contains(t, body, `survey_submission_duration_seconds_count 3`)
}

func TestCollector_ActiveSessionsAndHTTP(t *testing.T) {
	c := NewCollector("survey")
	c.SetActiveSessions(4)
	c.RecordHTTPRequest(http.MethodPost, "/sessions", http.StatusCreated, time.Millisecond)

	body := scrape(t, c)
	assert.Contains(t, body, "survey_active_sessions 4")
	assert.Contains(t, body, `survey_http_requests_total{method="POST",path="/sessions",status_code="201"} 1`)
}

func TestCollector_Registry(t *testing.T) {
	c := NewCollector("survey")
	c.RecordSubmission(StatusSucceeded, time.Millisecond)

	families, err := c.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["survey_submissions_total"])
	assert.True(t, names["survey_active_sessions"])
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	c.RecordSubmission(StatusFailed, time.Second)
	c.RecordHTTPRequest("GET", "/", 200, time.Second)
	c.SetActiveSessions(1)
}
