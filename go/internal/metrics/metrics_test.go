package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRecorder()
	r.RecordHTTPRequest(http.MethodPost, "/api", 200, 15*time.Millisecond)
	r.RecordHTTPRequest(http.MethodPost, "/api", 200, 5*time.Millisecond)
	r.RecordHTTPRequest(http.MethodGet, "/api", 400, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requests.WithLabelValues("POST", "/api", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("GET", "/api", "400")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.requestLatency))
}

func TestRecordPlayerCreated(t *testing.T) {
	r := NewRecorder()
	r.RecordPlayerCreated()
	r.RecordPlayerCreated()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.playersCreated))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordPlayerCreated()
		r.RecordHTTPRequest("GET", "/", 200, time.Second)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.RecordPlayerCreated()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "teamgraph_players_created_total 1"), body)
	assert.Contains(t, body, "go_goroutines")
}
