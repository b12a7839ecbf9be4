package http

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nike1016/selfoss/internal/observability/metrics"
)

func TestMetricsMiddleware_PathNormalization(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		label  string
		status int
	}{
		{"list", http.MethodGet, "/sources", "/sources", http.StatusOK},
		{"get by id", http.MethodGet, "/sources/123", "/sources/:id", http.StatusOK},
		{"set error", http.MethodPut, "/sources/9/error", "/sources/:id/error", http.StatusNoContent},
		{"spout", http.MethodGet, "/spouts/rss", "/spouts/:name", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := metrics.HTTPRequestsTotal.WithLabelValues(tt.method, tt.label, strconv.Itoa(tt.status))
			before := testutil.ToFloat64(counter)

			handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestMetricsMiddleware_DefaultStatus(t *testing.T) {
	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/live", "200")
	before := testutil.ToFloat64(counter)

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("alive"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMetricsMiddleware_Sizes(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	req := httptest.NewRequest(http.MethodPost, "/sources", strings.NewReader(`{"title":"x"}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Positive(t, testutil.CollectAndCount(metrics.HTTPRequestSize))
	assert.Positive(t, testutil.CollectAndCount(metrics.HTTPResponseSize))
}

func TestMetricsHandler(t *testing.T) {
	metrics.RecordSourceOperation("list", metrics.ResultSuccess)

	rr := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "selfoss_sources_operations_total")
}
