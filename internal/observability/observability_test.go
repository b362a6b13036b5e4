package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreiashu/gazetteer/internal/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	observability.ObserveHTTP("/v1/search", "GET", 200, 12*time.Millisecond)
	observability.ObserveQuery("search", "ok")
	observability.DatasetRecords.Set(3)

	rr := httptest.NewRecorder()
	observability.MetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, "gazetteer_http_requests_total")
	assert.Contains(t, out, `gazetteer_queries_total{op="search",outcome="ok"}`)
	assert.Contains(t, out, "gazetteer_dataset_records 3")
}

func TestObserveQueryCounts(t *testing.T) {
	before := testutil.ToFloat64(observability.Queries.WithLabelValues("compare", "not_found"))
	observability.ObserveQuery("compare", "not_found")
	observability.ObserveQuery("compare", "not_found")
	after := testutil.ToFloat64(observability.Queries.WithLabelValues("compare", "not_found"))
	assert.Equal(t, before+2, after)
}
