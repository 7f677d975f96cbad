package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/graphql", 200, 10*time.Millisecond)
	m.ObserveRequest("/graphql", 200, 20*time.Millisecond)
	m.ObserveRequest("/health", 200, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/graphql", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/health", "200")))
}

func TestObserveCreditsBatch(t *testing.T) {
	m := New()
	m.ObserveCreditsBatch(3, nil)
	m.ObserveCreditsBatch(1, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.batchErrors))
	assert.Equal(t, 1, testutil.CollectAndCount(m.batchSize))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveCreditsBatch(2, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "starwars_credits_batch_size_sum 2")
}
