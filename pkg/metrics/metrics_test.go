package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nepkart/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	series := metrics.RequestTotal.WithLabelValues("GET", "/api/orders/{id}", "418")
	before := testutil.ToFloat64(series)
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/"+id, nil))
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(series)-before)
}

func TestCheckoutCounters(t *testing.T) {
	before := testutil.ToFloat64(metrics.OrdersCreated)
	metrics.RecordOrder(42.5)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OrdersCreated)-before)

	failures := metrics.OrderFailures.WithLabelValues("insufficient_stock")
	before = testutil.ToFloat64(failures)
	metrics.RecordOrderFailure("insufficient_stock")
	assert.Equal(t, 1.0, testutil.ToFloat64(failures)-before)

	sold := metrics.UnitsSold.WithLabelValues("NEP-TEA-001")
	before = testutil.ToFloat64(sold)
	metrics.RecordUnitsSold("NEP-TEA-001", 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(sold)-before)
}

func TestInfrastructureCounters(t *testing.T) {
	hits := metrics.CacheLookups.WithLabelValues("hit")
	before := testutil.ToFloat64(hits)
	metrics.RecordCacheLookup(true)
	metrics.RecordCacheLookup(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(hits)-before)

	ok := metrics.QueueJobs.WithLabelValues("low_stock_alert", "success")
	before = testutil.ToFloat64(ok)
	metrics.RecordQueueJob("low_stock_alert", "success", time.Now())
	assert.Equal(t, 1.0, testutil.ToFloat64(ok)-before)
}

func TestHandlerExposesNamespace(t *testing.T) {
	metrics.RecordOrder(10)

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nepkart_orders_created_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
