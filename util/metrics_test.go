package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestSumMetricValues(t *testing.T) {
	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_sum_total"}, []string{"path"})
	counterVec.WithLabelValues("conn").Add(3)
	counterVec.WithLabelValues("dns").Add(4)
	assert.Equal(t, 7.0, SumMetricValues(counterVec))

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_sum_gauge"})
	gauge.Sub(2)
	assert.Equal(t, -2.0, SumMetricValues(gauge))

	assert.Equal(t, 0.0, SumMetricValues(prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_empty_total"}, nil)))
}

func TestMetricsHandler(t *testing.T) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_metrics_handler_total"})
	assert.Nil(t, prometheus.Register(counter))
	defer prometheus.Unregister(counter)
	counter.Add(2)

	handler := NewMetricsHandler()
	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	metrics := get("/metrics")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "test_metrics_handler_total 2\n")

	index := get("/")
	assert.Equal(t, http.StatusOK, index.Code)
	assert.Contains(t, index.Body.String(), "Metrics listener for zmqlogwriter")

	assert.Equal(t, http.StatusNotFound, get("/nothing").Code)
	assert.Equal(t, http.StatusOK, get("/debug/pprof/").Code)
}
