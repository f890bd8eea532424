package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{}, nil)
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestNewMetricsCollector_RuntimeCollectors(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "rt", EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, c), "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("claims_total", "help", "language")
	vec.WithLabelValues("en").Inc()
	vec.WithLabelValues("en").Add(2)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_claims_total{language="en"} 3`)
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("workers", "help", "pool").WithLabelValues("batch")
	g.Set(4)
	g.Inc()
	g.Dec()
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_workers{pool="batch"} 4`)
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterHistogram("latency_seconds", "help", nil, "op").WithLabelValues("x").Observe(0.2)
	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_latency_seconds_bucket{op="x",le="0.25"} 1`)
	assert.Contains(t, out, `test_unit_latency_seconds_count{op="x"} 1`)
}

func TestRegister_SameNameIsShared(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("shared_total", "help").WithLabelValues().Inc()
	c.RegisterCounter("shared_total", "help").WithLabelValues().Inc()
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_shared_total 2")
}

func TestRegister_TypeMismatchFallsBackToNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dual", "help")
	g := c.RegisterGauge("dual", "help")
	assert.IsType(t, noopGaugeVec{}, g)
	assert.NotPanics(t, func() { g.WithLabelValues().Set(1) })
}

func TestRegister_ConflictingLabelsFallsBackToNoop(t *testing.T) {
	c := newTestCollector(t)
	c.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Namespace: "test", Subsystem: "unit", Name: "raw_total", Help: "help"}))
	vec := c.RegisterCounter("raw_total", "help", "label")
	assert.IsType(t, noopCounterVec{}, vec)
}

func TestUnregister(t *testing.T) {
	c := newTestCollector(t)
	raw := prometheus.NewGauge(prometheus.GaugeOpts{Name: "raw_gauge", Help: "help"})
	c.MustRegister(raw)
	assert.True(t, c.Unregister(raw))
	assert.False(t, c.Unregister(raw))
}

func TestConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent_total", "help").WithLabelValues().Inc()
		}()
	}
	wg.Wait()
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_concurrent_total 20")
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timer_seconds", "help", nil).WithLabelValues()
	timer := NewTimer(h)
	time.Sleep(time.Millisecond)
	timer.ObserveDuration()
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_timer_seconds_count 1")

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

//Personal.AI order the ending
