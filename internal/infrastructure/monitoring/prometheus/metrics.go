package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the service exports.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Claim analysis
	AnalysesTotal     CounterVec
	AnalysisDuration  HistogramVec
	StageDuration     HistogramVec
	ClaimsPerAnalysis HistogramVec
	IssuesTotal       CounterVec
	BatchSize         HistogramVec

	// Infrastructure
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	DBQueryDuration        HistogramVec
	MessagesTotal          CounterVec
	MessageProcessDuration HistogramVec

	// Health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Bucket layouts.
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultClaimCountBuckets       = []float64{1, 2, 5, 10, 20, 30, 50, 100, 200}
	DefaultBatchSizeBuckets        = []float64{1, 2, 5, 10, 20, 50}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.AnalysesTotal = collector.RegisterCounter("claim_analyses_total", "Claim set analyses", "language", "status")
	m.AnalysisDuration = collector.RegisterHistogram("claim_analysis_duration_seconds", "End-to-end claim analysis duration", DefaultAnalysisDurationBuckets, "language")
	m.StageDuration = collector.RegisterHistogram("claim_pipeline_stage_duration_seconds", "Claim pipeline stage duration", DefaultAnalysisDurationBuckets, "stage")
	m.ClaimsPerAnalysis = collector.RegisterHistogram("claims_per_analysis", "Number of claims per analysed set", DefaultClaimCountBuckets, "language")
	m.IssuesTotal = collector.RegisterCounter("claim_issues_total", "Drafting issues raised", "kind")
	m.BatchSize = collector.RegisterHistogram("claim_batch_size", "Items per batch request", DefaultBatchSizeBuckets)

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")
	m.MessagesTotal = collector.RegisterCounter("messages_total", "Bus messages handled", "topic", "status")
	m.MessageProcessDuration = collector.RegisterHistogram("message_process_duration_seconds", "Bus message processing duration", DefaultHTTPDurationBuckets, "topic")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAnalysis records one finished analysis.  issueKinds lists the kind of
// every issue raised, duplicates included.
func RecordAnalysis(m *AppMetrics, language, status string, duration time.Duration, claims int, issueKinds []string) {
	m.AnalysesTotal.WithLabelValues(language, status).Inc()
	if status != "success" {
		return
	}
	m.AnalysisDuration.WithLabelValues(language).Observe(duration.Seconds())
	m.ClaimsPerAnalysis.WithLabelValues(language).Observe(float64(claims))
	for _, k := range issueKinds {
		m.IssuesTotal.WithLabelValues(k).Inc()
	}
}

// StageObserver returns a callback recording pipeline stage durations.
func StageObserver(m *AppMetrics) func(stage string, elapsed time.Duration) {
	return func(stage string, elapsed time.Duration) {
		m.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	}
}

// RecordCacheAccess counts a hit or a miss on cache.
func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordDBQuery records a repository call.
func RecordDBQuery(m *AppMetrics, operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues("postgres", "query_error").Inc()
	}
}

// RecordMessage records one consumed or produced bus message.
func RecordMessage(m *AppMetrics, topic string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.MessagesTotal.WithLabelValues(topic, status).Inc()
	m.MessageProcessDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

// RecordError counts an error by component.
func RecordError(m *AppMetrics, component, errorType string) {
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// SetHealth publishes the result of a health probe.
func SetHealth(m *AppMetrics, component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

//Personal.AI order the ending
