package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "workspace_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Tenant registration counter
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "workspace_tenant_register_total",
			Help: "Total number of tenant registrations",
		},
	)

	// Resource operation counter
	OperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_operations_total",
			Help: "Total number of resource operations",
		},
		[]string{"resource", "operation"}, // resource: tenant/user/project/task, operation: create/list/get/update/delete
	)

	// Error counter
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_errors_total",
			Help: "Total number of request errors",
		},
		[]string{"type"}, // type can be "not_found", "access_denied", "forbidden", "quota_exceeded", "validation", "conflict", "unavailable"
	)

	// Quota denial counter
	QuotaDeniedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_quota_denied_total",
			Help: "Total number of creations blocked by tenant quotas",
		},
		[]string{"resource"},
	)

	// Audit write failure counter
	AuditFailureCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "workspace_audit_failures_total",
			Help: "Total number of audit entries that failed to persist",
		},
	)
)

// Histogram metrics
var (
	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workspace_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "workspace_info",
			Help: "Information about the workspace service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(OperationCounter)
	prometheus.MustRegister(ErrorCounter)
	prometheus.MustRegister(QuotaDeniedCounter)
	prometheus.MustRegister(AuditFailureCounter)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// RecordOperation increments the operation counter for a resource verb
func RecordOperation(resource, operation string) {
	OperationCounter.WithLabelValues(resource, operation).Inc()
}

// RecordError increments the error counter for a taxonomy class
func RecordError(errType string) {
	ErrorCounter.WithLabelValues(errType).Inc()
}

// RecordQuotaDenied increments the quota denial counter
func RecordQuotaDenied(resource string) {
	QuotaDeniedCounter.WithLabelValues(resource).Inc()
}

// RecordAuditFailure increments the audit write failure counter
func RecordAuditFailure() {
	AuditFailureCounter.Inc()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}
