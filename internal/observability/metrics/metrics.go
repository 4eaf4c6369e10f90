package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "billing_"

	resultSuccess = "success"
	resultError   = "error"
	resultNoData  = "no_data"
)

var (
	registerOnce sync.Once

	operationTotal   *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec

	consumptionUpdates *prometheus.CounterVec
	gridResets         *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
)

// Init registers billing metrics on reg, or the default registerer when reg is nil.
// Only the first call has an effect.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		operationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "operation_total",
				Help: "Total billing operations by operation and result",
			},
			[]string{"operation", "result"},
		)
		operationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "operation_latency_seconds",
				Help:    "Billing operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		)
		consumptionUpdates = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "consumption_updates_total",
				Help: "Total consumption grid writes by kind",
			},
			[]string{"kind"},
		)
		gridResets = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "grid_resets_total",
				Help: "Total consumption grid (re)initializations by cause",
			},
			[]string{"cause"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total document exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Document export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method and status code",
			},
			[]string{"method", "code"},
		)

		reg.MustRegister(
			operationTotal,
			operationLatency,
			consumptionUpdates,
			gridResets,
			exportTotal,
			exportLatency,
			httpRequests,
		)
	})
}

// ObserveOperation records an aggregation or grid operation.
func ObserveOperation(operation, result string, duration time.Duration) {
	if operation == "" {
		operation = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if operationTotal != nil {
		operationTotal.WithLabelValues(operation, result).Inc()
	}
	if operationLatency != nil {
		operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// IncConsumptionUpdate counts a grid write.
func IncConsumptionUpdate(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if consumptionUpdates != nil {
		consumptionUpdates.WithLabelValues(kind).Inc()
	}
}

// AddConsumptionUpdates counts a batch of grid writes.
func AddConsumptionUpdates(kind string, count int) {
	if count <= 0 {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	if consumptionUpdates != nil {
		consumptionUpdates.WithLabelValues(kind).Add(float64(count))
	}
}

// IncGridReset counts a grid (re)initialization.
func IncGridReset(cause string) {
	if cause == "" {
		cause = "unknown"
	}
	if gridResets != nil {
		gridResets.WithLabelValues(cause).Inc()
	}
}

// ObserveExport records a document export.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format).Observe(duration.Seconds())
	}
}

// IncHTTPRequest counts a served HTTP request.
func IncHTTPRequest(method, code string) {
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, code).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultNoData  = resultNoData
)
