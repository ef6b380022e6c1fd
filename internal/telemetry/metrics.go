// Package telemetry registers the Prometheus metrics exposed on /metrics.
//
// HTTP metrics are labelled by the gin route template (c.FullPath()), never
// the raw URL, so query strings such as organization_name do not inflate
// label cardinality.
package telemetry

import (
	"orgmanager/internal/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgmanager_http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orgmanager_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// DirectoryOpsTotal counts organization directory and authentication
	// operations by outcome. result is "ok" or the apperr code of the failure.
	DirectoryOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgmanager_directory_operations_total",
			Help: "Total number of directory operations, by operation and result.",
		},
		[]string{"op", "result"},
	)

	// TenantDocumentsCopiedTotal counts documents copied between tenant
	// collections by the copy utility.
	TenantDocumentsCopiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orgmanager_tenant_documents_copied_total",
			Help: "Total number of documents copied between tenant collections.",
		},
	)
)

// ResultOK is the result label of a successful operation.
const ResultOK = "ok"

// Result returns the result label for err.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}
	return apperr.Code(err)
}

// RecordDirectoryOp increments DirectoryOpsTotal for op with the outcome of err.
func RecordDirectoryOp(op string, err error) {
	DirectoryOpsTotal.WithLabelValues(op, Result(err)).Inc()
}
