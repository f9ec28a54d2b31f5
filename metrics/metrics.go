// Package metrics provides Prometheus metrics for the CVD risk API.
// HTTP traffic:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Domain activity:
//   - cvdrisk_estimates_total, cvdrisk_ten_year_risk_percent
//   - cvdrisk_ldl_adjustments_total
//   - cvdrisk_validation_failures_total
//   - cvdrisk_catalog_reloads_total, cvdrisk_catalog_entries
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	EstimatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cvdrisk_estimates_total",
			Help: "Risk computations served, by operation",
		},
		[]string{"operation"},
	)

	TenYearRiskPercent = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cvdrisk_ten_year_risk_percent",
			Help:    "Distribution of estimated 10-year risk",
			Buckets: []float64{5, 10, 20, 30, 50, 75},
		},
	)

	LDLAdjustmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cvdrisk_ldl_adjustments_total",
			Help: "LDL-C adjustments, by statin and whether the floor applied",
		},
		[]string{"statin", "floored"},
	)

	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cvdrisk_validation_failures_total",
			Help: "Rejected requests, by operation and error kind",
		},
		[]string{"operation", "kind"},
	)

	CatalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cvdrisk_catalog_reloads_total",
			Help: "Therapy catalog reload attempts, by result",
		},
		[]string{"result"},
	)

	CatalogEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cvdrisk_catalog_entries",
			Help: "Entries in the active therapy catalog, by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(EstimatesTotal)
	prometheus.MustRegister(TenYearRiskPercent)
	prometheus.MustRegister(LDLAdjustmentsTotal)
	prometheus.MustRegister(ValidationFailuresTotal)
	prometheus.MustRegister(CatalogReloadsTotal)
	prometheus.MustRegister(CatalogEntries)
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveEstimate records one served 10-year estimate
func ObserveEstimate(operation string, tenYearRiskPercent float64) {
	EstimatesTotal.WithLabelValues(operation).Inc()
	TenYearRiskPercent.Observe(tenYearRiskPercent)
}

// ObserveLDLAdjustment records one LDL-C adjustment
func ObserveLDLAdjustment(statin string, floored bool) {
	LDLAdjustmentsTotal.WithLabelValues(statin, strconv.FormatBool(floored)).Inc()
}

// ObserveCatalog records a reload attempt and, on success, the catalog size
func ObserveCatalog(err error, statins, addOns int) {
	if err != nil {
		CatalogReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	CatalogReloadsTotal.WithLabelValues("success").Inc()
	CatalogEntries.WithLabelValues("statin").Set(float64(statins))
	CatalogEntries.WithLabelValues("addon").Set(float64(addOns))
}
