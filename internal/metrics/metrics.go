package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// MutationsTotal counts successful inventory writes by operation (create, update, delete).
	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_mutations_total",
			Help: "Total number of successful inventory mutations by operation",
		},
		[]string{"op"},
	)

	// CollectionUsers is the number of registered users, refreshed on a schedule.
	CollectionUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "collection_users",
			Help: "Number of registered users",
		},
	)

	// CollectionShoes is the number of shoe records across all users, refreshed on a schedule.
	CollectionShoes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "collection_shoes",
			Help: "Number of shoe records across all users",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, MutationsTotal, CollectionUsers, CollectionShoes)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /shoes/123 -> /shoes/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncMutation increments the mutation counter for the given operation (create, update, delete).
func IncMutation(op string) {
	MutationsTotal.WithLabelValues(op).Inc()
}

// SetCollectionSizes updates both collection gauges in one call, used by the stats refresher.
func SetCollectionSizes(users, shoes int) {
	CollectionUsers.Set(float64(users))
	CollectionShoes.Set(float64(shoes))
}
