// Package metrics provides Prometheus instrumentation for shopdesk.
//
// Wire it once in internal/kernel:
//
//	r.Use(metrics.Middleware())
//	r.HandleFunc("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopdesk"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"operation", "table"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total cache hits.",
		},
		[]string{"driver"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total cache misses.",
		},
		[]string{"driver"},
	)

	SalesPosted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sales",
			Name:      "posted_total",
			Help:      "Sales committed, by payment method.",
		},
		[]string{"payment_method"},
	)

	// SaleRevenue sums committed sale totals. Float precision is fine for a
	// dashboard; the ledger itself stays decimal.
	SaleRevenue = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sales",
		Name:      "revenue_total",
		Help:      "Sum of committed sale totals.",
	})

	SalePostingFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sales",
			Name:      "posting_failures_total",
			Help:      "Sale postings rolled back, by reason.",
		},
		[]string{"reason"},
	)

	LiveFeedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ws",
		Name:      "clients",
		Help:      "Connected live sale feed clients.",
	})

	TokensPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "tokens_pruned_total",
		Help:      "Expired or revoked access tokens deleted by the pruner.",
	})
)

// DefaultRegistry holds every shopdesk collector.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		DBQueryDuration,
		CacheHits,
		CacheMisses,
		SalesPosted,
		SaleRevenue,
		SalePostingFailures,
		LiveFeedClients,
		TokensPruned,
	)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Middleware records duration, count and in-flight requests. Requests are
// labelled by chi route pattern, not raw path, to keep cardinality bounded.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := strconv.Itoa(rr.status)

			RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, route, status).Inc()
		})
	}
}

// Handler exposes DefaultRegistry in Prometheus text and OpenMetrics format.
func Handler() http.HandlerFunc {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}).ServeHTTP
}
