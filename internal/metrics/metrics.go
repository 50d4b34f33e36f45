package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/user-api/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Domain metrics

	UsersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "userapi",
		Name:      "users_created_total",
		Help:      "Total users created.",
	})

	UserStatusChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userapi",
		Name:      "user_status_changes_total",
		Help:      "Total activate/inactivate transitions applied.",
	}, []string{"status"})

	AuthAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userapi",
		Name:      "auth_attempts_total",
		Help:      "Authentication attempts, by outcome.",
	}, []string{"outcome"})

	EmailsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userapi",
		Name:      "emails_sent_total",
		Help:      "Emails handed to the sender, by outcome.",
	}, []string{"outcome"})

	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userapi",
		Name:      "cache_lookups_total",
		Help:      "User cache lookups, by result.",
	}, []string{"result"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "userapi",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userapi",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		UsersCreatedTotal,
		UserStatusChangesTotal,
		AuthAttemptsTotal,
		EmailsSentTotal,
		CacheLookupsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer exposes /metrics, /healthz and /readyz on a separate port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	status := http.StatusOK
	if result.Status != "up" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
