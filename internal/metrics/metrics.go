// Package metrics exposes Prometheus collectors for the HTTP surface and
// the contract portfolio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/segyhp/loan-desk/internal/status"
)

var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loandesk_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loandesk_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})

	// ContractsByStatus is refreshed after mutations and by the overdue sweep
	ContractsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "loandesk_contracts",
		Help: "Contracts by derived payment status",
	}, []string{"status"})

	ContractsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loandesk_contracts_created_total",
		Help: "Contracts persisted",
	})

	InstallmentsPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loandesk_installments_paid_total",
		Help: "Installments newly marked as paid",
	})

	Dispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loandesk_dispatches_total",
		Help: "Courier queue events",
	}, []string{"event"})
)

// SetStatusCounts replaces the per-status gauge values. States missing from
// counts are reset to zero.
func SetStatusCounts(counts map[status.State]int) {
	for _, s := range status.States {
		ContractsByStatus.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware counts and times requests by route template
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(rec, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		httpLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		httpReqTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.code)).Inc()
	})
}
