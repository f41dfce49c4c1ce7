package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/segyhp/loan-desk/internal/metrics"
	"github.com/segyhp/loan-desk/pkg/response"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Contracts *ContractHandler
	Dispatch  *DispatchHandler
	Renewals  *RenewalHandler
	Health    *HealthHandler
}

// NewRouter mounts the API under /api/v1 plus health and metrics endpoints
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(metrics.Middleware)
	router.Use(response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", h.Health.Health).Methods("GET")
	router.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/contracts", h.Contracts.CreateContract).Methods("POST")
	api.HandleFunc("/contracts", h.Contracts.ListContracts).Methods("GET")
	api.HandleFunc("/contracts/filters", h.Contracts.Filters).Methods("GET")
	api.HandleFunc("/contracts/{id}", h.Contracts.GetContract).Methods("GET")
	api.HandleFunc("/contracts/{id}/status", h.Contracts.Status).Methods("GET")
	api.HandleFunc("/contracts/{id}/installments/{index}/preview", h.Contracts.PreviewPayment).Methods("GET")
	api.HandleFunc("/contracts/{id}/installments/{index}/pay", h.Contracts.MarkPaid).Methods("POST")
	api.HandleFunc("/contracts/{id}/report", h.Contracts.Report).Methods("GET")
	api.HandleFunc("/contracts/{id}/dispatch", h.Dispatch.Dispatch).Methods("POST")
	api.HandleFunc("/schedule/preview", h.Contracts.PreviewSchedule).Methods("POST")

	api.HandleFunc("/clients/{cpf}", h.Renewals.FindClient).Methods("GET")
	api.HandleFunc("/clients/{cpf}/contracts", h.Contracts.History).Methods("GET")

	api.HandleFunc("/couriers", h.Dispatch.Couriers).Methods("GET")
	api.HandleFunc("/deliveries", h.Dispatch.Pending).Methods("GET")
	api.HandleFunc("/deliveries/{id}/delivered", h.Dispatch.MarkDelivered).Methods("POST")

	api.HandleFunc("/renewals", h.Renewals.CreateRenewal).Methods("POST")
	api.HandleFunc("/renewals", h.Renewals.Inbox).Methods("GET")

	return response.CORS(router)
}
