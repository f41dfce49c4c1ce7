package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/segyhp/loan-desk/internal/store"
	"github.com/segyhp/loan-desk/pkg/response"
)

type HealthHandler struct {
	kv      store.KV
	driver  string
	timeout time.Duration
}

func NewHealthHandler(kv store.KV, driver string, timeout time.Duration) *HealthHandler {
	return &HealthHandler{
		kv:      kv,
		driver:  driver,
		timeout: timeout,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready performs readiness check including record store connectivity
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.kv.Ping(ctx); err != nil {
		status.Status = "error"
		status.Checks[h.driver] = "failed: " + err.Error()
	} else {
		status.Checks[h.driver] = "ok"
	}

	if status.Status == "error" {
		response.JSON(w, http.StatusServiceUnavailable, status)
		return
	}

	response.Success(w, status)
}
