package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/service"
	"github.com/segyhp/loan-desk/pkg/response"
)

type RenewalHandler struct {
	service *service.RenewalService
}

func NewRenewalHandler(service *service.RenewalService) *RenewalHandler {
	return &RenewalHandler{service: service}
}

// FindClient handles GET /clients/{cpf}
func (h *RenewalHandler) FindClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.service.FindClient(r.Context(), mux.Vars(r)["cpf"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, client)
}

// CreateRenewal handles POST /renewals
func (h *RenewalHandler) CreateRenewal(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRenewalRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	renewal, err := h.service.Request(r.Context(), &req, actor(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, renewal)
}

// Inbox handles GET /renewals?destino=
func (h *RenewalHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	destino := r.URL.Query().Get("destino")
	if destino == "" {
		destino = actor(r)
	}
	if destino == "" {
		response.BadRequest(w, "destino is required", nil)
		return
	}

	requests, err := h.service.Inbox(r.Context(), destino)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, requests)
}
