package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/service"
	customError "github.com/segyhp/loan-desk/pkg/errors"
	"github.com/segyhp/loan-desk/pkg/response"
)

type DispatchHandler struct {
	service   *service.DispatchService
	validator *validator.Validate
}

func NewDispatchHandler(service *service.DispatchService) *DispatchHandler {
	return &DispatchHandler{
		service:   service,
		validator: validator.New(),
	}
}

// DeliveryView adds the deep links a courier opens from the queue
type DeliveryView struct {
	domain.Delivery
	Endereco    string `json:"enderecoCompleto"`
	WhatsAppURL string `json:"whatsappUrl"`
	MapsURL     string `json:"mapsUrl"`
}

func view(d domain.Delivery) DeliveryView {
	return DeliveryView{
		Delivery:    d,
		Endereco:    d.FullAddress(),
		WhatsAppURL: d.WhatsAppURL(),
		MapsURL:     d.MapsURL(),
	}
}

// Dispatch handles POST /contracts/{id}/dispatch
func (h *DispatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req domain.DispatchRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.FromError(w, customError.WrapInvalidCourier(req.MotoboyEmail))
		return
	}

	delivery, err := h.service.Dispatch(r.Context(), mux.Vars(r)["id"], req.MotoboyEmail, actor(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, view(delivery))
}

// Couriers handles GET /couriers
func (h *DispatchHandler) Couriers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Couriers(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, users)
}

// Pending handles GET /deliveries?motoboy=; without the parameter the
// caller's own queue is returned
func (h *DispatchHandler) Pending(w http.ResponseWriter, r *http.Request) {
	motoboy := r.URL.Query().Get("motoboy")
	if motoboy == "" {
		motoboy = actor(r)
	}
	if motoboy == "" {
		response.BadRequest(w, "motoboy is required", nil)
		return
	}

	deliveries, err := h.service.Pending(r.Context(), motoboy)
	if err != nil {
		response.FromError(w, err)
		return
	}

	out := make([]DeliveryView, len(deliveries))
	for i, d := range deliveries {
		out[i] = view(d)
	}
	response.Success(w, out)
}

// MarkDelivered handles POST /deliveries/{id}/delivered
func (h *DispatchHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	delivery, err := h.service.MarkDelivered(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, view(delivery))
}
