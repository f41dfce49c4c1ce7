package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/query"
	"github.com/segyhp/loan-desk/internal/report"
	"github.com/segyhp/loan-desk/internal/schedule"
	"github.com/segyhp/loan-desk/internal/service"
	"github.com/segyhp/loan-desk/internal/status"
	customError "github.com/segyhp/loan-desk/pkg/errors"
	"github.com/segyhp/loan-desk/pkg/response"
	"github.com/segyhp/loan-desk/pkg/utils"
)

type ContractHandler struct {
	contracts *service.ContractService
	payments  *service.PaymentService
	loc       *time.Location
	now       service.Clock
}

func NewContractHandler(contracts *service.ContractService, payments *service.PaymentService, loc *time.Location, now service.Clock) *ContractHandler {
	return &ContractHandler{
		contracts: contracts,
		payments:  payments,
		loc:       loc,
		now:       now,
	}
}

type FiltersResponse struct {
	Cidades []string       `json:"cidades"`
	Estados []string       `json:"estados"`
	Status  []status.State `json:"status"`
}

// CreateContract handles POST /contracts
func (h *ContractHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContractRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	contract, err := h.contracts.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, contract)
}

// ListContracts handles GET /contracts with q, cidade, estado and status filters
func (h *ContractHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	f := query.Filters{
		Termo:   r.URL.Query().Get("q"),
		Cidades: multi(r, "cidade"),
		Estados: multi(r, "estado"),
	}
	for _, s := range multi(r, "status") {
		st := status.State(s)
		if !st.Valid() {
			response.BadRequest(w, "Unknown status filter", nil)
			return
		}
		f.Statuses = append(f.Statuses, st)
	}

	groups, err := h.payments.Grouped(r.Context(), f)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, groups)
}

// Filters handles GET /contracts/filters
func (h *ContractHandler) Filters(w http.ResponseWriter, r *http.Request) {
	cities, states, err := h.contracts.Filters(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, FiltersResponse{Cidades: cities, Estados: states, Status: status.States})
}

// GetContract handles GET /contracts/{id}
func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	contract, err := h.contracts.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, contract)
}

// History handles GET /clients/{cpf}/contracts
func (h *ContractHandler) History(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.contracts.HistoryByCPF(r.Context(), mux.Vars(r)["cpf"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, contracts)
}

// Status handles GET /contracts/{id}/status
func (h *ContractHandler) Status(w http.ResponseWriter, r *http.Request) {
	res, err := h.payments.Status(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, res)
}

// PreviewPayment handles GET /contracts/{id}/installments/{index}/preview
func (h *ContractHandler) PreviewPayment(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		response.BadRequest(w, "Invalid installment index", err)
		return
	}

	decision, err := h.payments.PreviewPayment(r.Context(), mux.Vars(r)["id"], index)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, decision)
}

// MarkPaid handles POST /contracts/{id}/installments/{index}/pay. The body
// must carry {"confirm": true}.
func (h *ContractHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		response.BadRequest(w, "Invalid installment index", err)
		return
	}

	var req domain.MarkPaidRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if !req.Confirm {
		response.FromError(w, customError.WrapNotConfirmed())
		return
	}

	res, err := h.payments.MarkPaid(r.Context(), mux.Vars(r)["id"], index)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, res)
}

// Report handles GET /contracts/{id}/report and answers printable HTML
func (h *ContractHandler) Report(w http.ResponseWriter, r *http.Request) {
	doc, err := h.payments.Report(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeHTML(w, func(out io.Writer) error {
		return report.Render(out, doc)
	})
}

// PreviewSchedule handles POST /schedule/preview. Nothing is persisted.
func (h *ContractHandler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	var req domain.SchedulePreviewRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	terms := schedule.Request{
		Valor:         req.ValorEmprestimo,
		Percentual:    req.Percentual,
		QuantParcelas: req.QuantParcelas,
		DiasJuros:     req.DiasJuros,
		TipoJuros:     req.TipoJuros,
	}
	if terms.TipoJuros == "" {
		terms.TipoJuros = domain.TipoJurosTotal
	}
	if terms.TipoJuros == domain.TipoJurosDiarioTotal && terms.QuantParcelas <= 0 {
		terms.QuantParcelas = terms.DiasJuros
	}

	parcelas, err := schedule.Generate(terms, h.now().In(h.loc))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.ScheduleResponse{
		Parcelas: parcelas,
		Total:    utils.RoundMoney(schedule.Total(parcelas)).StringFixed(2),
	})
}
