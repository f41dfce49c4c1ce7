package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for installment due dates
const DateLayout = "2006-01-02"

// Installment is one due-dated repayment slice. Its position in
// Contract.Parcelas is the key used by the payment ledger.
type Installment struct {
	Data  string          `json:"data"`
	Valor decimal.Decimal `json:"valor"`
}

// DueDate parses Data as a calendar date in loc
func (i Installment) DueDate(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, i.Data, loc)
}

// IsFilled reports whether a manually typed row has both a date and a non-zero amount
func (i Installment) IsFilled() bool {
	return i.Data != "" && !i.Valor.IsZero()
}

type SchedulePreviewRequest struct {
	ValorEmprestimo decimal.Decimal `json:"valorEmprestimo"`
	Percentual      decimal.Decimal `json:"percentual"`
	QuantParcelas   int             `json:"quantParcelas"`
	TipoJuros       string          `json:"tipoJuros"`
	DiasJuros       int             `json:"diasJuros"`
}

type ScheduleResponse struct {
	ContractID string        `json:"contratoId,omitempty"`
	Parcelas   []Installment `json:"parcelas"`
	Total      string        `json:"total"`
}
