// Package schedule turns loan terms into a due-dated installment list.
//
// Policies:
//
//	total        (valor * (1 + p/100)) / n, due every 30 days
//	mensal       (valor / n) * (1 + p/100), due every 30 days
//	diario_total (valor * (1 + p/100)) / dias, one installment per day for dias days
//	diario_prop  (valor * (1 + p/100 * dias)) / n, first due after dias days, then every 30
//
// Amounts are computed in full precision and rounded to cents only on output.
package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-desk/internal/domain"
	customError "github.com/segyhp/loan-desk/pkg/errors"
	"github.com/segyhp/loan-desk/pkg/utils"
)

// MonthDays is the spacing between installments of count-based policies
const MonthDays = 30

// Request holds the loan terms the schedule depends on
type Request struct {
	Valor         decimal.Decimal
	Percentual    decimal.Decimal
	QuantParcelas int
	DiasJuros     int
	TipoJuros     string
}

// Count returns how many installments the policy produces
func (r Request) Count() int {
	if r.TipoJuros == domain.TipoJurosDiarioTotal {
		return r.DiasJuros
	}
	return r.QuantParcelas
}

// Validate checks the inputs the policy needs
func (r Request) Validate() error {
	if !r.Valor.IsPositive() {
		return customError.WrapMissingBaseFields(fmt.Errorf("valor must be greater than zero"))
	}

	switch r.TipoJuros {
	case domain.TipoJurosTotal, domain.TipoJurosMensal:
		if r.QuantParcelas <= 0 {
			return customError.WrapMissingCount()
		}
	case domain.TipoJurosDiarioTotal:
		if r.DiasJuros <= 0 {
			return customError.WrapMissingDuration()
		}
	case domain.TipoJurosDiarioProp:
		if r.DiasJuros <= 0 {
			return customError.WrapMissingDuration()
		}
		if r.QuantParcelas <= 0 {
			return customError.WrapMissingCount()
		}
	default:
		return customError.WrapInvalidPolicy(r.TipoJuros)
	}
	return nil
}

// Generate builds the installment list starting from today's calendar date
func Generate(r Request, today time.Time) ([]domain.Installment, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	count := r.Count()
	amount := utils.RoundMoney(installmentAmount(r, count))
	start := utils.StartOfDay(today)

	parcelas := make([]domain.Installment, 0, count)
	for i := 0; i < count; i++ {
		due := utils.AddDays(start, dueOffset(r, i))
		parcelas = append(parcelas, domain.Installment{
			Data:  due.Format(domain.DateLayout),
			Valor: amount,
		})
	}

	return parcelas, nil
}

func installmentAmount(r Request, count int) decimal.Decimal {
	n := decimal.NewFromInt(int64(count))

	switch r.TipoJuros {
	case domain.TipoJurosMensal:
		// rate applies to each installment, not to the aggregate
		base := r.Valor.Div(n)
		return base.Mul(utils.RateFactor(r.Percentual))
	case domain.TipoJurosDiarioProp:
		rate := r.Percentual.Div(utils.Hundred).Mul(decimal.NewFromInt(int64(r.DiasJuros)))
		total := r.Valor.Mul(decimal.NewFromInt(1).Add(rate))
		return total.Div(n)
	default:
		// total and diario_total
		return r.Valor.Mul(utils.RateFactor(r.Percentual)).Div(n)
	}
}

func dueOffset(r Request, i int) int {
	switch r.TipoJuros {
	case domain.TipoJurosDiarioTotal:
		return i + 1
	case domain.TipoJurosDiarioProp:
		return r.DiasJuros + MonthDays*i
	default:
		return MonthDays * (i + 1)
	}
}

// Resolve returns the manually typed rows when any are filled, otherwise
// generates the schedule as a fallback
func Resolve(manual []domain.Installment, r Request, today time.Time) ([]domain.Installment, error) {
	filled := make([]domain.Installment, 0, len(manual))
	for _, p := range manual {
		if p.IsFilled() {
			filled = append(filled, domain.Installment{
				Data:  p.Data,
				Valor: utils.RoundMoney(p.Valor),
			})
		}
	}
	if len(filled) > 0 {
		return filled, nil
	}
	return Generate(r, today)
}

// Total sums the installment amounts
func Total(parcelas []domain.Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range parcelas {
		sum = sum.Add(p.Valor)
	}
	return sum
}

// PolicyLabel describes the policy for printed documents
func PolicyLabel(tipoJuros string, percentual decimal.Decimal, diasJuros int) string {
	switch tipoJuros {
	case domain.TipoJurosTotal:
		return "Percentual sobre o valor total"
	case domain.TipoJurosMensal:
		return "Percentual mensal por parcela"
	case domain.TipoJurosDiarioTotal:
		return fmt.Sprintf("Contrato em dias: %s%% sobre o valor total em %d dias", percentual.String(), diasJuros)
	case domain.TipoJurosDiarioProp:
		return fmt.Sprintf("Contrato em dias: %s%% ao dia por %d dias", percentual.String(), diasJuros)
	default:
		return ""
	}
}
