package schedule

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/pkg/utils"
)

// TestTotalPolicySum verifies sum(installments) stays within one cent per
// installment of valor * (1 + p/100).
func TestTotalPolicySum(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("total policy sums to principal plus interest", prop.ForAll(
		func(valorCents int64, percentual int, qtd int) bool {
			valor := decimal.New(valorCents, -2)
			parcelas, err := Generate(Request{
				Valor:         valor,
				Percentual:    decimal.NewFromInt(int64(percentual)),
				QuantParcelas: qtd,
				TipoJuros:     domain.TipoJurosTotal,
			}, today)
			if err != nil || len(parcelas) != qtd {
				return false
			}

			expected := valor.Mul(utils.RateFactor(decimal.NewFromInt(int64(percentual))))
			tolerance := decimal.New(int64(qtd), -2)
			return Total(parcelas).Sub(expected).Abs().LessThanOrEqual(tolerance)
		},
		gen.Int64Range(1, 100_000_000),
		gen.IntRange(0, 300),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}

// TestDailyTotalShape verifies diario_total always yields diasJuros
// installments on consecutive calendar days.
func TestDailyTotalShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("one installment per consecutive day", prop.ForAll(
		func(dias int, qtd int) bool {
			parcelas, err := Generate(Request{
				Valor:         decimal.NewFromInt(1000),
				Percentual:    decimal.NewFromInt(5),
				QuantParcelas: qtd,
				DiasJuros:     dias,
				TipoJuros:     domain.TipoJurosDiarioTotal,
			}, today)
			if err != nil || len(parcelas) != dias {
				return false
			}

			prev := utils.StartOfDay(today)
			for _, p := range parcelas {
				d, err := p.DueDate(today.Location())
				if err != nil || !d.Equal(utils.AddDays(prev, 1)) {
					return false
				}
				prev = d
			}
			return true
		},
		gen.IntRange(1, 120),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}
