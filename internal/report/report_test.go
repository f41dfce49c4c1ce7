package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-desk/internal/domain"
)

func sampleContract() domain.Contract {
	return domain.Contract{
		ID:              "01JREPORT",
		Cliente:         domain.Client{Nome: "Ana <Souza>", CPF: "111", Cidade: "Recife", Estado: "PE"},
		ValorEmprestimo: decimal.NewFromInt(1000),
		Percentual:      decimal.NewFromInt(10),
		QuantParcelas:   3,
		TipoJuros:       domain.TipoJurosTotal,
		Parcelas: []domain.Installment{
			{Data: "2025-02-09", Valor: decimal.RequireFromString("366.67")},
			{Data: "2025-03-11", Valor: decimal.RequireFromString("366.67")},
			{Data: "2025-04-10", Valor: decimal.RequireFromString("366.67")},
		},
	}
}

func TestAnnotate(t *testing.T) {
	c := sampleContract()
	doc := Annotate(c, []int{0, 2, 2})

	require.Len(t, doc.Rows, MinRows)
	assert.True(t, doc.Rows[0].Paga)
	assert.False(t, doc.Rows[1].Paga)
	assert.True(t, doc.Rows[2].Paga)
	assert.True(t, doc.Rows[3].Vazia)
	assert.Equal(t, 4, doc.Rows[3].Numero)
	assert.Equal(t, "R$ 366.67", doc.Rows[1].Valor)

	assert.Equal(t, 2, doc.PaidCount)
	assert.Equal(t, 3, doc.TotalCount)
	assert.Equal(t, "R$ 1100.01", doc.Total)
	assert.Equal(t, "R$ 733.34", doc.Pago)
	assert.Equal(t, "R$ 1000.00", doc.Emprestado)
	assert.Equal(t, "Percentual sobre o valor total", doc.Tipo)

	doc.Contrato.Parcelas[0].Data = "changed"
	assert.Equal(t, "2025-02-09", c.Parcelas[0].Data)
}

func TestAnnotate_LongScheduleIsNotPadded(t *testing.T) {
	c := sampleContract()
	c.Parcelas = nil
	for i := 0; i < 12; i++ {
		c.Parcelas = append(c.Parcelas, domain.Installment{Data: "2025-01-01", Valor: decimal.NewFromInt(10)})
	}

	doc := Annotate(c, nil)
	assert.Len(t, doc.Rows, 12)
	for _, r := range doc.Rows {
		assert.False(t, r.Vazia)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Annotate(sampleContract(), []int{0})))

	html := buf.String()
	assert.Contains(t, html, "Ana &lt;Souza&gt;")
	assert.Equal(t, 1, strings.Count(html, "PAGA<"))
	assert.Equal(t, 2, strings.Count(html, "EM ABERTO"))
	assert.Contains(t, html, PenaltyNotice)
	assert.Equal(t, MinRows, strings.Count(html, "<tr")-1)
}
