// Package report builds the printable contract sheet with each installment
// marked paid or unpaid.
package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/schedule"
	"github.com/segyhp/loan-desk/pkg/utils"
)

// MinRows is the number of table lines printed even for short schedules
const MinRows = 10

// PenaltyNotice is printed under the installment table
const PenaltyNotice = "Segunda a sexta, multa de R$ 100,00. Terça, quarta e quinta, multa de R$ 40,00. Nos feriados, multa de R$ 200,00."

type Row struct {
	Numero int    `json:"numero"`
	Data   string `json:"data"`
	Valor  string `json:"valor"`
	Paga   bool   `json:"paga"`
	Vazia  bool   `json:"vazia"`
}

// Document is a payment-annotated copy of a contract
type Document struct {
	Contrato    domain.Contract `json:"contrato"`
	Tipo        string          `json:"tipo"`
	Emprestado  string          `json:"emprestado"`
	Total       string          `json:"total"`
	Pago        string          `json:"pago"`
	Rows        []Row           `json:"linhas"`
	PaidCount   int             `json:"qtdPagas"`
	TotalCount  int             `json:"totalParcelas"`
	Penalidades string          `json:"penalidades"`
}

// Annotate marks each installment of a clone of c as paid or not. Rows are
// padded with blank lines up to MinRows.
func Annotate(c domain.Contract, paid []int) Document {
	c = c.Clone()

	paidSet := make(map[int]struct{}, len(paid))
	for _, i := range paid {
		paidSet[i] = struct{}{}
	}

	doc := Document{
		Contrato:    c,
		Tipo:        schedule.PolicyLabel(c.TipoJuros, c.Percentual, c.DiasJuros),
		Emprestado:  utils.FormatMoney(c.ValorEmprestimo),
		Total:       utils.FormatMoney(schedule.Total(c.Parcelas)),
		TotalCount:  len(c.Parcelas),
		Penalidades: PenaltyNotice,
	}

	n := max(MinRows, len(c.Parcelas))
	doc.Rows = make([]Row, n)
	pago := decimal.Zero

	for i := 0; i < n; i++ {
		doc.Rows[i].Numero = i + 1
		if i >= len(c.Parcelas) {
			doc.Rows[i].Vazia = true
			continue
		}

		p := c.Parcelas[i]
		_, isPaid := paidSet[i]
		doc.Rows[i].Data = p.Data
		doc.Rows[i].Valor = utils.FormatMoney(p.Valor)
		doc.Rows[i].Paga = isPaid
		if isPaid {
			doc.PaidCount++
			pago = pago.Add(p.Valor)
		}
	}

	doc.Pago = utils.FormatMoney(pago)
	return doc
}

var sheet = template.Must(template.New("contrato").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Contrato {{.Contrato.ID}}</title>
<style>
@page { size: A4; margin: 20mm; }
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 6px; font-size: 13px; }
th { background: #eee; }
tr.paga td { background: #e6f4ea; }
.multa { margin-top: 16px; font-size: 12px; }
.assinatura { margin-top: 80px; text-align: center; page-break-inside: avoid; }
.linha { width: 260px; height: 40px; margin: 0 auto 8px auto; border-bottom: 1px solid #111; }
</style>
</head>
<body>
<h2>Contrato de Empréstimo</h2>
{{with .Contrato.Cliente}}
<p><strong>Cliente:</strong> {{.Nome}}</p>
<p><strong>CPF:</strong> {{.CPF}} <strong>RG:</strong> {{.RG}}</p>
<p><strong>Endereço:</strong> {{.Endereco}}, {{.Cidade}}/{{.Estado}}</p>
{{end}}
<p><strong>Valor emprestado:</strong> {{.Emprestado}}</p>
<p><strong>Percentual:</strong> {{.Contrato.Percentual}}% <strong>Tipo:</strong> {{.Tipo}}</p>
<h3>Parcelas ({{.PaidCount}}/{{.TotalCount}} pagas)</h3>
<table>
<thead><tr><th>#</th><th>Data</th><th>Valor</th><th>Situação</th></tr></thead>
<tbody>
{{range .Rows}}<tr{{if .Paga}} class="paga"{{end}}><td>{{.Numero}}</td><td>{{.Data}}</td><td>{{.Valor}}</td><td>{{if .Vazia}}{{else if .Paga}}PAGA{{else}}EM ABERTO{{end}}</td></tr>
{{end}}</tbody>
</table>
<p><strong>Total:</strong> {{.Total}} <strong>Pago:</strong> {{.Pago}}</p>
<p class="multa">{{.Penalidades}}</p>
<div class="assinatura"><div class="linha"></div><div>{{.Contrato.Cliente.Nome}}</div></div>
</body>
</html>
`))

// Render writes doc as a printable HTML page
func Render(w io.Writer, doc Document) error {
	if err := sheet.Execute(w, doc); err != nil {
		return fmt.Errorf("render contract %s: %w", doc.Contrato.ID, err)
	}
	return nil
}
