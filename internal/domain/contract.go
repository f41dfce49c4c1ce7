package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Interest accrual policies
const (
	TipoJurosTotal       = "total"
	TipoJurosMensal      = "mensal"
	TipoJurosDiarioTotal = "diario_total"
	TipoJurosDiarioProp  = "diario_prop"
)

// IsDaily reports whether the policy is driven by the contract duration in days
func IsDaily(tipoJuros string) bool {
	return tipoJuros == TipoJurosDiarioTotal || tipoJuros == TipoJurosDiarioProp
}

// Contract represents a loan contract with its client embedded.
// Everything except Envios is fixed once the contract is persisted.
type Contract struct {
	ID              string             `json:"id"`
	Cliente         Client             `json:"cliente"`
	ValorEmprestimo decimal.Decimal    `json:"valorEmprestimo"`
	Percentual      decimal.Decimal    `json:"percentual"`
	QuantParcelas   int                `json:"quantParcelas"`
	TipoJuros       string             `json:"tipoJuros"`
	DiasJuros       int                `json:"diasJuros,omitempty"`
	Parcelas        []Installment      `json:"parcelas"`
	Documentos      []Document         `json:"documentos"`
	Envios          []ContractDispatch `json:"envios"`
	CriadoEm        time.Time          `json:"criadoEm"`
}

// Document is the metadata captured for an attachment; contents are never stored
type Document struct {
	Nome    string `json:"nome" validate:"required"`
	Tipo    string `json:"tipo"`
	Tamanho int64  `json:"tamanho" validate:"gte=0"`
}

// ContractDispatch is one entry of a contract's append-only send log
type ContractDispatch struct {
	ID           string    `json:"id"`
	MotoboyEmail string    `json:"motoboyEmail"`
	EnviadoEm    time.Time `json:"enviadoEm"`
}

// DTOs for requests and responses

type CreateContractRequest struct {
	Cliente         ClientInput     `json:"cliente"`
	ValorEmprestimo decimal.Decimal `json:"valorEmprestimo" validate:"gt=0"`
	Percentual      decimal.Decimal `json:"percentual" validate:"gt=0"`
	QuantParcelas   int             `json:"quantParcelas"`
	TipoJuros       string          `json:"tipoJuros"`
	DiasJuros       int             `json:"diasJuros"`
	Parcelas        []Installment   `json:"parcelas"`
	Documentos      []Document      `json:"documentos" validate:"dive"`
}

// ClientInput carries the client fields typed on the contract form
type ClientInput struct {
	Nome     string `json:"nome" validate:"required"`
	CPF      string `json:"cpf"`
	RG       string `json:"rg"`
	Telefone string `json:"telefone"`
	Endereco string `json:"endereco"`
	Cidade   string `json:"cidade"`
	Estado   string `json:"estado"`
}

// Clone returns a deep copy so callers can annotate it without touching the stored contract
func (c Contract) Clone() Contract {
	out := c
	out.Parcelas = append([]Installment(nil), c.Parcelas...)
	out.Documentos = append([]Document(nil), c.Documentos...)
	out.Envios = append([]ContractDispatch(nil), c.Envios...)
	return out
}
