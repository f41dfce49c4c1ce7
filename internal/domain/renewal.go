package domain

import "time"

const (
	RenewalStatusPending  = "pendente"
	RenewalStatusAnswered = "atendido"
)

// RenewalRequest is a state-tagged hand-off asking an employee to renew a client's contract
type RenewalRequest struct {
	ID                 string     `json:"id"`
	Cliente            Client     `json:"cliente"`
	Anexos             []Document `json:"anexos"`
	FuncionarioDestino string     `json:"funcionarioDestino"`
	CriadoPor          string     `json:"criadoPor"`
	CriadoEm           time.Time  `json:"criadoEm"`
	Status             string     `json:"status"`
}

type CreateRenewalRequest struct {
	CPF                string     `json:"cpf" validate:"required"`
	Anexos             []Document `json:"anexos" validate:"dive"`
	FuncionarioDestino string     `json:"funcionarioDestino" validate:"required,email"`
}
