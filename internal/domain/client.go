package domain

import "strings"

// Client is identified by CPF, which is free text and never check-digit validated
type Client struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	CPF      string `json:"cpf"`
	RG       string `json:"rg"`
	Telefone string `json:"telefone"`
	Endereco string `json:"endereco"`
	Cidade   string `json:"cidade"`
	Estado   string `json:"estado"`
}

// MatchesCPF reports whether the client has the given cpf. A blank cpf never matches.
func (c Client) MatchesCPF(cpf string) bool {
	cpf = strings.TrimSpace(cpf)
	return cpf != "" && strings.TrimSpace(c.CPF) == cpf
}

func (in ClientInput) Trimmed() ClientInput {
	return ClientInput{
		Nome:     strings.TrimSpace(in.Nome),
		CPF:      strings.TrimSpace(in.CPF),
		RG:       strings.TrimSpace(in.RG),
		Telefone: strings.TrimSpace(in.Telefone),
		Endereco: strings.TrimSpace(in.Endereco),
		Cidade:   strings.TrimSpace(in.Cidade),
		Estado:   strings.TrimSpace(in.Estado),
	}
}
