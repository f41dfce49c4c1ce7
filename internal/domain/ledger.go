package domain

import "sort"

// LedgerRecord tracks which installments of a contract have been paid.
// There is one record per (contract, cpf) pair.
type LedgerRecord struct {
	ContratoID    string `json:"contratoId"`
	CPF           string `json:"cpf"`
	ParcelasPagas []int  `json:"parcelasPagas"`
	Concluido     bool   `json:"concluido"`
}

// Matches reports whether the record belongs to the contract+client identity
func (r LedgerRecord) Matches(contratoID, cpf string) bool {
	return r.ContratoID == contratoID && r.CPF == cpf
}

// IsPaid reports whether index is in the paid set
func (r LedgerRecord) IsPaid(index int) bool {
	for _, i := range r.ParcelasPagas {
		if i == index {
			return true
		}
	}
	return false
}

// MarkPaid adds index to the paid set, keeps it sorted and refreshes the
// Concluido cache. It returns false when index was already paid.
func (r *LedgerRecord) MarkPaid(index, total int) bool {
	added := false
	if !r.IsPaid(index) {
		r.ParcelasPagas = append(r.ParcelasPagas, index)
		sort.Ints(r.ParcelasPagas)
		added = true
	}
	r.Refresh(total)
	return added
}

// Refresh recomputes the Concluido cache from the paid set
func (r *LedgerRecord) Refresh(total int) bool {
	concluido := len(r.ParcelasPagas) >= total
	changed := concluido != r.Concluido
	r.Concluido = concluido
	return changed
}

type MarkPaidRequest struct {
	Confirm bool `json:"confirm"`
}
