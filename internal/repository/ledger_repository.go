package repository

import (
	"context"
	"log/slog"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/store"
)

type ledgerRepository struct {
	col *Collection[domain.LedgerRecord]
}

func NewLedgerRepository(kv store.KV, logger *slog.Logger) LedgerRepository {
	return &ledgerRepository{col: NewCollection[domain.LedgerRecord](kv, KeyLedger, logger)}
}

func (r *ledgerRepository) List(ctx context.Context) ([]domain.LedgerRecord, error) {
	return r.col.Load(ctx)
}

func (r *ledgerRepository) Get(ctx context.Context, contratoID, cpf string) (*domain.LedgerRecord, error) {
	return r.col.Find(ctx, func(rec domain.LedgerRecord) bool {
		return rec.Matches(contratoID, cpf)
	})
}

func (r *ledgerRepository) Ensure(ctx context.Context, contratoID, cpf string, total int) (domain.LedgerRecord, error) {
	var out domain.LedgerRecord
	err := r.col.Update(ctx, func(records []domain.LedgerRecord) ([]domain.LedgerRecord, error) {
		i := indexOf(records, contratoID, cpf)
		if i < 0 {
			rec := domain.LedgerRecord{ContratoID: contratoID, CPF: cpf, ParcelasPagas: []int{}}
			rec.Refresh(total)
			out = rec
			return append(records, rec), nil
		}

		changed := records[i].Refresh(total)
		out = records[i]
		if !changed {
			return nil, errUnchanged
		}
		return records, nil
	})
	return out, err
}

func (r *ledgerRepository) MarkPaid(ctx context.Context, contratoID, cpf string, index, total int) (before, after domain.LedgerRecord, err error) {
	err = r.col.Update(ctx, func(records []domain.LedgerRecord) ([]domain.LedgerRecord, error) {
		i := indexOf(records, contratoID, cpf)
		if i < 0 {
			records = append(records, domain.LedgerRecord{ContratoID: contratoID, CPF: cpf, ParcelasPagas: []int{}})
			i = len(records) - 1
		}

		before = records[i]
		before.ParcelasPagas = append([]int{}, records[i].ParcelasPagas...)
		records[i].MarkPaid(index, total)
		after = records[i]
		return records, nil
	})
	return before, after, err
}

func indexOf(records []domain.LedgerRecord, contratoID, cpf string) int {
	for i := range records {
		if records[i].Matches(contratoID, cpf) {
			return i
		}
	}
	return -1
}
