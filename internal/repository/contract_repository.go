package repository

import (
	"context"
	"log/slog"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/store"
)

type contractRepository struct {
	col *Collection[domain.Contract]
}

func NewContractRepository(kv store.KV, logger *slog.Logger) ContractRepository {
	return &contractRepository{col: NewCollection[domain.Contract](kv, KeyContracts, logger)}
}

func (r *contractRepository) List(ctx context.Context) ([]domain.Contract, error) {
	return r.col.Load(ctx)
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	return r.col.Find(ctx, func(c domain.Contract) bool {
		return c.ID == id
	})
}

func (r *contractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	return r.col.Update(ctx, func(contracts []domain.Contract) ([]domain.Contract, error) {
		return append(contracts, *contract), nil
	})
}

func (r *contractRepository) AppendDispatch(ctx context.Context, id string, dispatch domain.ContractDispatch) error {
	return r.col.Update(ctx, func(contracts []domain.Contract) ([]domain.Contract, error) {
		for i := range contracts {
			if contracts[i].ID == id {
				contracts[i].Envios = append(contracts[i].Envios, dispatch)
				return contracts, nil
			}
		}
		return nil, ErrNotFound
	})
}
