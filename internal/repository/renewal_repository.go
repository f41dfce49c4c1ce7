package repository

import (
	"context"
	"log/slog"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/store"
)

type renewalRepository struct {
	col *Collection[domain.RenewalRequest]
}

func NewRenewalRepository(kv store.KV, logger *slog.Logger) RenewalRepository {
	return &renewalRepository{col: NewCollection[domain.RenewalRequest](kv, KeyRenewals, logger)}
}

func (r *renewalRepository) List(ctx context.Context) ([]domain.RenewalRequest, error) {
	return r.col.Load(ctx)
}

func (r *renewalRepository) Create(ctx context.Context, request *domain.RenewalRequest) error {
	return r.col.Update(ctx, func(requests []domain.RenewalRequest) ([]domain.RenewalRequest, error) {
		return append(requests, *request), nil
	})
}
