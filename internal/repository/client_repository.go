package repository

import (
	"context"
	"log/slog"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/store"
)

type clientRepository struct {
	col *Collection[domain.Client]
}

func NewClientRepository(kv store.KV, logger *slog.Logger) ClientRepository {
	return &clientRepository{col: NewCollection[domain.Client](kv, KeyClients, logger)}
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	return r.col.Load(ctx)
}

func (r *clientRepository) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	return r.col.Find(ctx, func(c domain.Client) bool {
		return c.MatchesCPF(cpf)
	})
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.col.Update(ctx, func(clients []domain.Client) ([]domain.Client, error) {
		return append(clients, *client), nil
	})
}
