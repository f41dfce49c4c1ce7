package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/store"
)

type deliveryRepository struct {
	col *Collection[domain.Delivery]
}

func NewDeliveryRepository(kv store.KV, logger *slog.Logger) DeliveryRepository {
	return &deliveryRepository{col: NewCollection[domain.Delivery](kv, KeyDeliveries, logger)}
}

func (r *deliveryRepository) List(ctx context.Context) ([]domain.Delivery, error) {
	return r.col.Load(ctx)
}

func (r *deliveryRepository) GetByID(ctx context.Context, id string) (*domain.Delivery, error) {
	return r.col.Find(ctx, func(d domain.Delivery) bool {
		return d.ID == id
	})
}

func (r *deliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	return r.col.Update(ctx, func(deliveries []domain.Delivery) ([]domain.Delivery, error) {
		return append(deliveries, *delivery), nil
	})
}

func (r *deliveryRepository) Delete(ctx context.Context, id string) error {
	return r.col.Update(ctx, func(deliveries []domain.Delivery) ([]domain.Delivery, error) {
		for i := range deliveries {
			if deliveries[i].ID == id {
				return append(deliveries[:i], deliveries[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *deliveryRepository) MarkDelivered(ctx context.Context, id string, at time.Time) (domain.Delivery, bool, error) {
	var (
		out     domain.Delivery
		changed bool
	)
	err := r.col.Update(ctx, func(deliveries []domain.Delivery) ([]domain.Delivery, error) {
		for i := range deliveries {
			if deliveries[i].ID != id {
				continue
			}
			if deliveries[i].Status == domain.DeliveryStatusDelivered {
				out = deliveries[i]
				return nil, errUnchanged
			}
			deliveries[i].Status = domain.DeliveryStatusDelivered
			deliveries[i].EntregueEm = &at
			out = deliveries[i]
			changed = true
			return deliveries, nil
		}
		return nil, ErrNotFound
	})
	return out, changed, err
}
