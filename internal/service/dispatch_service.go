package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/metrics"
	"github.com/segyhp/loan-desk/internal/repository"
	customError "github.com/segyhp/loan-desk/pkg/errors"
)

// DispatchService routes contracts to couriers
type DispatchService struct {
	ContractRepo repository.ContractRepository
	DeliveryRepo repository.DeliveryRepository
	UserRepo     repository.UserRepository
	now          Clock
	logger       *slog.Logger
}

func NewDispatchService(repos *repository.Repositories, now Clock, logger *slog.Logger) *DispatchService {
	return &DispatchService{
		ContractRepo: repos.Contracts,
		DeliveryRepo: repos.Deliveries,
		UserRepo:     repos.Users,
		now:          now,
		logger:       logger,
	}
}

// Dispatch sends the contract to a courier. It appends an entry to the
// contract's send log and a pending delivery to the courier's queue.
func (s *DispatchService) Dispatch(ctx context.Context, contractID, motoboyEmail, dispatchedBy string) (domain.Delivery, error) {
	motoboyEmail = strings.ToLower(strings.TrimSpace(motoboyEmail))

	courier, err := s.UserRepo.GetByEmail(ctx, motoboyEmail)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return domain.Delivery{}, customError.WrapStorageError(err)
	}
	if courier == nil || courier.Role != domain.RoleMotoboy {
		return domain.Delivery{}, customError.WrapInvalidCourier(motoboyEmail)
	}

	c, err := s.ContractRepo.GetByID(ctx, contractID)
	if err != nil {
		return domain.Delivery{}, storageErr(err, func() *customError.BusinessError {
			return customError.WrapContractNotFound(contractID)
		})
	}

	now := s.now()
	delivery := domain.Delivery{
		ID:              uuid.NewString(),
		ContratoID:      c.ID,
		Motoboy:         courier.Email,
		ClienteNome:     c.Cliente.Nome,
		ClienteEndereco: c.Cliente.Endereco,
		ClienteCidade:   c.Cliente.Cidade,
		ClienteEstado:   c.Cliente.Estado,
		ClienteTelefone: c.Cliente.Telefone,
		Status:          domain.DeliveryStatusPending,
		CriadoPor:       dispatchedBy,
		CriadoEm:        now,
	}
	if err := s.DeliveryRepo.Create(ctx, &delivery); err != nil {
		return domain.Delivery{}, customError.WrapStorageError(err)
	}

	// the send log entry shares the delivery id; a failed append withdraws
	// the queued delivery
	entry := domain.ContractDispatch{
		ID:           delivery.ID,
		MotoboyEmail: courier.Email,
		EnviadoEm:    now,
	}
	if err := s.ContractRepo.AppendDispatch(ctx, c.ID, entry); err != nil {
		if derr := s.DeliveryRepo.Delete(ctx, delivery.ID); derr != nil {
			s.logger.Error("orphan delivery left in queue", "delivery", delivery.ID, "contract", c.ID, "error", derr)
		}
		return domain.Delivery{}, storageErr(err, func() *customError.BusinessError {
			return customError.WrapContractNotFound(contractID)
		})
	}

	metrics.Dispatches.WithLabelValues("sent").Inc()
	s.logger.Info("contract dispatched", "contract", c.ID, "delivery", delivery.ID, "motoboy", courier.Email, "by", dispatchedBy)

	return delivery, nil
}

// Pending returns the courier's open deliveries, oldest first
func (s *DispatchService) Pending(ctx context.Context, motoboyEmail string) ([]domain.Delivery, error) {
	deliveries, err := s.DeliveryRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	motoboyEmail = strings.TrimSpace(motoboyEmail)
	out := make([]domain.Delivery, 0)
	for _, d := range deliveries {
		if d.Status == domain.DeliveryStatusPending && strings.EqualFold(d.Motoboy, motoboyEmail) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CriadoEm.Before(out[j].CriadoEm)
	})
	return out, nil
}

// MarkDelivered closes a delivery. A delivered record is returned unchanged.
func (s *DispatchService) MarkDelivered(ctx context.Context, deliveryID string) (domain.Delivery, error) {
	d, changed, err := s.DeliveryRepo.MarkDelivered(ctx, deliveryID, s.now())
	if err != nil {
		return domain.Delivery{}, storageErr(err, func() *customError.BusinessError {
			return customError.WrapDeliveryNotFound(deliveryID)
		})
	}

	if changed {
		metrics.Dispatches.WithLabelValues("delivered").Inc()
		s.logger.Info("delivery completed", "delivery", d.ID, "contract", d.ContratoID, "motoboy", d.Motoboy)
	}

	return d, nil
}

// Couriers lists the users with the courier role
func (s *DispatchService) Couriers(ctx context.Context) ([]domain.User, error) {
	users, err := s.UserRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	out := make([]domain.User, 0)
	for _, u := range users {
		if u.Role == domain.RoleMotoboy {
			out = append(out, u.Public())
		}
	}
	return out, nil
}
