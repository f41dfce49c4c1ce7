package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/repository"
	customError "github.com/segyhp/loan-desk/pkg/errors"
)

// RenewalService hands a client's renewal over to another employee
type RenewalService struct {
	ClientRepo  repository.ClientRepository
	RenewalRepo repository.RenewalRepository
	UserRepo    repository.UserRepository
	validator   *validator.Validate
	now         Clock
	logger      *slog.Logger
}

func NewRenewalService(repos *repository.Repositories, now Clock, logger *slog.Logger) *RenewalService {
	return &RenewalService{
		ClientRepo:  repos.Clients,
		RenewalRepo: repos.Renewals,
		UserRepo:    repos.Users,
		validator:   NewValidator(),
		now:         now,
		logger:      logger,
	}
}

// FindClient looks the client up by cpf
func (s *RenewalService) FindClient(ctx context.Context, cpf string) (domain.Client, error) {
	cpf = strings.TrimSpace(cpf)
	c, err := s.ClientRepo.GetByCPF(ctx, cpf)
	if err != nil {
		return domain.Client{}, storageErr(err, func() *customError.BusinessError {
			return customError.WrapClientNotFound(cpf)
		})
	}
	return *c, nil
}

// Request stores a pending renewal addressed to a non-courier employee
func (s *RenewalService) Request(ctx context.Context, request *domain.CreateRenewalRequest, criadoPor string) (domain.RenewalRequest, error) {
	if err := validationErr(s.validator.Struct(request)); err != nil {
		return domain.RenewalRequest{}, err
	}

	client, err := s.FindClient(ctx, request.CPF)
	if err != nil {
		return domain.RenewalRequest{}, err
	}

	destino := strings.TrimSpace(request.FuncionarioDestino)
	user, err := s.UserRepo.GetByEmail(ctx, destino)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return domain.RenewalRequest{}, customError.WrapStorageError(err)
	}
	if user == nil || user.Role == domain.RoleMotoboy {
		return domain.RenewalRequest{}, customError.WrapInvalidRecipient(destino)
	}

	renewal := domain.RenewalRequest{
		ID:                 uuid.NewString(),
		Cliente:            client,
		Anexos:             append([]domain.Document{}, request.Anexos...),
		FuncionarioDestino: user.Email,
		CriadoPor:          criadoPor,
		CriadoEm:           s.now(),
		Status:             domain.RenewalStatusPending,
	}
	if err := s.RenewalRepo.Create(ctx, &renewal); err != nil {
		return domain.RenewalRequest{}, customError.WrapStorageError(err)
	}

	s.logger.Info("renewal requested", "renewal", renewal.ID, "cpf", client.CPF, "to", user.Email, "by", criadoPor)
	return renewal, nil
}

// Inbox returns the pending requests addressed to email, oldest first
func (s *RenewalService) Inbox(ctx context.Context, email string) ([]domain.RenewalRequest, error) {
	all, err := s.RenewalRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	email = strings.TrimSpace(email)
	out := make([]domain.RenewalRequest, 0)
	for _, r := range all {
		if r.Status == domain.RenewalStatusPending && strings.EqualFold(r.FuncionarioDestino, email) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CriadoEm.Before(out[j].CriadoEm)
	})
	return out, nil
}
