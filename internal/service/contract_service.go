package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/metrics"
	"github.com/segyhp/loan-desk/internal/query"
	"github.com/segyhp/loan-desk/internal/repository"
	"github.com/segyhp/loan-desk/internal/schedule"
	"github.com/segyhp/loan-desk/internal/store"
	customError "github.com/segyhp/loan-desk/pkg/errors"
)

type ContractService struct {
	ClientRepo   repository.ClientRepository
	ContractRepo repository.ContractRepository
	kv           store.KV
	validator    *validator.Validate
	loc          *time.Location
	now          Clock
	notifier     Notifier
	logger       *slog.Logger
}

func NewContractService(
	repos *repository.Repositories,
	kv store.KV,
	loc *time.Location,
	now Clock,
	logger *slog.Logger,
) *ContractService {
	return &ContractService{
		ClientRepo:   repos.Clients,
		ContractRepo: repos.Contracts,
		kv:           kv,
		validator:    NewValidator(),
		loc:          loc,
		now:          now,
		notifier:     noopNotifier{},
		logger:       logger,
	}
}

// OnChange registers n to be triggered after every persisted contract
func (s *ContractService) OnChange(n Notifier) {
	s.notifier = n
}

// Create validates the form, resolves the installments and the client,
// and persists a new contract. No ledger record is created here.
func (s *ContractService) Create(ctx context.Context, request *domain.CreateContractRequest) (domain.Contract, error) {
	request.Cliente = request.Cliente.Trimmed()
	if err := validationErr(s.validator.Struct(request)); err != nil {
		return domain.Contract{}, err
	}

	tipo := request.TipoJuros
	if tipo == "" {
		tipo = domain.TipoJurosTotal
	}

	count := request.QuantParcelas
	if tipo == domain.TipoJurosDiarioTotal && count <= 0 {
		count = request.DiasJuros
	}

	terms := schedule.Request{
		Valor:         request.ValorEmprestimo,
		Percentual:    request.Percentual,
		QuantParcelas: count,
		DiasJuros:     request.DiasJuros,
		TipoJuros:     tipo,
	}
	if err := terms.Validate(); err != nil {
		return domain.Contract{}, err
	}

	now := s.now().In(s.loc)
	parcelas, err := schedule.Resolve(request.Parcelas, terms, now)
	if err != nil {
		return domain.Contract{}, err
	}

	client, err := s.resolveClient(ctx, request.Cliente)
	if err != nil {
		return domain.Contract{}, err
	}

	contract := domain.Contract{
		ID:              ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		Cliente:         client,
		ValorEmprestimo: request.ValorEmprestimo,
		Percentual:      request.Percentual,
		QuantParcelas:   count,
		TipoJuros:       tipo,
		Parcelas:        parcelas,
		Documentos:      append([]domain.Document{}, request.Documentos...),
		Envios:          []domain.ContractDispatch{},
		CriadoEm:        now,
	}
	if domain.IsDaily(tipo) {
		contract.DiasJuros = request.DiasJuros
	}

	if err := s.ContractRepo.Create(ctx, &contract); err != nil {
		return domain.Contract{}, customError.WrapStorageError(err)
	}

	metrics.ContractsCreated.Inc()
	s.notifier.Trigger()
	s.logger.Info("contract created",
		"contract", contract.ID,
		"cpf", client.CPF,
		"policy", tipo,
		"installments", len(parcelas),
	)

	return contract.Clone(), nil
}

// resolveClient returns the stored client with the same cpf or creates one.
// A blank cpf never matches, so it always creates.
func (s *ContractService) resolveClient(ctx context.Context, in domain.ClientInput) (domain.Client, error) {
	if in.CPF != "" {
		existing, err := s.ClientRepo.GetByCPF(ctx, in.CPF)
		if err == nil {
			return *existing, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return domain.Client{}, customError.WrapStorageError(err)
		}
	}

	client := domain.Client{
		ID:       uuid.NewString(),
		Nome:     in.Nome,
		CPF:      in.CPF,
		RG:       in.RG,
		Telefone: in.Telefone,
		Endereco: in.Endereco,
		Cidade:   in.Cidade,
		Estado:   in.Estado,
	}
	if err := s.ClientRepo.Create(ctx, &client); err != nil {
		return domain.Client{}, customError.WrapStorageError(err)
	}
	return client, nil
}

// Get returns the contract by id
func (s *ContractService) Get(ctx context.Context, id string) (domain.Contract, error) {
	c, err := s.ContractRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Contract{}, storageErr(err, func() *customError.BusinessError {
			return customError.WrapContractNotFound(id)
		})
	}
	return *c, nil
}

// List returns every contract in stored order
func (s *ContractService) List(ctx context.Context) ([]domain.Contract, error) {
	contracts, err := s.ContractRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	return contracts, nil
}

// Filters lists the distinct cities and states used by the filter panel
func (s *ContractService) Filters(ctx context.Context) (cities, states []string, err error) {
	contracts, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	cities, states = query.CitiesAndStates(contracts)
	return cities, states, nil
}

// HistoryByCPF returns the client's contracts, newest first. A blank cpf
// has no history.
func (s *ContractService) HistoryByCPF(ctx context.Context, cpf string) ([]domain.Contract, error) {
	contracts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]query.Item, 0)
	for _, c := range contracts {
		if c.Cliente.MatchesCPF(cpf) {
			items = append(items, query.Item{Contract: c})
		}
	}
	query.SortNewestFirst(items)

	out := make([]domain.Contract, len(items))
	for i, it := range items {
		out[i] = it.Contract
	}
	return out, nil
}

// MigrateLegacy rewrites index-linked contracts into the embedded layout
func (s *ContractService) MigrateLegacy(ctx context.Context) (repository.MigrationReport, error) {
	report, err := repository.MigrateIndexedContracts(ctx, s.kv, s.logger)
	if err != nil {
		return report, customError.WrapStorageError(err)
	}
	if report.Contracts > 0 || report.LedgerRecords > 0 {
		s.notifier.Trigger()
	}
	return report, nil
}
