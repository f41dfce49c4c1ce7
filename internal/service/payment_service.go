package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/metrics"
	"github.com/segyhp/loan-desk/internal/query"
	"github.com/segyhp/loan-desk/internal/report"
	"github.com/segyhp/loan-desk/internal/repository"
	"github.com/segyhp/loan-desk/internal/status"
	customError "github.com/segyhp/loan-desk/pkg/errors"
)

type PaymentService struct {
	ContractRepo repository.ContractRepository
	LedgerRepo   repository.LedgerRepository
	loc          *time.Location
	now          Clock
	notifier     Notifier
	logger       *slog.Logger
}

func NewPaymentService(
	repos *repository.Repositories,
	loc *time.Location,
	now Clock,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		ContractRepo: repos.Contracts,
		LedgerRepo:   repos.Ledger,
		loc:          loc,
		now:          now,
		notifier:     noopNotifier{},
		logger:       logger,
	}
}

// OnChange registers n to be triggered after every recorded payment
func (s *PaymentService) OnChange(n Notifier) {
	s.notifier = n
}

// PaymentResult is the outcome of MarkPaid
type PaymentResult struct {
	Decision status.Decision `json:"decisao"`
	Status   status.Result   `json:"status"`
}

func (s *PaymentService) contract(ctx context.Context, id string) (*domain.Contract, error) {
	c, err := s.ContractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, func() *customError.BusinessError {
			return customError.WrapContractNotFound(id)
		})
	}
	return c, nil
}

// Status evaluates the contract's payment state at the current instant.
// The ledger record is created on first use.
func (s *PaymentService) Status(ctx context.Context, contractID string) (status.Result, error) {
	c, err := s.contract(ctx, contractID)
	if err != nil {
		return status.Result{}, err
	}

	rec, err := s.LedgerRepo.Ensure(ctx, c.ID, c.Cliente.CPF, len(c.Parcelas))
	if err != nil {
		return status.Result{}, customError.WrapStorageError(err)
	}

	res := status.Evaluate(*c, rec.ParcelasPagas, s.now().In(s.loc))
	s.logDateFailure(c, res)
	return res, nil
}

// PreviewPayment reports what paying the installment would do. Nothing is written.
func (s *PaymentService) PreviewPayment(ctx context.Context, contractID string, index int) (status.Decision, error) {
	c, err := s.contract(ctx, contractID)
	if err != nil {
		return status.Decision{}, err
	}

	var paid []int
	rec, err := s.LedgerRepo.Get(ctx, c.ID, c.Cliente.CPF)
	switch {
	case err == nil:
		paid = rec.ParcelasPagas
	case !errors.Is(err, repository.ErrNotFound):
		return status.Decision{}, customError.WrapStorageError(err)
	}

	return status.CanMarkPaid(*c, paid, index)
}

// MarkPaid records the installment as paid. Paying an already paid
// installment changes nothing.
func (s *PaymentService) MarkPaid(ctx context.Context, contractID string, index int) (PaymentResult, error) {
	c, err := s.contract(ctx, contractID)
	if err != nil {
		return PaymentResult{}, err
	}

	// range check before touching the ledger
	if _, err := status.CanMarkPaid(*c, nil, index); err != nil {
		return PaymentResult{}, err
	}

	before, rec, err := s.LedgerRepo.MarkPaid(ctx, c.ID, c.Cliente.CPF, index, len(c.Parcelas))
	if err != nil {
		return PaymentResult{}, customError.WrapStorageError(err)
	}

	decision, err := status.CanMarkPaid(*c, before.ParcelasPagas, index)
	if err != nil {
		return PaymentResult{}, err
	}

	if !decision.AlreadyPaid {
		metrics.InstallmentsPaid.Inc()
		s.notifier.Trigger()
		s.logger.Info("installment paid",
			"contract", c.ID,
			"index", index,
			"paid", len(rec.ParcelasPagas),
			"total", len(c.Parcelas),
			"completed", rec.Concluido,
		)
	}

	return PaymentResult{
		Decision: decision,
		Status:   status.Evaluate(*c, rec.ParcelasPagas, s.now().In(s.loc)),
	}, nil
}

// Report returns the payment-annotated copy of the contract for printing
func (s *PaymentService) Report(ctx context.Context, contractID string) (report.Document, error) {
	c, err := s.contract(ctx, contractID)
	if err != nil {
		return report.Document{}, err
	}

	var paid []int
	rec, err := s.LedgerRepo.Get(ctx, c.ID, c.Cliente.CPF)
	switch {
	case err == nil:
		paid = rec.ParcelasPagas
	case !errors.Is(err, repository.ErrNotFound):
		return report.Document{}, customError.WrapStorageError(err)
	}

	return report.Annotate(*c, paid), nil
}

// Portfolio evaluates every contract against the ledger without writing
func (s *PaymentService) Portfolio(ctx context.Context) ([]query.Item, error) {
	contracts, err := s.ContractRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	records, err := s.LedgerRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	type ident struct{ id, cpf string }
	paid := make(map[ident][]int, len(records))
	for _, r := range records {
		paid[ident{r.ContratoID, r.CPF}] = r.ParcelasPagas
	}

	now := s.now().In(s.loc)
	items := make([]query.Item, 0, len(contracts))
	for _, c := range contracts {
		res := status.Evaluate(c, paid[ident{c.ID, c.Cliente.CPF}], now)
		s.logDateFailure(&c, res)
		items = append(items, query.Item{Contract: c, Status: res})
	}
	return items, nil
}

// Grouped filters the portfolio and groups it by city, then client
func (s *PaymentService) Grouped(ctx context.Context, f query.Filters) ([]query.CityGroup, error) {
	items, err := s.Portfolio(ctx)
	if err != nil {
		return nil, err
	}
	return query.GroupByCityThenClient(items, f), nil
}

// RefreshGauges recomputes the per-status contract gauges
func (s *PaymentService) RefreshGauges(ctx context.Context) (map[status.State]int, error) {
	items, err := s.Portfolio(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[status.State]int, len(status.States))
	for _, it := range items {
		counts[it.Status.State]++
	}
	metrics.SetStatusCounts(counts)
	return counts, nil
}

func (s *PaymentService) logDateFailure(c *domain.Contract, res status.Result) {
	if res.Next == nil {
		return
	}
	if _, err := res.Next.DueDate(s.loc); err != nil {
		s.logger.Debug("unparseable due date treated as on track",
			"contract", c.ID,
			"index", res.NextIndex,
			"data", res.Next.Data,
		)
	}
}
