package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/logging"
	"github.com/segyhp/loan-desk/internal/query"
	"github.com/segyhp/loan-desk/internal/repository"
	"github.com/segyhp/loan-desk/internal/repository/mocks"
	"github.com/segyhp/loan-desk/internal/status"
	"github.com/segyhp/loan-desk/internal/store"
	customError "github.com/segyhp/loan-desk/pkg/errors"
)

func createContract(t *testing.T, f *fixture, cpf string, count int) domain.Contract {
	t.Helper()
	req := baseRequest(cpf)
	req.QuantParcelas = count
	c, err := f.contracts.Create(context.Background(), req)
	require.NoError(t, err)
	return c
}

func TestStatus_CreatesLedgerLazily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := createContract(t, f, "111", 2)

	res, err := f.payments.Status(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, status.OnTrack, res.State)
	assert.Equal(t, 0, res.NextIndex)
	assert.Equal(t, 2, res.Total)

	rec, err := f.repos.Ledger.Get(ctx, c.ID, "111")
	require.NoError(t, err)
	assert.Empty(t, rec.ParcelasPagas)
	assert.False(t, rec.Concluido)
}

func TestStatus_FollowsClock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := createContract(t, f, "111", 1)

	// due 2025-02-09 at 18:00
	f.clock.t = time.Date(2025, 2, 6, 9, 0, 0, 0, brt)
	res, err := f.payments.Status(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, status.DueSoon, res.State)

	f.clock.t = time.Date(2025, 2, 9, 18, 30, 0, 0, brt)
	res, err = f.payments.Status(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Overdue, res.State)
}

func TestStatus_RefreshesStaleCompletionFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := createContract(t, f, "111", 2)

	stale, err := json.Marshal([]domain.LedgerRecord{{
		ContratoID:    c.ID,
		CPF:           "111",
		ParcelasPagas: []int{0, 1},
		Concluido:     false,
	}})
	require.NoError(t, err)
	require.NoError(t, f.kv.Put(ctx, repository.KeyLedger, stale))

	res, err := f.payments.Status(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Completed, res.State)

	rec, err := f.repos.Ledger.Get(ctx, c.ID, "111")
	require.NoError(t, err)
	assert.True(t, rec.Concluido)
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := createContract(t, f, "111", 2)
	before := f.notifier.n.Load()

	preview, err := f.payments.PreviewPayment(ctx, c.ID, 1)
	require.NoError(t, err)
	assert.False(t, preview.AlreadyPaid)
	_, err = f.repos.Ledger.Get(ctx, c.ID, "111")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	res, err := f.payments.MarkPaid(ctx, c.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Status.NextIndex)
	assert.False(t, res.Decision.CompletesContract)

	res, err = f.payments.MarkPaid(ctx, c.ID, 1)
	require.NoError(t, err)
	assert.True(t, res.Decision.AlreadyPaid)

	res, err = f.payments.MarkPaid(ctx, c.ID, 0)
	require.NoError(t, err)
	assert.True(t, res.Decision.CompletesContract)
	assert.Equal(t, status.Completed, res.Status.State)

	rec, err := f.repos.Ledger.Get(ctx, c.ID, "111")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rec.ParcelasPagas)
	assert.True(t, rec.Concluido)

	assert.Equal(t, before+2, f.notifier.n.Load())
}

func TestMarkPaid_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := createContract(t, f, "111", 2)

	_, err := f.payments.MarkPaid(ctx, c.ID, 2)
	assert.ErrorIs(t, err, customError.ErrInvalidInstallment)

	_, err = f.payments.MarkPaid(ctx, "missing", 0)
	assert.ErrorIs(t, err, customError.ErrContractNotFound)

	_, err = f.payments.PreviewPayment(ctx, c.ID, -1)
	assert.ErrorIs(t, err, customError.ErrInvalidInstallment)
}

func TestMarkPaid_LedgerFailure(t *testing.T) {
	contractRepo := &mocks.MockContractRepository{}
	ledgerRepo := &mocks.MockLedgerRepository{}

	svc := NewPaymentService(&repository.Repositories{
		Contracts: contractRepo,
		Ledger:    ledgerRepo,
	}, brt, time.Now, logging.Discard())

	c := &domain.Contract{ID: "c1", Cliente: domain.Client{CPF: "111"}, Parcelas: []domain.Installment{{Data: "2025-02-09"}}}
	contractRepo.On("GetByID", mock.Anything, "c1").Return(c, nil)
	ledgerRepo.On("MarkPaid", mock.Anything, "c1", "111", 0, 1).
		Return(domain.LedgerRecord{}, domain.LedgerRecord{}, errors.New("disk full"))

	_, err := svc.MarkPaid(context.Background(), "c1", 0)
	assert.Equal(t, customError.ErrCodeStorageError, customError.Code(err))

	contractRepo.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

// slowKV widens the window between reading and writing a collection
type slowKV struct {
	store.KV
	delay time.Duration
}

func (s slowKV) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(s.delay)
	return s.KV.Get(ctx, key)
}

func TestMarkPaid_ConcurrentPaymentsAreKept(t *testing.T) {
	ctx := context.Background()
	kv := slowKV{KV: store.NewMemory(), delay: 5 * time.Millisecond}
	logger := logging.Discard()
	repos := repository.New(kv, logger)
	now := func() time.Time { return time.Date(2025, 1, 10, 10, 0, 0, 0, brt) }

	contracts := NewContractService(repos, kv, brt, now, logger)
	payments := NewPaymentService(repos, brt, now, logger)

	req := baseRequest("111")
	req.QuantParcelas = 2
	c, err := contracts.Create(ctx, req)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			_, err := payments.MarkPaid(ctx, c.ID, index)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rec, err := repos.Ledger.Get(ctx, c.ID, "111")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rec.ParcelasPagas)
	assert.True(t, rec.Concluido)

	res, err := payments.Status(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Completed, res.State)
}

func TestStatus_ConcurrentWithPaymentKeepsPayment(t *testing.T) {
	ctx := context.Background()
	kv := slowKV{KV: store.NewMemory(), delay: 5 * time.Millisecond}
	logger := logging.Discard()
	repos := repository.New(kv, logger)
	now := func() time.Time { return time.Date(2025, 1, 10, 10, 0, 0, 0, brt) }

	contracts := NewContractService(repos, kv, brt, now, logger)
	payments := NewPaymentService(repos, brt, now, logger)

	c, err := contracts.Create(ctx, baseRequest("111"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := payments.Status(ctx, c.ID)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := payments.MarkPaid(ctx, c.ID, 3)
		assert.NoError(t, err)
	}()
	wg.Wait()

	rec, err := repos.Ledger.Get(ctx, c.ID, "111")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, rec.ParcelasPagas)
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := createContract(t, f, "111", 3)

	_, err := f.payments.MarkPaid(ctx, c.ID, 1)
	require.NoError(t, err)

	doc, err := f.payments.Report(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PaidCount)
	assert.True(t, doc.Rows[1].Paga)
	assert.False(t, doc.Rows[0].Paga)
	assert.Len(t, doc.Rows, 10)
}

func TestPortfolioAndGauges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	paid := createContract(t, f, "111", 1)
	_ = createContract(t, f, "222", 1)
	_, err := f.payments.MarkPaid(ctx, paid.ID, 0)
	require.NoError(t, err)

	groups, err := f.payments.Grouped(ctx, query.Filters{Statuses: []status.State{status.Completed}})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Clientes, 1)
	assert.Equal(t, "111", groups[0].Clientes[0].CPF)

	counts, err := f.payments.RefreshGauges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[status.Completed])
	assert.Equal(t, 1, counts[status.OnTrack])
}
