package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/logging"
	"github.com/segyhp/loan-desk/internal/repository"
	"github.com/segyhp/loan-desk/internal/store"
)

var brt = time.FixedZone("BRT", -3*60*60)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

type countingNotifier struct {
	n atomic.Int32
}

func (c *countingNotifier) Trigger() { c.n.Add(1) }

type fixture struct {
	kv        store.KV
	repos     *repository.Repositories
	clock     *fakeClock
	contracts *ContractService
	payments  *PaymentService
	dispatch  *DispatchService
	renewals  *RenewalService
	notifier  *countingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kv := store.NewMemory()
	logger := logging.Discard()
	repos := repository.New(kv, logger)
	clock := &fakeClock{t: time.Date(2025, 1, 10, 10, 0, 0, 0, brt)}
	notifier := &countingNotifier{}

	f := &fixture{
		kv:        kv,
		repos:     repos,
		clock:     clock,
		contracts: NewContractService(repos, kv, brt, clock.Now, logger),
		payments:  NewPaymentService(repos, brt, clock.Now, logger),
		dispatch:  NewDispatchService(repos, clock.Now, logger),
		renewals:  NewRenewalService(repos, clock.Now, logger),
		notifier:  notifier,
	}
	f.contracts.OnChange(notifier)
	f.payments.OnChange(notifier)
	return f
}

func baseRequest(cpf string) *domain.CreateContractRequest {
	return &domain.CreateContractRequest{
		Cliente: domain.ClientInput{
			Nome:     "Ana Souza",
			CPF:      cpf,
			Telefone: "(81) 99999-0000",
			Endereco: "Rua A, 10",
			Cidade:   "Recife",
			Estado:   "PE",
		},
		ValorEmprestimo: decimal.NewFromInt(1000),
		Percentual:      decimal.NewFromInt(10),
		QuantParcelas:   5,
		TipoJuros:       domain.TipoJurosTotal,
	}
}
