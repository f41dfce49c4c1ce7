package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/loan-desk/internal/domain"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) List(ctx context.Context) ([]domain.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockContractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) AppendDispatch(ctx context.Context, id string, dispatch domain.ContractDispatch) error {
	args := m.Called(ctx, id, dispatch)
	return args.Error(0)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) List(ctx context.Context) ([]domain.LedgerRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerRecord), args.Error(1)
}

func (m *MockLedgerRepository) Get(ctx context.Context, contratoID, cpf string) (*domain.LedgerRecord, error) {
	args := m.Called(ctx, contratoID, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerRecord), args.Error(1)
}

func (m *MockLedgerRepository) Ensure(ctx context.Context, contratoID, cpf string, total int) (domain.LedgerRecord, error) {
	args := m.Called(ctx, contratoID, cpf, total)
	return args.Get(0).(domain.LedgerRecord), args.Error(1)
}

func (m *MockLedgerRepository) MarkPaid(ctx context.Context, contratoID, cpf string, index, total int) (domain.LedgerRecord, domain.LedgerRecord, error) {
	args := m.Called(ctx, contratoID, cpf, index, total)
	return args.Get(0).(domain.LedgerRecord), args.Get(1).(domain.LedgerRecord), args.Error(2)
}

type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) List(ctx context.Context) ([]domain.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetByID(ctx context.Context, id string) (*domain.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeliveryRepository) MarkDelivered(ctx context.Context, id string, at time.Time) (domain.Delivery, bool, error) {
	args := m.Called(ctx, id, at)
	return args.Get(0).(domain.Delivery), args.Bool(1), args.Error(2)
}

type MockRenewalRepository struct {
	mock.Mock
}

func (m *MockRenewalRepository) List(ctx context.Context) ([]domain.RenewalRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RenewalRequest), args.Error(1)
}

func (m *MockRenewalRepository) Create(ctx context.Context, request *domain.RenewalRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
