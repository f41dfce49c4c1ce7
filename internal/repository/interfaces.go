package repository

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/loan-desk/internal/domain"
)

// ErrNotFound is returned when a lookup matches no record
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique field is already taken
var ErrDuplicate = errors.New("record already exists")

// Collection keys
const (
	KeyContracts  = "contratos_clientes"
	KeyLedger     = "pagamentos_clientes"
	KeyDeliveries = "motoboy_entregas"
	KeyClients    = "financeApp_clientes"
	KeyRenewals   = "financeApp_renovacoes"
	KeyUsers      = "financeApp_users"
)

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	// List returns every client in insertion order
	List(ctx context.Context) ([]domain.Client, error)

	// GetByCPF returns the first client with the cpf or ErrNotFound
	GetByCPF(ctx context.Context, cpf string) (*domain.Client, error)

	// Create appends a client
	Create(ctx context.Context, client *domain.Client) error
}

// ContractRepository defines the interface for contract data operations
type ContractRepository interface {
	// List returns every contract in insertion order
	List(ctx context.Context) ([]domain.Contract, error)

	// GetByID retrieves a contract by its ID or ErrNotFound
	GetByID(ctx context.Context, id string) (*domain.Contract, error)

	// Create appends a contract
	Create(ctx context.Context, contract *domain.Contract) error

	// AppendDispatch adds an entry to the contract's send log
	AppendDispatch(ctx context.Context, id string, dispatch domain.ContractDispatch) error
}

// LedgerRepository defines the interface for payment ledger operations
type LedgerRepository interface {
	// List returns every ledger record
	List(ctx context.Context) ([]domain.LedgerRecord, error)

	// Get retrieves the record for a (contract, cpf) pair or ErrNotFound
	Get(ctx context.Context, contratoID, cpf string) (*domain.LedgerRecord, error)

	// Ensure returns the record for the pair, creating an empty one when
	// absent and refreshing its Concluido cache against total. It writes
	// only when something changed.
	Ensure(ctx context.Context, contratoID, cpf string, total int) (domain.LedgerRecord, error)

	// MarkPaid adds index to the pair's paid set in one read-modify-write
	// and returns the record as it was before and after
	MarkPaid(ctx context.Context, contratoID, cpf string, index, total int) (before, after domain.LedgerRecord, err error)
}

// DeliveryRepository defines the interface for the courier queue
type DeliveryRepository interface {
	List(ctx context.Context) ([]domain.Delivery, error)
	GetByID(ctx context.Context, id string) (*domain.Delivery, error)
	Create(ctx context.Context, delivery *domain.Delivery) error
	Delete(ctx context.Context, id string) error

	// MarkDelivered closes a pending delivery at the given instant. It
	// reports false for a delivery that was already closed.
	MarkDelivered(ctx context.Context, id string, at time.Time) (domain.Delivery, bool, error)
}

// RenewalRepository defines the interface for renewal requests
type RenewalRepository interface {
	List(ctx context.Context) ([]domain.RenewalRequest, error)
	Create(ctx context.Context, request *domain.RenewalRequest) error
}

// UserRepository defines the interface for session identities
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)

	// GetByEmail matches case-insensitively or returns ErrNotFound
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create appends a user; it fails if the email is taken
	Create(ctx context.Context, user *domain.User) error
}

// Repositories bundles every repository over a single record store
type Repositories struct {
	Clients    ClientRepository
	Contracts  ContractRepository
	Ledger     LedgerRepository
	Deliveries DeliveryRepository
	Renewals   RenewalRepository
	Users      UserRepository
}
