package repository

import (
	"log/slog"

	"github.com/segyhp/loan-desk/internal/store"
)

// New builds every repository over kv
func New(kv store.KV, logger *slog.Logger) *Repositories {
	return &Repositories{
		Clients:    NewClientRepository(kv, logger),
		Contracts:  NewContractRepository(kv, logger),
		Ledger:     NewLedgerRepository(kv, logger),
		Deliveries: NewDeliveryRepository(kv, logger),
		Renewals:   NewRenewalRepository(kv, logger),
		Users:      NewUserRepository(kv, logger),
	}
}
