package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/segyhp/loan-desk/internal/store"
)

type rawRecord = map[string]json.RawMessage

// MigrationReport counts what MigrateIndexedContracts rewrote
type MigrationReport struct {
	Contracts     int `json:"contratos"`
	OrphanIndexes int `json:"indicesOrfaos"`
	Clients       int `json:"clientes"`
	LedgerRecords int `json:"pagamentos"`
}

// MigrateIndexedContracts rewrites legacy records into the embedded layout.
//
// Legacy contracts point at their client through "clienteIndex", a position
// in the client collection, and legacy ids are numeric timestamps. Each such
// contract gets a copy of the client embedded under "cliente" and every id
// is rewritten as a string. The client collection is not reordered. Running
// it twice is a no-op.
func MigrateIndexedContracts(ctx context.Context, kv store.KV, logger *slog.Logger) (MigrationReport, error) {
	var report MigrationReport

	clients, err := loadRaw(ctx, kv, KeyClients, logger)
	if err != nil {
		return report, err
	}
	for _, c := range clients {
		if stringifyID(c, "id") {
			report.Clients++
		}
	}

	contracts, err := loadRaw(ctx, kv, KeyContracts, logger)
	if err != nil {
		return report, err
	}
	for _, c := range contracts {
		changed := stringifyID(c, "id")

		if idxRaw, ok := c["clienteIndex"]; ok {
			if _, embedded := c["cliente"]; !embedded {
				var idx int
				if err := json.Unmarshal(idxRaw, &idx); err != nil || idx < 0 || idx >= len(clients) {
					report.OrphanIndexes++
					logger.Warn("contract points at a missing client", "contract", string(c["id"]), "clienteIndex", string(idxRaw))
					c["cliente"] = json.RawMessage(`{}`)
				} else {
					embeddedClient, err := json.Marshal(clients[idx])
					if err != nil {
						return report, fmt.Errorf("encode client %d: %w", idx, err)
					}
					c["cliente"] = embeddedClient
				}
			}
			delete(c, "clienteIndex")
			changed = true
		}

		if changed {
			report.Contracts++
		}
	}

	ledger, err := loadRaw(ctx, kv, KeyLedger, logger)
	if err != nil {
		return report, err
	}
	for _, rec := range ledger {
		if stringifyID(rec, "contratoId") {
			report.LedgerRecords++
		}
	}

	if report.Clients > 0 {
		if err := saveRaw(ctx, kv, KeyClients, clients); err != nil {
			return report, err
		}
	}
	if report.Contracts > 0 {
		if err := saveRaw(ctx, kv, KeyContracts, contracts); err != nil {
			return report, err
		}
	}
	if report.LedgerRecords > 0 {
		if err := saveRaw(ctx, kv, KeyLedger, ledger); err != nil {
			return report, err
		}
	}

	logger.Info("legacy layout migration finished",
		"contracts", report.Contracts,
		"orphans", report.OrphanIndexes,
		"clients", report.Clients,
		"ledger", report.LedgerRecords,
	)
	return report, nil
}

func loadRaw(ctx context.Context, kv store.KV, key string, logger *slog.Logger) ([]rawRecord, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var records []rawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Warn("malformed collection skipped by migration", "key", key, "error", err)
		return nil, nil
	}
	return records, nil
}

func saveRaw(ctx context.Context, kv store.KV, key string, records []rawRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// stringifyID turns a numeric field into its decimal string form
func stringifyID(rec rawRecord, field string) bool {
	v, ok := rec[field]
	if !ok {
		return false
	}
	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] == '"' || bytes.Equal(v, []byte("null")) {
		return false
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return false
	}
	s := n.String()
	if i, err := n.Int64(); err == nil {
		s = strconv.FormatInt(i, 10)
	}
	rec[field], _ = json.Marshal(s)
	return true
}
