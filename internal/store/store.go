// Package store persists JSON-serialized collections under string keys.
//
// Every collection is written as a whole under its key, so two writers
// racing on the same key resolve as last write wins. Backends:
//
//	memory   - process-local map, for tests and development
//	redis    - one string value per key
//	postgres - records table over sqlx + lib/pq
//	sqlite   - same records table over modernc.org/sqlite
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned by Get when nothing has been stored under the key
var ErrNotFound = errors.New("record not found")

// KV is a key-value store of raw JSON documents
type KV interface {
	// Get returns the raw document stored under key or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the document stored under key
	Put(ctx context.Context, key string, value []byte) error

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error

	Close() error
}

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options selects and configures a backend
type Options struct {
	Driver        string
	KeyPrefix     string
	DatabaseURL   string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open builds the backend named by opts.Driver
func Open(ctx context.Context, opts Options, logger *slog.Logger) (KV, error) {
	var (
		kv  KV
		err error
	)

	switch opts.Driver {
	case DriverMemory, "":
		kv = NewMemory()
	case DriverRedis:
		kv, err = NewRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case DriverPostgres:
		kv, err = OpenSQL(ctx, "postgres", opts.DatabaseURL)
	case DriverSQLite:
		kv, err = OpenSQL(ctx, "sqlite", opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Driver, err)
	}

	logger.Info("record store ready", "driver", opts.Driver, "prefix", opts.KeyPrefix)

	if opts.KeyPrefix != "" {
		kv = WithPrefix(kv, opts.KeyPrefix)
	}
	return kv, nil
}

type prefixed struct {
	KV
	prefix string
}

// WithPrefix namespaces every key written through kv
func WithPrefix(kv KV, prefix string) KV {
	return &prefixed{KV: kv, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.KV.Get(ctx, p.prefix+key)
}

func (p *prefixed) Put(ctx context.Context, key string, value []byte) error {
	return p.KV.Put(ctx, p.prefix+key, value)
}
