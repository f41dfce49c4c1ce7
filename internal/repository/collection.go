package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/segyhp/loan-desk/internal/store"
)

// Collection is a JSON array of T persisted as a whole under one key.
//
// A missing key and a malformed document both read as an empty
// collection; the latter is logged so the operator can inspect it.
type Collection[T any] struct {
	kv     store.KV
	key    string
	logger *slog.Logger

	// serializes read-modify-write cycles issued by this process
	mu sync.Mutex
}

func NewCollection[T any](kv store.KV, key string, logger *slog.Logger) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, logger: logger}
}

// Load returns every item in stored order
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, store.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("malformed collection treated as empty", "key", c.key, "error", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the whole collection
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.kv.Put(ctx, c.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}

// errUnchanged lets an Update fn finish without writing
var errUnchanged = errors.New("collection unchanged")

// Update loads the collection, applies fn and saves the result. Nothing is
// written when fn returns an error.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.Load(ctx)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.Save(ctx, items)
}

// Find returns the first item matching pred or ErrNotFound
func (c *Collection[T]) Find(ctx context.Context, pred func(T) bool) (*T, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if pred(items[i]) {
			item := items[i]
			return &item, nil
		}
	}
	return nil, ErrNotFound
}
