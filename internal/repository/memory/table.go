// Package memory implements the repository interfaces with in-process maps.
// Records are held by value, so callers only ever see copies.
package memory

import (
	"sync"

	"ridereservation/internal/repository"
)

// table is an insertion-ordered map from ID to record. The order slice keeps
// List results stable, which a bare Go map does not.
//
// Go Learning Note — Generics:
// The three repositories differ only in the record type they store, so the
// map bookkeeping lives here once, parameterized over T.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{
		rows: make(map[string]T),
	}
}

func (t *table[T]) insert(id string, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.rows[id]; exists {
		return repository.ErrAlreadyExists
	}
	t.rows[id] = row
	t.order = append(t.order, id)
	return nil
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, exists := t.rows[id]
	return row, exists
}

func (t *table[T]) replace(id string, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.rows[id]; !exists {
		return repository.ErrNotFound
	}
	t.rows[id] = row
	return nil
}

func (t *table[T]) scan() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := make([]T, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, t.rows[id])
	}
	return rows
}
