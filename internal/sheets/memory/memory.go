// Package memory is an in-memory expense source for development and
// tests. It mirrors the sheet-backed client's contract without any
// network dependency.
package memory

import (
	"context"
	"fmt"
	"sync"

	"splitledger/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Expense

	// FetchErr, when set, makes FetchExpenses fail; used to exercise
	// the cache-fallback path.
	FetchErr error
}

func New(seed ...core.Expense) *Store {
	s := &Store{}
	s.items = append(s.items, seed...)
	return s
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// FetchExpenses returns a copy of the stored records.
func (s *Store) FetchExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Len reports how many records the store holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
