// Package memory implements a process-local store used for tests and ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"tiffin/internal/domain/repository"
)

// LocalStore keeps entries in a map. The zero value is not usable; call NewLocalStore.
type LocalStore struct {
	mu      sync.RWMutex
	entries map[repository.StoreKey]string
}

// NewLocalStore creates an empty in-memory store.
func NewLocalStore() *LocalStore {
	return &LocalStore{entries: make(map[repository.StoreKey]string)}
}

func (s *LocalStore) Get(_ context.Context, key repository.StoreKey) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]

	return value, ok, nil
}

func (s *LocalStore) Set(_ context.Context, key repository.StoreKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value

	return nil
}

func (s *LocalStore) Remove(_ context.Context, key repository.StoreKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}

// Execute stages the writes of fn and applies them only when fn succeeds.
// Other callers are blocked until it returns.
func (s *LocalStore) Execute(ctx context.Context, fn func(tx repository.LocalStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &stagedStore{base: s.entries, writes: make(map[repository.StoreKey]*string)}
	if err := fn(tx); err != nil {
		return err
	}

	for key, value := range tx.writes {
		if value == nil {
			delete(s.entries, key)
		} else {
			s.entries[key] = *value
		}
	}

	return nil
}

// stagedStore records writes on top of a locked base map. A nil value is a removal.
type stagedStore struct {
	base   map[repository.StoreKey]string
	writes map[repository.StoreKey]*string
}

func (t *stagedStore) Get(_ context.Context, key repository.StoreKey) (string, bool, error) {
	if value, staged := t.writes[key]; staged {
		if value == nil {
			return "", false, nil
		}

		return *value, true, nil
	}

	value, ok := t.base[key]

	return value, ok, nil
}

func (t *stagedStore) Set(_ context.Context, key repository.StoreKey, value string) error {
	t.writes[key] = &value

	return nil
}

func (t *stagedStore) Remove(_ context.Context, key repository.StoreKey) error {
	t.writes[key] = nil

	return nil
}

// Execute joins the enclosing transaction.
func (t *stagedStore) Execute(_ context.Context, fn func(tx repository.LocalStore) error) error {
	return fn(t)
}
