// Package recordstore implements generic CRUD over named collections, each
// serialized as one JSON document under a prefixed key of a storage
// provider. Multi-collection mutations are staged in a transaction and
// flushed all-or-nothing.
package recordstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"dokanpos/backend/internal/storage"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
)

type Store struct {
	provider storage.Provider
	prefix   string
	mu       sync.Mutex
	now      func() time.Time
	newID    func() string
}

func New(provider storage.Provider, prefix string) *Store {
	if prefix == "" {
		prefix = "pos_"
	}
	return &Store{
		provider: provider,
		prefix:   prefix,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

func (s *Store) Key(collection string) string {
	return s.prefix + collection
}

// Tx stages collection writes against a snapshot of the provider. Nothing
// is written until the Atomic callback returns nil, and a write failure
// mid-flush restores every key already written.
type Tx struct {
	ctx    context.Context
	store  *Store
	staged map[string][]byte
	order  []string
}

// Atomic runs fn under the store-wide mutation lock and flushes its staged
// writes as one unit. Concurrent commits against the same collections
// serialize here, so read-modify-write sequences inside fn cannot lose
// updates.
func (s *Store) Atomic(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{ctx: ctx, store: s, staged: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.flush()
}

// Wipe removes everything under the store's namespace.
func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.provider.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (tx *Tx) Context() context.Context { return tx.ctx }

func (tx *Tx) now() time.Time { return tx.store.now() }

func (tx *Tx) get(key string) ([]byte, bool, error) {
	if doc, ok := tx.staged[key]; ok {
		return doc, true, nil
	}
	doc, ok, err := tx.store.provider.Get(tx.ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return doc, ok, nil
}

func (tx *Tx) stage(key string, doc []byte) {
	if _, ok := tx.staged[key]; !ok {
		tx.order = append(tx.order, key)
	}
	tx.staged[key] = doc
}

type priorValue struct {
	key     string
	doc     []byte
	existed bool
}

func (tx *Tx) flush() error {
	written := make([]priorValue, 0, len(tx.order))
	for _, key := range tx.order {
		old, existed, err := tx.store.provider.Get(tx.ctx, key)
		if err == nil {
			err = tx.store.provider.Set(tx.ctx, key, tx.staged[key])
		}
		if err != nil {
			restore(tx, written)
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		written = append(written, priorValue{key: key, doc: old, existed: existed})
	}
	return nil
}

func restore(tx *Tx, written []priorValue) {
	for i := len(written) - 1; i >= 0; i-- {
		prior := written[i]
		if prior.existed {
			_ = tx.store.provider.Set(tx.ctx, prior.key, prior.doc)
		} else {
			_ = tx.store.provider.Remove(tx.ctx, prior.key)
		}
	}
}
