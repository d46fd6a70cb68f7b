package recordstore

import (
	"encoding/json"
	"fmt"

	"dokanpos/backend/internal/domain"
)

// Record is implemented by any struct embedding domain.Meta.
type Record interface {
	RecordMeta() *domain.Meta
}

// Collection is a typed handle over one named collection. Handles form a
// closed registry declared by the owning service, replacing stringly-typed
// collection dispatch with compile-time record types.
type Collection[T any, PT interface {
	Record
	*T
}] struct {
	name string
}

func NewCollection[T any, PT interface {
	Record
	*T
}](name string) Collection[T, PT] {
	return Collection[T, PT]{name: name}
}

func (c Collection[T, PT]) Name() string { return c.name }

func (c Collection[T, PT]) All(tx *Tx) ([]T, error) {
	doc, ok, err := tx.get(tx.store.Key(c.name))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}
	var recs []T
	if err := json.Unmarshal(doc, &recs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrPersistence, c.name, err)
	}
	if recs == nil {
		recs = []T{}
	}
	return recs, nil
}

func (c Collection[T, PT]) Find(tx *Tx, id string) (T, error) {
	var zero T
	recs, err := c.All(tx)
	if err != nil {
		return zero, err
	}
	for i := range recs {
		if PT(&recs[i]).RecordMeta().ID == id {
			return recs[i], nil
		}
	}
	return zero, fmt.Errorf("%w: %s %q", ErrNotFound, c.name, id)
}

// Create assigns a fresh id and timestamps, appends the record and stages
// the whole collection. A caller-supplied id must not collide with an
// existing record.
func (c Collection[T, PT]) Create(tx *Tx, rec T) (T, error) {
	var zero T
	recs, err := c.All(tx)
	if err != nil {
		return zero, err
	}

	meta := PT(&rec).RecordMeta()
	if meta.ID == "" {
		meta.ID = tx.store.newID()
	}
	for i := range recs {
		if PT(&recs[i]).RecordMeta().ID == meta.ID {
			return zero, fmt.Errorf("%w: duplicate id %q in %s", ErrValidation, meta.ID, c.name)
		}
	}
	now := tx.now()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	recs = append(recs, rec)
	if err := c.Replace(tx, recs); err != nil {
		return zero, err
	}
	return rec, nil
}

// Update applies mutate to the matching record and bumps UpdatedAt. The
// mutator cannot change identity or creation time.
func (c Collection[T, PT]) Update(tx *Tx, id string, mutate func(*T)) (T, error) {
	var zero T
	recs, err := c.All(tx)
	if err != nil {
		return zero, err
	}
	for i := range recs {
		meta := PT(&recs[i]).RecordMeta()
		if meta.ID != id {
			continue
		}
		keep := *meta
		mutate(&recs[i])
		meta = PT(&recs[i]).RecordMeta()
		meta.ID = keep.ID
		meta.CreatedAt = keep.CreatedAt
		meta.UpdatedAt = tx.now()
		if err := c.Replace(tx, recs); err != nil {
			return zero, err
		}
		return recs[i], nil
	}
	return zero, fmt.Errorf("%w: %s %q", ErrNotFound, c.name, id)
}

// Delete removes the record by id and reports whether anything was
// removed.
func (c Collection[T, PT]) Delete(tx *Tx, id string) (bool, error) {
	recs, err := c.All(tx)
	if err != nil {
		return false, err
	}
	kept := recs[:0]
	removed := false
	for i := range recs {
		if PT(&recs[i]).RecordMeta().ID == id {
			removed = true
			continue
		}
		kept = append(kept, recs[i])
	}
	if !removed {
		return false, nil
	}
	if err := c.Replace(tx, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (c Collection[T, PT]) Replace(tx *Tx, recs []T) error {
	if recs == nil {
		recs = []T{}
	}
	doc, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, c.name, err)
	}
	tx.stage(tx.store.Key(c.name), doc)
	return nil
}

// GetDoc reads a non-collection singleton document, such as settings.
func GetDoc[T any](tx *Tx, name string) (T, bool, error) {
	var value T
	doc, ok, err := tx.get(tx.store.Key(name))
	if err != nil || !ok {
		return value, false, err
	}
	if err := json.Unmarshal(doc, &value); err != nil {
		return value, false, fmt.Errorf("%w: decode %s: %v", ErrPersistence, name, err)
	}
	return value, true, nil
}

func PutDoc[T any](tx *Tx, name string, value T) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, name, err)
	}
	tx.stage(tx.store.Key(name), doc)
	return nil
}
