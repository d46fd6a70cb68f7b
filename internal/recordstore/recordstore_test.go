package recordstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/storage"
)

func newTestStore() *Store {
	store := New(storage.NewMemory(), "pos_")
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return store
}

var testCategories = NewCollection[domain.Category]("categories")

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	var created domain.Category
	err := store.Atomic(ctx, func(tx *Tx) error {
		var err error
		created, err = testCategories.Create(tx, domain.Category{Name: "Grocery", Active: true})
		return err
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected matching create/update timestamps, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	err = store.Atomic(ctx, func(tx *Tx) error {
		found, err := testCategories.Find(tx, created.ID)
		if err != nil {
			return err
		}
		if found.Name != "Grocery" {
			t.Fatalf("expected Grocery, got %s", found.Name)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	err := store.Atomic(ctx, func(tx *Tx) error {
		if _, err := testCategories.Create(tx, domain.Category{Meta: domain.Meta{ID: "cat-1"}, Name: "A"}); err != nil {
			return err
		}
		_, err := testCategories.Create(tx, domain.Category{Meta: domain.Meta{ID: "cat-1"}, Name: "B"})
		return err
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdatePreservesIdentityAndBumpsUpdatedAt(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	var created, updated domain.Category
	err := store.Atomic(ctx, func(tx *Tx) error {
		var err error
		created, err = testCategories.Create(tx, domain.Category{Name: "Clothing"})
		return err
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = store.Atomic(ctx, func(tx *Tx) error {
		var err error
		updated, err = testCategories.Update(tx, created.ID, func(c *domain.Category) {
			c.Name = "Apparel"
			c.ID = "hijacked"
			c.CreatedAt = time.Time{}
		})
		return err
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("identity not preserved: %+v", updated.Meta)
	}
	if updated.Name != "Apparel" {
		t.Fatalf("expected renamed record, got %s", updated.Name)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected UpdatedAt to advance")
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	store := newTestStore()

	err := store.Atomic(context.Background(), func(tx *Tx) error {
		_, err := testCategories.Update(tx, "missing", func(c *domain.Category) {})
		return err
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteReportsRemoval(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	var created domain.Category
	err := store.Atomic(ctx, func(tx *Tx) error {
		var err error
		created, err = testCategories.Create(tx, domain.Category{Name: "Electronics"})
		return err
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = store.Atomic(ctx, func(tx *Tx) error {
		removed, err := testCategories.Delete(tx, created.ID)
		if err != nil {
			return err
		}
		if !removed {
			t.Fatalf("expected removal of existing record")
		}
		removed, err = testCategories.Delete(tx, created.ID)
		if err != nil {
			return err
		}
		if removed {
			t.Fatalf("expected second delete to report false")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestAllOnAbsentCollectionIsEmpty(t *testing.T) {
	store := newTestStore()

	err := store.Atomic(context.Background(), func(tx *Tx) error {
		recs, err := testCategories.All(tx)
		if err != nil {
			return err
		}
		if recs == nil || len(recs) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", recs)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("all: %v", err)
	}
}

func TestTxReadsItsOwnStagedWrites(t *testing.T) {
	store := newTestStore()

	err := store.Atomic(context.Background(), func(tx *Tx) error {
		if _, err := testCategories.Create(tx, domain.Category{Name: "First"}); err != nil {
			return err
		}
		recs, err := testCategories.All(tx)
		if err != nil {
			return err
		}
		if len(recs) != 1 || recs[0].Name != "First" {
			t.Fatalf("expected staged record visible inside tx, got %#v", recs)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("atomic: %v", err)
	}
}

// failingProvider rejects writes to one key, to exercise mid-flush rollback.
type failingProvider struct {
	*storage.Memory
	failKey string
}

func (f *failingProvider) Set(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func TestFlushRollsBackOnMidBatchFailure(t *testing.T) {
	mem := storage.NewMemory()
	ctx := context.Background()

	seed := New(mem, "pos_")
	if err := seed.Atomic(ctx, func(tx *Tx) error {
		return testCategories.Replace(tx, []domain.Category{{Meta: domain.Meta{ID: "cat-1"}, Name: "Before"}})
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	failing := &failingProvider{Memory: mem, failKey: "pos_products"}
	store := New(failing, "pos_")
	products := NewCollection[domain.Product]("products")

	err := store.Atomic(ctx, func(tx *Tx) error {
		if err := testCategories.Replace(tx, []domain.Category{{Meta: domain.Meta{ID: "cat-1"}, Name: "After"}}); err != nil {
			return err
		}
		return products.Replace(tx, []domain.Product{{Meta: domain.Meta{ID: "prod-1"}, Name: "Widget"}})
	})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	check := New(mem, "pos_")
	if err := check.Atomic(ctx, func(tx *Tx) error {
		cats, err := testCategories.All(tx)
		if err != nil {
			return err
		}
		if len(cats) != 1 || cats[0].Name != "Before" {
			t.Fatalf("expected categories restored to prior state, got %#v", cats)
		}
		prods, err := products.All(tx)
		if err != nil {
			return err
		}
		if len(prods) != 0 {
			t.Fatalf("expected no products after rollback, got %#v", prods)
		}
		return nil
	}); err != nil {
		t.Fatalf("check: %v", err)
	}
}
