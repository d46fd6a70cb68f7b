package storage

import (
	"context"
	"testing"
)

func testProviderBasics(t *testing.T, p Provider) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := p.Get(ctx, "pos_missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := p.Set(ctx, "pos_products", []byte(`[{"id":"p1"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	doc, ok, err := p.Get(ctx, "pos_products")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(doc) != `[{"id":"p1"}]` {
		t.Fatalf("get returned %q", doc)
	}

	if err := p.Set(ctx, "pos_products", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	doc, _, _ = p.Get(ctx, "pos_products")
	if string(doc) != `[]` {
		t.Fatalf("overwrite returned %q", doc)
	}

	if err := p.Remove(ctx, "pos_products"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "pos_products"); ok {
		t.Fatalf("key survived remove")
	}
	if err := p.Remove(ctx, "pos_products"); err != nil {
		t.Fatalf("second remove must be a no-op, got %v", err)
	}

	if err := p.Set(ctx, "pos_a", []byte(`1`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := p.Set(ctx, "pos_b", []byte(`2`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := p.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, key := range []string{"pos_a", "pos_b"} {
		if _, ok, _ := p.Get(ctx, key); ok {
			t.Fatalf("%s survived clear", key)
		}
	}
}

func TestMemoryProvider(t *testing.T) {
	testProviderBasics(t, NewMemory())
}

func TestMemoryProviderCopiesValues(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	original := []byte(`[1,2,3]`)
	if err := mem.Set(ctx, "pos_x", original); err != nil {
		t.Fatalf("set: %v", err)
	}
	original[1] = 'X'

	doc, _, err := mem.Get(ctx, "pos_x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(doc) != `[1,2,3]` {
		t.Fatalf("stored value aliased the caller's slice: %q", doc)
	}

	doc[1] = 'Y'
	again, _, _ := mem.Get(ctx, "pos_x")
	if string(again) != `[1,2,3]` {
		t.Fatalf("returned value aliased the stored slice: %q", again)
	}
}

func TestFileProvider(t *testing.T) {
	fp, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file provider: %v", err)
	}
	testProviderBasics(t, fp)
}

func TestFileProviderPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFile(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, "pos_sales", []byte(`[{"id":"s1"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	second, err := NewFile(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	doc, ok, err := second.Get(ctx, "pos_sales")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if string(doc) != `[{"id":"s1"}]` {
		t.Fatalf("unexpected doc %q", doc)
	}
}

func TestFileProviderKeysCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFile(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()

	hostile := "../escape"
	if err := fp.Set(ctx, hostile, []byte(`boo`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	doc, ok, err := fp.Get(ctx, hostile)
	if err != nil || !ok || string(doc) != "boo" {
		t.Fatalf("round trip: ok=%v err=%v doc=%q", ok, err, doc)
	}
	if err := fp.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := fp.Get(ctx, hostile); ok {
		t.Fatalf("encoded key survived clear, so it was written outside the dir")
	}
}
