package query

import (
	"testing"
	"time"
)

type named struct {
	name string
	sku  string
	rank int
}

func TestSearchMatchesAnyFieldCaseInsensitive(t *testing.T) {
	items := []named{
		{name: "Premium Rice", sku: "RICE-01"},
		{name: "Lentils", sku: "DAL-02"},
		{name: "Mustard Oil", sku: "OIL-03"},
	}
	fields := func(n named) []string { return []string{n.name, n.sku} }

	got := Search(items, "rice", fields)
	if len(got) != 1 || got[0].name != "Premium Rice" {
		t.Fatalf("expected name match, got %#v", got)
	}

	got = Search(items, "dal-02", fields)
	if len(got) != 1 || got[0].name != "Lentils" {
		t.Fatalf("expected sku match, got %#v", got)
	}

	got = Search(items, "  ", fields)
	if len(got) != len(items) {
		t.Fatalf("blank term should match everything, got %d items", len(got))
	}

	got = Search(items, "nothing", fields)
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %#v", got)
	}
}

func TestInRangeIsInclusiveOfWholeDays(t *testing.T) {
	day := func(d int, hour int) time.Time {
		return time.Date(2026, 8, d, hour, 30, 0, 0, time.Local)
	}
	type stamped struct{ at time.Time }
	items := []stamped{
		{at: day(9, 23)},
		{at: time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)},
		{at: day(11, 12)},
		{at: time.Date(2026, 8, 12, 23, 59, 59, 999_000_000, time.Local)},
		{at: day(13, 0)},
	}

	got := InRange(items, func(s stamped) time.Time { return s.at }, day(10, 15), day(12, 8))
	if len(got) != 3 {
		t.Fatalf("expected 3 items inside range, got %d", len(got))
	}
	if !got[0].at.Equal(items[1].at) || !got[2].at.Equal(items[3].at) {
		t.Fatalf("range boundaries wrong: %#v", got)
	}
}

func TestSortByIsStableAndDoesNotMutate(t *testing.T) {
	items := []named{
		{name: "b", rank: 2},
		{name: "a", rank: 1},
		{name: "c", rank: 2},
	}

	got := SortBy(items, func(x, y named) bool { return x.rank > y.rank })
	if got[0].name != "b" || got[1].name != "c" || got[2].name != "a" {
		t.Fatalf("expected stable descending order b,c,a, got %#v", got)
	}
	if items[0].name != "b" || items[1].name != "a" {
		t.Fatalf("input slice mutated: %#v", items)
	}
}

func TestFilter(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got := Filter(items, func(n int) bool { return n%2 == 0 })
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("unexpected filter result %#v", got)
	}
}
