// Package query holds the pure read-side filter, search and sort helpers
// layered over record store listings.
package query

import (
	"sort"
	"strings"
	"time"
)

// CategoryAll bypasses category filtering.
const CategoryAll = "all"

func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Search matches the term case-insensitively as a substring against any of
// the field values returned by fields. An empty term matches everything.
func Search[T any](items []T, term string, fields func(T) []string) []T {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return items
	}
	return Filter(items, func(item T) bool {
		for _, value := range fields(item) {
			if strings.Contains(strings.ToLower(value), needle) {
				return true
			}
		}
		return false
	})
}

// InRange keeps items whose timestamp falls between the start of from's
// day and 23:59:59.999 of to's day, inclusive, in local calendar time.
func InRange[T any](items []T, at func(T) time.Time, from, to time.Time) []T {
	start := StartOfDay(from)
	end := EndOfDay(to)
	return Filter(items, func(item T) bool {
		ts := at(item)
		return !ts.Before(start) && !ts.After(end)
	})
}

func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, 999_000_000, t.Location())
}

// SortBy sorts a copy of items with a stable sort, so ties preserve the
// original relative order.
func SortBy[T any](items []T, less func(a, b T) bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
