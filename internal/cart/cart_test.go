package cart

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 0.01
}

func TestComputePercentageDiscountAcrossMixedTaxRates(t *testing.T) {
	totals := Compute([]Line{
		{ProductID: "p1", UnitPrice: 10, Quantity: 3, TaxRate: 15},
		{ProductID: "p2", UnitPrice: 25, Quantity: 1, TaxRate: 0},
	}, Discount{Amount: 10, Type: DiscountPercentage})

	if totals.Subtotal != 55 {
		t.Fatalf("subtotal: expected 55, got %v", totals.Subtotal)
	}
	if totals.Discount != 5.5 {
		t.Fatalf("discount: expected 5.5, got %v", totals.Discount)
	}
	if !almostEqual(totals.Lines[0].Discount, 3.0) || !almostEqual(totals.Lines[1].Discount, 2.5) {
		t.Fatalf("line discounts: expected 3.0 and 2.5, got %v and %v", totals.Lines[0].Discount, totals.Lines[1].Discount)
	}
	if !almostEqual(totals.Lines[0].Tax, 4.05) {
		t.Fatalf("line 1 tax: expected 4.05, got %v", totals.Lines[0].Tax)
	}
	if !almostEqual(totals.TotalTax, 4.05) {
		t.Fatalf("total tax: expected 4.05, got %v", totals.TotalTax)
	}
	if !almostEqual(totals.GrandTotal, 53.55) {
		t.Fatalf("grand total: expected 53.55, got %v", totals.GrandTotal)
	}
}

func TestComputeFixedDiscountClampedToSubtotal(t *testing.T) {
	totals := Compute([]Line{
		{ProductID: "p1", UnitPrice: 5, Quantity: 2, TaxRate: 0},
	}, Discount{Amount: 100, Type: DiscountFixed})

	if totals.Discount != 10 {
		t.Fatalf("expected discount clamped to subtotal 10, got %v", totals.Discount)
	}
	if totals.GrandTotal != 0 {
		t.Fatalf("expected grand total 0, got %v", totals.GrandTotal)
	}
}

func TestComputeZeroSubtotalShortCircuits(t *testing.T) {
	totals := Compute([]Line{
		{ProductID: "free", UnitPrice: 0, Quantity: 3, TaxRate: 15},
	}, Discount{Amount: 50, Type: DiscountFixed})

	if totals.Subtotal != 0 || totals.Discount != 0 || totals.TotalTax != 0 || totals.GrandTotal != 0 {
		t.Fatalf("expected all-zero totals, got %+v", totals)
	}
}

func TestComputeNoDiscountNoTaxEqualsSubtotal(t *testing.T) {
	cases := [][]Line{
		{{UnitPrice: 1.99, Quantity: 1}},
		{{UnitPrice: 10, Quantity: 3}, {UnitPrice: 0.01, Quantity: 7}},
		{{UnitPrice: 123.45, Quantity: 2}, {UnitPrice: 9.99, Quantity: 5}, {UnitPrice: 3, Quantity: 1}},
	}
	for _, lines := range cases {
		totals := Compute(lines, Discount{})
		if !almostEqual(totals.GrandTotal, totals.Subtotal) {
			t.Fatalf("expected grand total %v to equal subtotal %v", totals.GrandTotal, totals.Subtotal)
		}
	}
}

func TestComputeDiscountNeverExceedsSubtotal(t *testing.T) {
	lines := []Line{{UnitPrice: 7.5, Quantity: 4, TaxRate: 10}}
	for _, discount := range []Discount{
		{Amount: 0, Type: DiscountPercentage},
		{Amount: 100, Type: DiscountPercentage},
		{Amount: 15, Type: DiscountFixed},
		{Amount: 1e6, Type: DiscountFixed},
	} {
		totals := Compute(lines, discount)
		if totals.Discount < 0 || totals.Discount > totals.Subtotal {
			t.Fatalf("discount %v out of [0, %v] for %+v", totals.Discount, totals.Subtotal, discount)
		}
		want := Round(totals.Subtotal - totals.Discount + totals.TotalTax)
		if !almostEqual(totals.GrandTotal, want) {
			t.Fatalf("grand total %v does not reconcile to %v", totals.GrandTotal, want)
		}
	}
}

func TestSettle(t *testing.T) {
	cases := []struct {
		grand, paid float64
		due, change float64
		status      string
	}{
		{100, 100, 0, 0, "paid"},
		{100, 150, 0, 50, "paid"},
		{100, 40, 60, 0, "partial"},
		{100, 0, 100, 0, "unpaid"},
		{0, 0, 0, 0, "paid"},
	}
	for _, tc := range cases {
		due, change, status := Settle(tc.grand, tc.paid)
		if due != tc.due || change != tc.change || status != tc.status {
			t.Fatalf("Settle(%v, %v) = (%v, %v, %s), want (%v, %v, %s)",
				tc.grand, tc.paid, due, change, status, tc.due, tc.change, tc.status)
		}
	}
}
