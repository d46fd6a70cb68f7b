// Package cart computes sale totals: subtotal, whole-cart discount
// allocated proportionally across lines, per-line tax at each line's own
// snapshot rate, and the grand total.
package cart

import "math"

type Line struct {
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
	TaxRate   float64
}

type Discount struct {
	Amount float64
	Type   string
}

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed_amount"
)

type LineTotals struct {
	Line
	Total    float64
	Discount float64
	Taxable  float64
	Tax      float64
}

type Totals struct {
	Subtotal   float64
	Discount   float64
	TotalTax   float64
	GrandTotal float64
	Lines      []LineTotals
}

// Compute never mutates its input and is safe to call concurrently.
// A fixed discount larger than the subtotal is clamped, not rejected, and
// a zero subtotal short-circuits discount allocation and tax to zero.
func Compute(lines []Line, discount Discount) Totals {
	totals := Totals{Lines: make([]LineTotals, 0, len(lines))}

	for _, line := range lines {
		lineTotal := line.UnitPrice * float64(line.Quantity)
		totals.Subtotal += lineTotal
		totals.Lines = append(totals.Lines, LineTotals{Line: line, Total: lineTotal})
	}

	switch discount.Type {
	case DiscountPercentage:
		totals.Discount = totals.Subtotal * discount.Amount / 100
	case DiscountFixed:
		totals.Discount = math.Min(discount.Amount, totals.Subtotal)
	}
	if totals.Discount < 0 {
		totals.Discount = 0
	}

	if totals.Subtotal > 0 {
		for i := range totals.Lines {
			lt := &totals.Lines[i]
			lt.Discount = lt.Total / totals.Subtotal * totals.Discount
			lt.Taxable = lt.Total - lt.Discount
			lt.Tax = lt.Taxable * lt.TaxRate / 100
			totals.TotalTax += lt.Tax
		}
	} else {
		totals.Discount = 0
	}

	totals.Subtotal = Round(totals.Subtotal)
	totals.Discount = Round(totals.Discount)
	totals.TotalTax = Round(totals.TotalTax)
	totals.GrandTotal = Round(totals.Subtotal - totals.Discount + totals.TotalTax)
	return totals
}

// Settle derives due, change and payment status from a paid amount.
func Settle(grandTotal, paid float64) (due float64, change float64, status string) {
	due = Round(math.Max(0, grandTotal-paid))
	change = Round(math.Max(0, paid-grandTotal))
	switch {
	case paid >= grandTotal:
		status = "paid"
	case paid > 0:
		status = "partial"
	default:
		status = "unpaid"
	}
	return due, change, status
}

// Round keeps monetary amounts at two decimal places.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}
