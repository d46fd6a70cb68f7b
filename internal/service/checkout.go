package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"dokanpos/backend/internal/cart"
	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/query"
	"dokanpos/backend/internal/recordstore"
	"dokanpos/backend/internal/validate"
	"dokanpos/backend/internal/xid"
)

// grandTotalTolerance bounds the accepted drift between a client-supplied
// grand total and the recomputed one.
const grandTotalTolerance = 0.01

// CommitSale recomputes all totals from the line items, creates the sale,
// decrements stock with ledger entries and updates the customer balance as
// one all-or-nothing unit. A client-supplied grand total is only checked
// against the recomputation, never trusted.
func (s *Service) CommitSale(ctx context.Context, req domain.SaleRequest) (domain.Sale, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Sale{}, err
	}
	if len(req.Items) == 0 {
		return domain.Sale{}, fmt.Errorf("%w: empty cart", recordstore.ErrValidation)
	}
	if req.Discount.Type == domain.DiscountPercentage && req.Discount.Amount > 100 {
		return domain.Sale{}, fmt.Errorf("%w: percentage discount above 100", recordstore.ErrValidation)
	}

	lines := normalizeLines(req.Items)
	actor, _ := ActorFromContext(ctx)
	now := s.now()

	var sale domain.Sale
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		cartLines := make([]cart.Line, 0, len(lines))
		for _, line := range lines {
			product, err := s.products.Find(tx, line.ProductID)
			if err != nil {
				return err
			}
			if !product.Active {
				return fmt.Errorf("%w: product %q is inactive", recordstore.ErrValidation, product.Name)
			}
			cartLines = append(cartLines, cart.Line{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.SellingPrice,
				Quantity:  line.Quantity,
				TaxRate:   product.TaxRate,
			})
		}

		totals := cart.Compute(cartLines, cart.Discount(req.Discount))
		if req.GrandTotal != nil && math.Abs(*req.GrandTotal-totals.GrandTotal) > grandTotalTolerance {
			return fmt.Errorf("%w: grand_total mismatch: client %.2f, computed %.2f",
				recordstore.ErrValidation, *req.GrandTotal, totals.GrandTotal)
		}

		if req.CustomerID != "" {
			if _, err := s.customers.Find(tx, req.CustomerID); err != nil {
				return err
			}
		}

		due, _, status := cart.Settle(totals.GrandTotal, req.PaidAmount)

		items := make([]domain.SaleItem, 0, len(totals.Lines))
		for _, lt := range totals.Lines {
			items = append(items, domain.SaleItem{
				ProductID: lt.ProductID,
				Name:      lt.Name,
				UnitPrice: lt.UnitPrice,
				Quantity:  lt.Quantity,
				TaxRate:   lt.TaxRate,
				Discount:  cart.Round(lt.Discount),
				Total:     cart.Round(lt.Taxable + lt.Tax),
			})
		}

		var err error
		sale, err = s.sales.Create(tx, domain.Sale{
			InvoiceNumber: xid.Invoice(now),
			CustomerID:    req.CustomerID,
			Items:         items,
			Subtotal:      totals.Subtotal,
			TotalDiscount: totals.Discount,
			TotalTax:      totals.TotalTax,
			GrandTotal:    totals.GrandTotal,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: status,
			PaidAmount:    cart.Round(req.PaidAmount),
			DueAmount:     due,
			CashierID:     actor.Username,
			SoldAt:        now,
		})
		if err != nil {
			return err
		}

		for _, line := range lines {
			if err := s.decrementStock(tx, line.ProductID, line.Quantity, sale.ID); err != nil {
				return err
			}
		}

		if req.CustomerID != "" {
			_, err = s.customers.Update(tx, req.CustomerID, func(c *domain.Customer) {
				if due > 0 {
					c.CurrentBalance = cart.Round(c.CurrentBalance + due)
				}
				c.TotalPurchases = cart.Round(c.TotalPurchases + sale.GrandTotal)
				c.LoyaltyPoints += int(sale.GrandTotal / 100)
				at := now
				c.LastPurchase = &at
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return sale, err
}

// decrementStock floors stock at zero. Availability is expected to be
// checked before the sale, but the floor holds even when it was not.
func (s *Service) decrementStock(tx *recordstore.Tx, productID string, quantity int, saleID string) error {
	var previous, current int
	_, err := s.products.Update(tx, productID, func(p *domain.Product) {
		previous = p.StockQuantity
		current = p.StockQuantity - quantity
		if current < 0 {
			current = 0
		}
		p.StockQuantity = current
	})
	if err != nil {
		return err
	}
	_, err = s.transactions.Create(tx, domain.InventoryTransaction{
		ProductID:     productID,
		Type:          domain.StockOut,
		Quantity:      quantity,
		PreviousStock: previous,
		NewStock:      current,
		ReferenceType: domain.ReferenceSale,
		ReferenceID:   saleID,
	})
	return err
}

// normalizeLines merges duplicate product lines, summing quantities, and
// keeps first-seen order.
func normalizeLines(items []domain.SaleLineRequest) []domain.SaleLineRequest {
	merged := make([]domain.SaleLineRequest, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if at, ok := index[item.ProductID]; ok {
			merged[at].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func (s *Service) GetSale(ctx context.Context, id string) (domain.Sale, error) {
	var sale domain.Sale
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		sale, err = s.sales.Find(tx, id)
		return err
	})
	return sale, err
}

func (s *Service) ListSales(ctx context.Context, from, to *time.Time) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		sales, err = s.sales.All(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil {
		sales = query.InRange(sales, func(s domain.Sale) time.Time { return s.SoldAt }, *from, *to)
	}
	return query.SortBy(sales, func(a, b domain.Sale) bool { return a.SoldAt.After(b.SoldAt) }), nil
}
