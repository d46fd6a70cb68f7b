package service

import (
	"context"
	"time"

	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/query"
	"dokanpos/backend/internal/recordstore"
	"dokanpos/backend/internal/validate"
	"dokanpos/backend/internal/xid"
)

// AdjustStock applies a manual stock mutation and appends the matching
// ledger entry in the same transaction. New stock is floored at zero
// whatever the requested delta.
func (s *Service) AdjustStock(ctx context.Context, req domain.StockAdjustRequest) (domain.Product, domain.InventoryTransaction, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Product{}, domain.InventoryTransaction{}, err
	}

	var (
		product domain.Product
		entry   domain.InventoryTransaction
	)
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var previous, current int
		var err error
		product, err = s.products.Update(tx, req.ProductID, func(p *domain.Product) {
			previous = p.StockQuantity
			switch req.Mode {
			case domain.AdjustModeAdd:
				current = previous + req.Quantity
			case domain.AdjustModeSubtract:
				current = previous - req.Quantity
			case domain.AdjustModeSet:
				current = req.Quantity
			}
			if current < 0 {
				current = 0
			}
			p.StockQuantity = current
		})
		if err != nil {
			return err
		}

		entry, err = s.transactions.Create(tx, domain.InventoryTransaction{
			ProductID:     req.ProductID,
			Type:          ledgerType(req.Mode),
			Quantity:      req.Quantity,
			PreviousStock: previous,
			NewStock:      current,
			ReferenceType: domain.ReferenceManual,
			ReferenceID:   xid.New("adj"),
			Notes:         req.Notes,
		})
		return err
	})
	return product, entry, err
}

func ledgerType(mode string) string {
	switch mode {
	case domain.AdjustModeAdd:
		return domain.StockIn
	case domain.AdjustModeSubtract:
		return domain.StockOut
	default:
		return domain.StockAdjustment
	}
}

func (s *Service) ListInventoryTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.InventoryTransaction, error) {
	var entries []domain.InventoryTransaction
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		entries, err = s.transactions.All(tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if filter.ProductID != "" {
		entries = query.Filter(entries, func(e domain.InventoryTransaction) bool { return e.ProductID == filter.ProductID })
	}
	if filter.From != nil && filter.To != nil {
		entries = query.InRange(entries, func(e domain.InventoryTransaction) time.Time { return e.CreatedAt }, *filter.From, *filter.To)
	}
	return query.SortBy(entries, func(a, b domain.InventoryTransaction) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}
