package service

import (
	"context"
	"fmt"
	"strings"

	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/query"
	"dokanpos/backend/internal/recordstore"
	"dokanpos/backend/internal/validate"
)

func productSearchFields(p domain.Product) []string {
	return []string{p.Name, p.SKU, p.Barcode, p.Description}
}

func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var products []domain.Product
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		products, err = s.products.All(tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if filter.CategoryID != "" && filter.CategoryID != query.CategoryAll {
		products = query.Filter(products, func(p domain.Product) bool { return p.CategoryID == filter.CategoryID })
	}
	if filter.ActiveOnly {
		products = query.Filter(products, func(p domain.Product) bool { return p.Active })
	}
	products = query.Search(products, filter.Query, productSearchFields)
	return query.SortBy(products, func(a, b domain.Product) bool { return a.Name < b.Name }), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var product domain.Product
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		product, err = s.products.Find(tx, id)
		return err
	})
	return product, err
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Product{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
	if req.Unit == "" {
		req.Unit = "pcs"
	}

	var product domain.Product
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		if _, err := s.categories.Find(tx, req.CategoryID); err != nil {
			return fmt.Errorf("%w: unknown category %q", recordstore.ErrValidation, req.CategoryID)
		}
		if req.SKU != "" {
			if err := s.requireUniqueSKU(tx, req.SKU, ""); err != nil {
				return err
			}
		}

		var err error
		product, err = s.products.Create(tx, domain.Product{
			Name:          req.Name,
			SKU:           req.SKU,
			Barcode:       req.Barcode,
			Description:   req.Description,
			CategoryID:    req.CategoryID,
			Unit:          req.Unit,
			PurchasePrice: req.PurchasePrice,
			SellingPrice:  req.SellingPrice,
			TaxRate:       req.TaxRate,
			StockQuantity: req.InitialStock,
			MinStockLevel: req.MinStockLevel,
			Active:        true,
		})
		return err
	})
	return product, err
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	var product domain.Product
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		if req.SKU != nil {
			sku := strings.ToUpper(strings.TrimSpace(*req.SKU))
			req.SKU = &sku
			if sku != "" {
				if err := s.requireUniqueSKU(tx, sku, id); err != nil {
					return err
				}
			}
		}
		if req.CategoryID != nil {
			if _, err := s.categories.Find(tx, *req.CategoryID); err != nil {
				return fmt.Errorf("%w: unknown category %q", recordstore.ErrValidation, *req.CategoryID)
			}
		}
		if req.TaxRate != nil && (*req.TaxRate < 0 || *req.TaxRate > 100) {
			return fmt.Errorf("%w: tax_rate out of range", recordstore.ErrValidation)
		}

		var err error
		product, err = s.products.Update(tx, id, func(p *domain.Product) {
			applyIfSet(req.Name, &p.Name)
			applyIfSet(req.SKU, &p.SKU)
			applyIfSet(req.Barcode, &p.Barcode)
			applyIfSet(req.Description, &p.Description)
			applyIfSet(req.CategoryID, &p.CategoryID)
			applyIfSet(req.Unit, &p.Unit)
			applyIfSet(req.PurchasePrice, &p.PurchasePrice)
			applyIfSet(req.SellingPrice, &p.SellingPrice)
			applyIfSet(req.TaxRate, &p.TaxRate)
			applyIfSet(req.MinStockLevel, &p.MinStockLevel)
			applyIfSet(req.Active, &p.Active)
		})
		return err
	})
	return product, err
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		removed, err := s.products.Delete(tx, id)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%w: product %q", recordstore.ErrNotFound, id)
		}
		return nil
	})
}

func (s *Service) requireUniqueSKU(tx *recordstore.Tx, sku string, excludeID string) error {
	products, err := s.products.All(tx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.ID != excludeID && p.SKU == sku {
			return fmt.Errorf("%w: duplicate sku %q", recordstore.ErrValidation, sku)
		}
	}
	return nil
}

func applyIfSet[T any](src *T, dst *T) {
	if src != nil {
		*dst = *src
	}
}
