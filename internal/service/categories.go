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

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		categories, err = s.categories.All(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return query.SortBy(categories, func(a, b domain.Category) bool { return a.Name < b.Name }), nil
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CategoryCreateRequest) (domain.Category, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Category{}, err
	}
	req.Name = strings.TrimSpace(req.Name)

	var category domain.Category
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		existing, err := s.categories.All(tx)
		if err != nil {
			return err
		}
		for _, c := range existing {
			if strings.EqualFold(c.Name, req.Name) {
				return fmt.Errorf("%w: duplicate category %q", recordstore.ErrValidation, req.Name)
			}
		}
		if req.ParentID != "" {
			if _, err := s.categories.Find(tx, req.ParentID); err != nil {
				return fmt.Errorf("%w: unknown parent category %q", recordstore.ErrValidation, req.ParentID)
			}
		}
		category, err = s.categories.Create(tx, domain.Category{
			Name:     req.Name,
			ParentID: req.ParentID,
			Active:   true,
		})
		return err
	})
	return category, err
}
