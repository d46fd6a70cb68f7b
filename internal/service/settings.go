package service

import (
	"context"
	"fmt"

	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/recordstore"
	"dokanpos/backend/internal/validate"
)

func (s *Service) GetSettings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		loaded, ok, err := recordstore.GetDoc[domain.Settings](tx, docSettings)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: settings", recordstore.ErrNotFound)
		}
		settings = loaded
		return nil
	})
	return settings, err
}

func (s *Service) UpdateSettings(ctx context.Context, req domain.SettingsUpdateRequest) (domain.Settings, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Settings{}, err
	}

	var settings domain.Settings
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		loaded, _, err := recordstore.GetDoc[domain.Settings](tx, docSettings)
		if err != nil {
			return err
		}
		applyIfSet(req.CompanyName, &loaded.CompanyName)
		applyIfSet(req.CompanyPhone, &loaded.CompanyPhone)
		applyIfSet(req.CompanyAddress, &loaded.CompanyAddress)
		applyIfSet(req.DefaultTaxRate, &loaded.DefaultTaxRate)
		applyIfSet(req.Currency, &loaded.Currency)
		applyIfSet(req.ReceiptHeader, &loaded.ReceiptHeader)
		applyIfSet(req.ReceiptFooter, &loaded.ReceiptFooter)
		loaded.UpdatedAt = s.now()
		settings = loaded
		return recordstore.PutDoc(tx, docSettings, loaded)
	})
	return settings, err
}
