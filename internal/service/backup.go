package service

import (
	"context"
	"log"

	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/recordstore"
)

// Export snapshots every collection into one document.
func (s *Service) Export(ctx context.Context) (domain.Backup, error) {
	var backup domain.Backup
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		if backup.Products, err = s.products.All(tx); err != nil {
			return err
		}
		if backup.Customers, err = s.customers.All(tx); err != nil {
			return err
		}
		if backup.Sales, err = s.sales.All(tx); err != nil {
			return err
		}
		if backup.InventoryTransactions, err = s.transactions.All(tx); err != nil {
			return err
		}
		if backup.Categories, err = s.categories.All(tx); err != nil {
			return err
		}
		if backup.Users, err = s.users.All(tx); err != nil {
			return err
		}
		settings, ok, err := recordstore.GetDoc[domain.Settings](tx, docSettings)
		if err != nil {
			return err
		}
		if ok {
			backup.Settings = &settings
		}
		return nil
	})
	if err != nil {
		return domain.Backup{}, err
	}
	backup.ExportDate = s.now()
	backup.Version = domain.BackupVersion
	return backup, nil
}

// Import overwrites only the collections present in the payload and leaves
// absent ones untouched. The version string is recorded on export but not
// negotiated on import beyond a log line.
func (s *Service) Import(ctx context.Context, backup domain.Backup) error {
	if backup.Version != "" && backup.Version != domain.BackupVersion {
		log.Printf("[service] importing snapshot with version %q (current %q)", backup.Version, domain.BackupVersion)
	}
	return s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		if backup.Products != nil {
			if err := s.products.Replace(tx, backup.Products); err != nil {
				return err
			}
		}
		if backup.Customers != nil {
			if err := s.customers.Replace(tx, backup.Customers); err != nil {
				return err
			}
		}
		if backup.Sales != nil {
			if err := s.sales.Replace(tx, backup.Sales); err != nil {
				return err
			}
		}
		if backup.InventoryTransactions != nil {
			if err := s.transactions.Replace(tx, backup.InventoryTransactions); err != nil {
				return err
			}
		}
		if backup.Categories != nil {
			if err := s.categories.Replace(tx, backup.Categories); err != nil {
				return err
			}
		}
		if backup.Users != nil {
			if err := s.users.Replace(tx, backup.Users); err != nil {
				return err
			}
		}
		if backup.Settings != nil {
			if err := recordstore.PutDoc(tx, docSettings, *backup.Settings); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearAll wipes the namespace and reruns seeding.
func (s *Service) ClearAll(ctx context.Context, defaults SeedDefaults) error {
	if err := s.store.Wipe(ctx); err != nil {
		return err
	}
	return s.Seed(ctx, defaults)
}
