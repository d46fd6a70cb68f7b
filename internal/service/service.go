package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/recordstore"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Collection and singleton document names. The typed handles below are the
// only way records are read or written, so every collection access is
// checked against its record type at compile time.
const (
	colProducts     = "products"
	colCustomers    = "customers"
	colSales        = "sales"
	colCategories   = "categories"
	colTransactions = "inventory_transactions"
	colUsers        = "users"
	docSettings     = "settings"
)

type Service struct {
	store *recordstore.Store
	now   func() time.Time

	products     recordstore.Collection[domain.Product, *domain.Product]
	customers    recordstore.Collection[domain.Customer, *domain.Customer]
	sales        recordstore.Collection[domain.Sale, *domain.Sale]
	categories   recordstore.Collection[domain.Category, *domain.Category]
	transactions recordstore.Collection[domain.InventoryTransaction, *domain.InventoryTransaction]
	users        recordstore.Collection[domain.UserAccount, *domain.UserAccount]
}

func New(store *recordstore.Store) *Service {
	return &Service{
		store:        store,
		now:          func() time.Time { return time.Now().UTC() },
		products:     recordstore.NewCollection[domain.Product](colProducts),
		customers:    recordstore.NewCollection[domain.Customer](colCustomers),
		sales:        recordstore.NewCollection[domain.Sale](colSales),
		categories:   recordstore.NewCollection[domain.Category](colCategories),
		transactions: recordstore.NewCollection[domain.InventoryTransaction](colTransactions),
		users:        recordstore.NewCollection[domain.UserAccount](colUsers),
	}
}

// SeedDefaults configures the records materialized on first start.
type SeedDefaults struct {
	AdminUsername  string
	AdminPassword  string
	CompanyName    string
	Currency       string
	DefaultTaxRate float64
}

var starterCategories = []string{"Restaurant", "Grocery", "Clothing", "Electronics"}

// Seed materializes empty collections plus the starter categories, default
// settings and admin account. It never overwrites existing data, so
// running it on every start is safe.
func (s *Service) Seed(ctx context.Context, defaults SeedDefaults) error {
	if defaults.AdminUsername == "" {
		defaults.AdminUsername = "admin"
	}
	if defaults.AdminPassword == "" {
		defaults.AdminPassword = "admin123"
		log.Printf("[service] WARN: ADMIN_PASSWORD not set, seeding default credentials for %q", defaults.AdminUsername)
	}
	if defaults.CompanyName == "" {
		defaults.CompanyName = "DokanPOS"
	}
	if defaults.Currency == "" {
		defaults.Currency = "BDT"
	}

	return s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		if err := ensureEmpty(tx, s.products); err != nil {
			return err
		}
		if err := ensureEmpty(tx, s.customers); err != nil {
			return err
		}
		if err := ensureEmpty(tx, s.sales); err != nil {
			return err
		}
		if err := ensureEmpty(tx, s.transactions); err != nil {
			return err
		}

		existing, err := s.categories.All(tx)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			for _, name := range starterCategories {
				if _, err := s.categories.Create(tx, domain.Category{Name: name, Active: true}); err != nil {
					return err
				}
			}
		}

		if _, ok, err := recordstore.GetDoc[domain.Settings](tx, docSettings); err != nil {
			return err
		} else if !ok {
			if err := recordstore.PutDoc(tx, docSettings, domain.Settings{
				CompanyName:    defaults.CompanyName,
				DefaultTaxRate: defaults.DefaultTaxRate,
				Currency:       defaults.Currency,
				UpdatedAt:      s.now(),
			}); err != nil {
				return err
			}
		}

		accounts, err := s.users.All(tx)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			hash, err := bcrypt.GenerateFromPassword([]byte(defaults.AdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			if _, err := s.users.Create(tx, domain.UserAccount{
				Username: defaults.AdminUsername,
				Password: string(hash),
				Role:     domain.RoleAdmin,
				Active:   true,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ensureEmpty stages an empty list for a collection only when the
// underlying document is absent.
func ensureEmpty[T any, PT interface {
	recordstore.Record
	*T
}](tx *recordstore.Tx, c recordstore.Collection[T, PT]) error {
	if _, ok, err := recordstore.GetDoc[[]T](tx, c.Name()); err != nil {
		return err
	} else if ok {
		return nil
	}
	return c.Replace(tx, nil)
}
