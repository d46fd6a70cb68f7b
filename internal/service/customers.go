package service

import (
	"context"
	"fmt"
	"strings"

	"dokanpos/backend/internal/cart"
	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/query"
	"dokanpos/backend/internal/recordstore"
	"dokanpos/backend/internal/validate"
)

func customerSearchFields(c domain.Customer) []string {
	return []string{c.Name, c.Phone, c.Email}
}

func (s *Service) ListCustomers(ctx context.Context, term string) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		customers, err = s.customers.All(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	customers = query.Search(customers, term, customerSearchFields)
	return query.SortBy(customers, func(a, b domain.Customer) bool { return a.Name < b.Name }), nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	var customer domain.Customer
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		customer, err = s.customers.Find(tx, id)
		return err
	})
	return customer, err
}

func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Customer{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)

	var customer domain.Customer
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		if err := s.requireUniquePhone(tx, req.Phone, ""); err != nil {
			return err
		}
		var err error
		customer, err = s.customers.Create(tx, domain.Customer{
			Name:        req.Name,
			Phone:       req.Phone,
			Email:       req.Email,
			Address:     req.Address,
			CreditLimit: req.CreditLimit,
		})
		return err
	})
	return customer, err
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, req domain.CustomerUpdateRequest) (domain.Customer, error) {
	var customer domain.Customer
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		if req.Phone != nil {
			phone := strings.TrimSpace(*req.Phone)
			req.Phone = &phone
			if err := s.requireUniquePhone(tx, phone, id); err != nil {
				return err
			}
		}
		if req.CreditLimit != nil && *req.CreditLimit < 0 {
			return fmt.Errorf("%w: credit_limit must not be negative", recordstore.ErrValidation)
		}

		var err error
		customer, err = s.customers.Update(tx, id, func(c *domain.Customer) {
			applyIfSet(req.Name, &c.Name)
			applyIfSet(req.Phone, &c.Phone)
			applyIfSet(req.Email, &c.Email)
			applyIfSet(req.Address, &c.Address)
			applyIfSet(req.CreditLimit, &c.CreditLimit)
		})
		return err
	})
	return customer, err
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		removed, err := s.customers.Delete(tx, id)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%w: customer %q", recordstore.ErrNotFound, id)
		}
		return nil
	})
}

// ReceiveCustomerPayment records a payment against a customer's balance.
// The balance may go negative, representing customer credit.
func (s *Service) ReceiveCustomerPayment(ctx context.Context, id string, req domain.CustomerPaymentRequest) (domain.Customer, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Customer{}, err
	}

	var customer domain.Customer
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		customer, err = s.customers.Update(tx, id, func(c *domain.Customer) {
			c.CurrentBalance = cart.Round(c.CurrentBalance - req.Amount)
		})
		return err
	})
	return customer, err
}

func (s *Service) requireUniquePhone(tx *recordstore.Tx, phone string, excludeID string) error {
	if phone == "" {
		return nil
	}
	customers, err := s.customers.All(tx)
	if err != nil {
		return err
	}
	for _, c := range customers {
		if c.ID != excludeID && c.Phone == phone {
			return fmt.Errorf("%w: duplicate phone %q", recordstore.ErrValidation, phone)
		}
	}
	return nil
}
