package service

import (
	"context"
	"fmt"
	"strings"

	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/recordstore"
)

// ListUsers, CreateUser and UpdateUserPassword back the auth manager's
// user store contract.
func (s *Service) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	var accounts []domain.UserAccount
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		accounts, err = s.users.All(tx)
		return err
	})
	return accounts, err
}

func (s *Service) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" {
		return fmt.Errorf("%w: username required", recordstore.ErrValidation)
	}
	return s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		accounts, err := s.users.All(tx)
		if err != nil {
			return err
		}
		for _, account := range accounts {
			if account.Username == user.Username {
				return fmt.Errorf("%w: duplicate username %q", recordstore.ErrValidation, user.Username)
			}
		}
		_, err = s.users.Create(tx, user)
		return err
	})
}

func (s *Service) UpdateUserPassword(ctx context.Context, username string, password string) error {
	return s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		accounts, err := s.users.All(tx)
		if err != nil {
			return err
		}
		for _, account := range accounts {
			if account.Username != username {
				continue
			}
			_, err := s.users.Update(tx, account.ID, func(u *domain.UserAccount) {
				u.Password = password
			})
			return err
		}
		return fmt.Errorf("%w: user %q", recordstore.ErrNotFound, username)
	})
}
