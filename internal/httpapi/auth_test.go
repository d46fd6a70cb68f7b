package httpapi

import (
	"context"
	"strings"
	"testing"
	"time"

	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/recordstore"
	"dokanpos/backend/internal/service"
	"dokanpos/backend/internal/storage"
)

func newTestAuth(t *testing.T) *AuthManager {
	t.Helper()
	svc := service.New(recordstore.New(storage.NewMemory(), "pos_"))
	if err := svc.Seed(context.Background(), service.SeedDefaults{
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewAuthManager(testSecret, time.Hour, svc)
}

func TestLoginAndParseTokenRoundTrip(t *testing.T) {
	auth := newTestAuth(t)

	resp, err := auth.Login(domain.LoginRequest{Username: "Admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Role != domain.RoleAdmin {
		t.Fatalf("role = %q, want admin", resp.Role)
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.Username != "admin" || actor.Role != domain.RoleAdmin {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth := newTestAuth(t)

	if _, err := auth.Login(domain.LoginRequest{Username: "admin", Password: "nope"}); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if _, err := auth.Login(domain.LoginRequest{Username: "ghost", Password: "admin123"}); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	auth := newTestAuth(t)
	other := NewAuthManager(strings.Repeat("x", 32), time.Hour, nil)

	resp, err := auth.Login(domain.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := other.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	auth := newTestAuth(t)

	token, err := auth.sign("admin", domain.RoleAdmin, time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := auth.ParseToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestCreateCashierValidation(t *testing.T) {
	auth := newTestAuth(t)

	cases := []struct {
		name string
		req  domain.CashierCreateRequest
	}{
		{"short username", domain.CashierCreateRequest{Username: "abc", Password: "secret123"}},
		{"spaced username", domain.CashierCreateRequest{Username: "ab cd", Password: "secret123"}},
		{"short password", domain.CashierCreateRequest{Username: "valid", Password: "123"}},
		{"duplicate of admin", domain.CashierCreateRequest{Username: "admin", Password: "secret123"}},
	}
	for _, tc := range cases {
		if _, err := auth.CreateCashier(tc.req); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestCreateCashierPersistsAndLogsIn(t *testing.T) {
	auth := newTestAuth(t)

	cashier, err := auth.CreateCashier(domain.CashierCreateRequest{Username: "Rumi1", Password: "secret123"})
	if err != nil {
		t.Fatalf("create cashier: %v", err)
	}
	if cashier.Username != "rumi1" || cashier.Role != domain.RoleCashier || !cashier.Active {
		t.Fatalf("unexpected cashier %+v", cashier)
	}

	resp, err := auth.Login(domain.LoginRequest{Username: "rumi1", Password: "secret123"})
	if err != nil {
		t.Fatalf("cashier login: %v", err)
	}
	if resp.Role != domain.RoleCashier {
		t.Fatalf("role = %q, want cashier", resp.Role)
	}

	cashiers := auth.ListCashiers()
	if len(cashiers) != 1 || cashiers[0].Username != "rumi1" {
		t.Fatalf("list should contain only cashiers, got %#v", cashiers)
	}
}

func TestPlaintextPasswordsUpgradedOnBootstrap(t *testing.T) {
	svc := service.New(recordstore.New(storage.NewMemory(), "pos_"))
	ctx := context.Background()
	if err := svc.CreateUser(ctx, domain.UserAccount{
		Username: "legacy",
		Password: "plainpass",
		Role:     domain.RoleCashier,
		Active:   true,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	auth := NewAuthManager(testSecret, time.Hour, svc)
	if _, err := auth.Login(domain.LoginRequest{Username: "legacy", Password: "plainpass"}); err != nil {
		t.Fatalf("legacy login: %v", err)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || !isPasswordHash(users[0].Password) {
		t.Fatalf("expected stored password upgraded to a hash, got %#v", users)
	}
}

func TestIsPasswordHash(t *testing.T) {
	if !isPasswordHash("$2a$10$abcdefghijklmnopqrstuv") {
		t.Fatalf("expected $2a$ prefix to be recognized")
	}
	if isPasswordHash("plaintext") {
		t.Fatalf("plain text must not pass for a hash")
	}
}
