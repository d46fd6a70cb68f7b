package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
	if cfg.AdminPassword != "" {
		t.Fatalf("expected empty ADMIN_PASSWORD when unset, got %q", cfg.AdminPassword)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_PREFIX", "ACCESS_TOKEN_TTL_MINUTES", "DEFAULT_TAX_RATE", "CURRENCY"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("address = %q, want :8080", cfg.Address())
	}
	if cfg.StorePrefix != "pos_" {
		t.Fatalf("prefix = %q, want pos_", cfg.StorePrefix)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("token ttl = %d, want 480", cfg.AccessTokenTTLMinutes)
	}
	if cfg.Currency != "BDT" {
		t.Fatalf("currency = %q, want BDT", cfg.Currency)
	}
}

func TestLoadClampsBadNumericValues(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "-5")
	t.Setenv("DEFAULT_TAX_RATE", "150")

	cfg := Load()
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("token ttl = %d, want fallback 480", cfg.AccessTokenTTLMinutes)
	}
	if cfg.DefaultTaxRate != 0 {
		t.Fatalf("tax rate = %.2f, want fallback 0", cfg.DefaultTaxRate)
	}
}
