package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dokanpos/backend/internal/config"
	"dokanpos/backend/internal/httpapi"
	"dokanpos/backend/internal/recordstore"
	"dokanpos/backend/internal/service"
	"dokanpos/backend/internal/storage"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	provider, closers, err := selectProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("storage unavailable: %v", err)
	}

	store := recordstore.New(provider, cfg.StorePrefix)
	svc := service.New(store)
	seedDefaults := service.SeedDefaults{
		AdminUsername:  cfg.AdminUsername,
		AdminPassword:  cfg.AdminPassword,
		CompanyName:    cfg.CompanyName,
		Currency:       cfg.Currency,
		DefaultTaxRate: cfg.DefaultTaxRate,
	}
	if err := svc.Seed(ctx, seedDefaults); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, svc)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin, seedDefaults)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("POS backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

// selectProvider picks the persistence backend: postgres when
// DATABASE_URL is set, then redis, then the file provider under DATA_DIR,
// else in-memory.
func selectProvider(ctx context.Context, cfg config.Config) (storage.Provider, []func() error, error) {
	closers := make([]func() error, 0, 1)

	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with a fallback", err)
		}
		closers = append(closers, pg.Close)
		log.Println("storage: postgres")
		return pg, closers, nil
	}

	if cfg.RedisAddr != "" {
		rd := storage.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StorePrefix)
		if err := rd.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("redis unavailable (%v) and REDIS_ADDR is set; refusing to start with a fallback", err)
		}
		closers = append(closers, rd.Close)
		log.Println("storage: redis")
		return rd, closers, nil
	}

	if cfg.DataDir != "" {
		fp, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("data dir %q: %w", cfg.DataDir, err)
		}
		log.Printf("storage: file (%s)", cfg.DataDir)
		return fp, closers, nil
	}

	log.Println("storage: in-memory")
	return storage.NewMemory(), closers, nil
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return nil
}
