package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-bff/internal/auth"
	"storefront-bff/internal/cart"
	"storefront-bff/internal/catalog"
	"storefront-bff/internal/checkout"
	"storefront-bff/internal/config"
	"storefront-bff/internal/db"
	"storefront-bff/internal/gateway"
	"storefront-bff/internal/httpserver"
	"storefront-bff/internal/payment"
	"storefront-bff/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("configuration: %v", err)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	issuer := auth.NewIssuer(cfg.BackendBaseURL, []byte(cfg.ServiceTokenSecret))
	backend := gateway.New(cfg.BackendBaseURL, issuer, logger)
	carts := cart.NewManager(backend)
	processor := payment.New(cfg.PaymentAPIURL, cfg.PaymentSecretKey, logger)
	orchestrator := checkout.New(carts, backend, processor, logger)
	sessions := session.NewPostgres(dbpool)

	var cache catalog.Cache
	if cfg.RedisAddr != "" {
		cache = catalog.NewRedisCache(cfg.RedisAddr)
	}
	catalogSvc := catalog.New(backend, cache, cfg.CatalogCacheTTL, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:  catalogSvc,
		Carts:    carts,
		Checkout: orchestrator,
		Backend:  backend,
		Verifier: issuer,
		Sessions: sessions,
	}, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
