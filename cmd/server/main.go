package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/nikolayk812/storefront/internal/httpapi"
	"github.com/nikolayk812/storefront/internal/notification"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/nikolayk812/storefront/pkg/config"
	"github.com/nikolayk812/storefront/pkg/logger"
	"github.com/nikolayk812/storefront/pkg/shutdown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := repository.Migrate(cfg.PostgresURL); err != nil {
		return fmt.Errorf("repository.Migrate: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	cartRepo := repository.NewCart(pool)
	productStore := repository.NewProduct(pool)
	orderRepo := repository.NewOrder(pool)
	userStore := repository.NewUser(pool)

	var sink port.NotificationSink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink := notification.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaSink.Close()
		sink = kafkaSink
	} else {
		log.Warn("no kafka brokers configured, notifications go to the log")
		sink = notification.NewLog(log)
	}

	carts := service.NewCart(cartRepo)
	inventory := service.NewInventory(productStore)
	orders := service.NewOrder(orderRepo, userStore, sink, log)
	checkout := service.NewCheckout(carts, inventory, orders, userStore, sink, log)

	isAdmin := func(token string) bool {
		return cfg.AdminToken != "" && token == cfg.AdminToken
	}

	server := httpapi.NewServer(carts, checkout, orders, productStore, userStore, isAdmin, log)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.ListenAndServe: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("httpServer.Shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
