// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/questlog/cliparse"
	"github.com/danielhkuo/questlog/db"
	"github.com/danielhkuo/questlog/middleware"
	"github.com/danielhkuo/questlog/router"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments pass flags or environment variables
	_ = godotenv.Load()

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	driver := "sqlite"
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	}

	conn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	if driver == "sqlite" {
		// modernc.org/sqlite serializes writes; a single connection avoids
		// SQLITE_BUSY under concurrent handlers
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if err := db.SeedTemplates(conn); err != nil {
		return fmt.Errorf("seeding templates: %w", err)
	}

	kvPath := filepath.Join(cfg.DataDir, "cache")
	kv, err := badger.Open(badger.DefaultOptions(kvPath).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("opening cache store: %w", err)
	}
	defer kv.Close()

	mux := router.NewRouter(conn, kv, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      middleware.CORS(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port, "database", cfg.DatabaseType)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
