// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/danielhkuo/questlog/cliparse"
	"github.com/danielhkuo/questlog/handlers"
	"github.com/danielhkuo/questlog/middleware"
	"github.com/danielhkuo/questlog/store"
)

func NewRouter(db *sql.DB, kv *badger.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Storage tiers
	sqlStore := store.NewSQLStore(db)
	cache := store.NewKVCache(kv)
	progress := store.NewTiered(sqlStore, cache)
	blobs := store.NewBlobStore(kv)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg)
	subjectHandler := handlers.NewSubjectHandler(db, cfg, sqlStore, progress, cache)
	sessionHandler := handlers.NewSessionHandler(db, cfg, sqlStore, progress, cache)
	goalHandler := handlers.NewGoalHandler(db, cfg)
	templateHandler := handlers.NewTemplateHandler(db, cfg)
	settingsHandler := handlers.NewSettingsHandler(db, cfg)
	exportHandler := handlers.NewExportHandler(db, cfg, sqlStore)
	blobHandler := handlers.NewBlobHandler(cfg, blobs)

	// Credential endpoints are rate limited per client IP
	authLimiter := middleware.NewRateLimiter(cfg.RateLimit, time.Duration(cfg.RateWindow)*time.Second)

	logged := middleware.WithLogging
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(db, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth
	mux.HandleFunc("POST /auth/register", logged(authLimiter.Wrap(userHandler.Register)))
	mux.HandleFunc("POST /auth/login", logged(authLimiter.Wrap(userHandler.Login)))
	mux.HandleFunc("POST /auth/logout", logged(userHandler.Logout))

	// Subjects
	mux.HandleFunc("GET /subjects", authed(subjectHandler.List))
	mux.HandleFunc("POST /subjects", authed(subjectHandler.Create))
	mux.HandleFunc("GET /subjects/{id}", authed(subjectHandler.Get))
	mux.HandleFunc("PUT /subjects/{id}", authed(subjectHandler.Update))
	mux.HandleFunc("DELETE /subjects/{id}", authed(subjectHandler.Delete))
	mux.HandleFunc("POST /templates/{id}/subjects", authed(subjectHandler.CreateFromTemplate))

	// Sessions (the ledger rule's call sites)
	mux.HandleFunc("POST /subjects/{id}/sessions", authed(sessionHandler.Record))
	mux.HandleFunc("POST /subjects/{id}/pip", authed(sessionHandler.Pip))
	mux.HandleFunc("GET /subjects/{id}/sessions", authed(sessionHandler.History))

	// Goals
	mux.HandleFunc("GET /goals", authed(goalHandler.List))
	mux.HandleFunc("POST /goals", authed(goalHandler.Create))
	mux.HandleFunc("PUT /goals/{id}", authed(goalHandler.Update))
	mux.HandleFunc("DELETE /goals/{id}", authed(goalHandler.Delete))

	// Templates
	mux.HandleFunc("GET /templates", authed(templateHandler.List))

	// Settings
	mux.HandleFunc("GET /settings", authed(settingsHandler.Get))
	mux.HandleFunc("PUT /settings", authed(settingsHandler.Update))

	// Export / import
	mux.HandleFunc("GET /export", authed(exportHandler.Export))
	mux.HandleFunc("POST /import", authed(exportHandler.Import))

	// Ad-hoc blobs
	mux.HandleFunc("PUT /blobs/{key}", authed(blobHandler.Put))
	mux.HandleFunc("GET /blobs/{key}", authed(blobHandler.Get))
	mux.HandleFunc("DELETE /blobs/{key}", authed(blobHandler.Delete))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("questlog API v1"))
	})

	return mux
}
