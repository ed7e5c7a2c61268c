// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/questlog/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the authenticated user's id from the request context.
// Empty outside of RequireAuth-wrapped handlers.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// WithUserID returns a copy of the request carrying the given user id.
// Handler tests use it to skip the auth guard.
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
}

// RequireAuth validates the bearer token against the auth_token table and
// injects the owning user's id into the request context. Expired tokens
// are deleted opportunistically.
func RequireAuth(db *sql.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Authorization bearer token required")
			return
		}

		var userID string
		var expiresAt time.Time
		err := db.QueryRow(`
			SELECT user_id, expires_at FROM auth_token WHERE token = $1
		`, token).Scan(&userID, &expiresAt)

		if err == sql.ErrNoRows {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if err != nil {
			slog.Error("failed to query token", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		if time.Now().After(expiresAt) {
			if _, err := db.Exec(`DELETE FROM auth_token WHERE token = $1`, token); err != nil {
				slog.Error("failed to delete expired token", "error", err)
			}
			ErrorResponse(w, http.StatusUnauthorized, "Token expired")
			return
		}

		next(w, WithUserID(r, userID))
	}
}
