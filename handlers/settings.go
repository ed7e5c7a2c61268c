// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/questlog/cliparse"
	"github.com/danielhkuo/questlog/middleware"
	"github.com/danielhkuo/questlog/models"
)

type SettingsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSettingsHandler(conn *sql.DB, cfg cliparse.Config) *SettingsHandler {
	return &SettingsHandler{db: conn, cfg: cfg}
}

// Get handles GET /settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	settings, err := loadSettings(h.db, userID)
	if err != nil {
		slog.Error("failed to query settings", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SettingsResponse{Settings: settings})
}

// Update handles PUT /settings
// Bulk upsert; keys not present in the request are left untouched.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req models.UpdateSettingsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Settings) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "settings map is required")
		return
	}

	for key, value := range req.Settings {
		if key == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "setting keys must not be empty")
			return
		}
		if err := upsertSetting(h.db, userID, key, value); err != nil {
			slog.Error("failed to upsert setting", "user_id", userID, "key", key, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
	}

	settings, err := loadSettings(h.db, userID)
	if err != nil {
		slog.Error("failed to reload settings", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SettingsResponse{Settings: settings})
}

func loadSettings(conn *sql.DB, userID string) (map[string]string, error) {
	rows, err := conn.Query(`SELECT key, value FROM setting WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// upsertSetting works on both sqlite and postgres; both support
// ON CONFLICT ... DO UPDATE.
func upsertSetting(conn *sql.DB, userID, key, value string) error {
	_, err := conn.Exec(`
		INSERT INTO setting (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value
	`, userID, key, value)
	return err
}
