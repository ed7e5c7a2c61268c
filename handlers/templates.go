// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/questlog/cliparse"
	"github.com/danielhkuo/questlog/middleware"
	"github.com/danielhkuo/questlog/models"
)

type TemplateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewTemplateHandler(conn *sql.DB, cfg cliparse.Config) *TemplateHandler {
	return &TemplateHandler{db: conn, cfg: cfg}
}

// List handles GET /templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, emoji, color, pip_amount, target_hours, quest_types, achievements, description
		FROM template
		ORDER BY name
	`)
	if err != nil {
		slog.Error("failed to query templates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		var tmpl models.Template
		var questTypes, achievements string
		if err := rows.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Emoji, &tmpl.Color,
			&tmpl.PipAmount, &tmpl.TargetHours, &questTypes, &achievements,
			&tmpl.Description); err != nil {
			slog.Error("failed to scan template", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if err := json.Unmarshal([]byte(questTypes), &tmpl.QuestTypes); err != nil {
			slog.Error("corrupt template quest_types", "template_id", tmpl.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if err := json.Unmarshal([]byte(achievements), &tmpl.Achievements); err != nil {
			slog.Error("corrupt template achievements", "template_id", tmpl.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		templates = append(templates, tmpl)
	}

	middleware.JSONResponse(w, http.StatusOK, models.TemplateListResponse{Templates: templates})
}
