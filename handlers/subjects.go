// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/questlog/cliparse"
	"github.com/danielhkuo/questlog/middleware"
	"github.com/danielhkuo/questlog/models"
	"github.com/danielhkuo/questlog/store"
)

type SubjectHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	sqlStore *store.SQLStore
	progress *store.Tiered
	cache    *store.KVCache
}

func NewSubjectHandler(conn *sql.DB, cfg cliparse.Config, sqlStore *store.SQLStore, progress *store.Tiered, cache *store.KVCache) *SubjectHandler {
	return &SubjectHandler{db: conn, cfg: cfg, sqlStore: sqlStore, progress: progress, cache: cache}
}

// List handles GET /subjects
func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	subjects, err := h.sqlStore.List(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list subjects", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubjectListResponse{Subjects: subjects})
}

// Create handles POST /subjects
func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req models.CreateSubjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validateTiers(req.Achievements); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	config := models.SubjectConfig{
		Name:         req.Name,
		Emoji:        req.Emoji,
		Color:        req.Color,
		QuestTypes:   req.QuestTypes,
		Achievements: req.Achievements,
		PipAmount:    req.PipAmount,
		TargetHours:  req.TargetHours,
		Resources:    req.Resources,
	}

	config, err := insertSubject(h.db, userID, config, 0)
	if err != nil {
		slog.Error("failed to insert subject", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create subject")
		return
	}

	slog.Info("subject created", "user_id", userID, "subject_id", config.ID)

	snapshot, err := h.progress.Get(r.Context(), userID, config.ID)
	if err != nil {
		slog.Error("failed to load new subject", "subject_id", config.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, snapshot)
}

// Get handles GET /subjects/{id}
func (h *SubjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	subjectID := r.PathValue("id")

	snapshot, err := h.progress.Get(r.Context(), userID, subjectID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Subject not found")
		return
	}
	if err != nil {
		slog.Error("failed to load subject", "subject_id", subjectID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snapshot)
}

// Update handles PUT /subjects/{id}
// Config edits only; progress counters are never touched here.
func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	subjectID := r.PathValue("id")

	var req models.UpdateSubjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validateTiers(req.Achievements); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	questTypes, achievements, resources, err := marshalConfigLists(req.QuestTypes, req.Achievements, req.Resources)
	if err != nil {
		slog.Error("failed to marshal config", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update subject")
		return
	}

	res, err := h.db.Exec(`
		UPDATE subject
		SET name = $1, emoji = $2, color = $3, pip_amount = $4, target_hours = $5,
		    quest_types = $6, achievements = $7, resources = $8
		WHERE id = $9 AND user_id = $10
	`, req.Name, req.Emoji, req.Color, req.PipAmount, req.TargetHours,
		questTypes, achievements, resources, subjectID, userID)
	if err != nil {
		slog.Error("failed to update subject", "subject_id", subjectID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update subject")
		return
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Subject not found")
		return
	}

	snapshot, err := h.progress.Get(r.Context(), userID, subjectID)
	if err != nil {
		slog.Error("failed to reload subject", "subject_id", subjectID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snapshot)
}

// Delete handles DELETE /subjects/{id}
// Cascades to progress, sessions, and subject-scoped goals.
func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	subjectID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM subject WHERE id = $1 AND user_id = $2`, subjectID, userID)
	if err != nil {
		slog.Error("failed to delete subject", "subject_id", subjectID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete subject")
		return
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Subject not found")
		return
	}

	// Drop the cached copy so a remote outage can't resurrect it
	if err := h.cache.Delete(r.Context(), userID, subjectID); err != nil {
		slog.Warn("failed to evict cached progress", "subject_id", subjectID, "error", err)
	}

	slog.Info("subject deleted", "user_id", userID, "subject_id", subjectID)

	w.WriteHeader(http.StatusNoContent)
}

// CreateFromTemplate handles POST /templates/{id}/subjects
func (h *SubjectHandler) CreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	templateID := r.PathValue("id")

	var tmpl models.Template
	var questTypes, achievements string
	err := h.db.QueryRow(`
		SELECT id, name, emoji, color, pip_amount, target_hours, quest_types, achievements, description
		FROM template WHERE id = $1
	`, templateID).Scan(&tmpl.ID, &tmpl.Name, &tmpl.Emoji, &tmpl.Color, &tmpl.PipAmount,
		&tmpl.TargetHours, &questTypes, &achievements, &tmpl.Description)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		slog.Error("failed to query template", "template_id", templateID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	config := models.SubjectConfig{
		Name:        tmpl.Name,
		Emoji:       tmpl.Emoji,
		Color:       tmpl.Color,
		PipAmount:   tmpl.PipAmount,
		TargetHours: tmpl.TargetHours,
	}
	if err := json.Unmarshal([]byte(questTypes), &config.QuestTypes); err != nil {
		slog.Error("corrupt template quest_types", "template_id", templateID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err := json.Unmarshal([]byte(achievements), &config.Achievements); err != nil {
		slog.Error("corrupt template achievements", "template_id", templateID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	config, err = insertSubject(h.db, userID, config, 0)
	if err != nil {
		slog.Error("failed to insert subject from template", "template_id", templateID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create subject")
		return
	}

	slog.Info("subject created from template",
		"user_id", userID, "subject_id", config.ID, "template_id", templateID)

	snapshot, err := h.progress.Get(r.Context(), userID, config.ID)
	if err != nil {
		slog.Error("failed to load new subject", "subject_id", config.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, snapshot)
}

// validateTiers rejects achievement lists that aren't sorted ascending by
// streak requirement; the ledger's tier scan depends on that order.
func validateTiers(tiers []models.AchievementTier) error {
	for i := 1; i < len(tiers); i++ {
		if tiers[i].StreakRequired < tiers[i-1].StreakRequired {
			return fmt.Errorf("achievements must be sorted ascending by streak_required")
		}
	}
	return nil
}

func marshalConfigLists(questTypes []models.QuestType, tiers []models.AchievementTier, resources []models.Resource) (string, string, string, error) {
	if questTypes == nil {
		questTypes = []models.QuestType{}
	}
	if tiers == nil {
		tiers = []models.AchievementTier{}
	}
	if resources == nil {
		resources = []models.Resource{}
	}

	qt, err := json.Marshal(questTypes)
	if err != nil {
		return "", "", "", err
	}
	at, err := json.Marshal(tiers)
	if err != nil {
		return "", "", "", err
	}
	res, err := json.Marshal(resources)
	if err != nil {
		return "", "", "", err
	}
	return string(qt), string(at), string(res), nil
}

// insertSubject creates the subject row plus its all-zero progress row,
// generating an id if needed. Returns the config with its id filled in.
func insertSubject(conn *sql.DB, userID string, config models.SubjectConfig, position int) (models.SubjectConfig, error) {
	if config.ID == "" {
		config.ID = uuid.NewString()
	}

	questTypes, achievements, resources, err := marshalConfigLists(config.QuestTypes, config.Achievements, config.Resources)
	if err != nil {
		return config, fmt.Errorf("failed to marshal config: %w", err)
	}

	_, err = conn.Exec(`
		INSERT INTO subject (id, user_id, name, emoji, color, pip_amount, target_hours, quest_types, achievements, resources, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, config.ID, userID, config.Name, config.Emoji, config.Color, config.PipAmount,
		config.TargetHours, questTypes, achievements, resources, position, time.Now())
	if err != nil {
		return config, fmt.Errorf("failed to insert subject: %w", err)
	}

	_, err = conn.Exec(`
		INSERT INTO subject_progress (subject_id, user_id, total_minutes, current_streak, longest_streak, achievement_level, last_study_date, total_xp)
		VALUES ($1, $2, 0, 0, 0, 0, NULL, 0)
	`, config.ID, userID)
	if err != nil {
		return config, fmt.Errorf("failed to insert progress: %w", err)
	}

	return config, nil
}
