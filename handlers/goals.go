// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/questlog/cliparse"
	"github.com/danielhkuo/questlog/middleware"
	"github.com/danielhkuo/questlog/models"
)

type GoalHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewGoalHandler(conn *sql.DB, cfg cliparse.Config) *GoalHandler {
	return &GoalHandler{db: conn, cfg: cfg}
}

// List handles GET /goals
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	rows, err := h.db.Query(`
		SELECT id, subject_id, title, target_minutes, deadline, completed, created_at
		FROM goal
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		slog.Error("failed to query goals", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		var subjectID, deadline sql.NullString
		var completed int
		if err := rows.Scan(&g.ID, &subjectID, &g.Title, &g.TargetMinutes,
			&deadline, &completed, &g.CreatedAt); err != nil {
			slog.Error("failed to scan goal", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if subjectID.Valid {
			g.SubjectID = &subjectID.String
		}
		if deadline.Valid {
			g.Deadline = &deadline.String
		}
		g.Completed = completed != 0
		goals = append(goals, g)
	}

	middleware.JSONResponse(w, http.StatusOK, models.GoalListResponse{Goals: goals})
}

// Create handles POST /goals
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req models.CreateGoalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.TargetMinutes < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "target_minutes must not be negative")
		return
	}

	// A subject-scoped goal must reference the caller's own subject
	if req.SubjectID != nil {
		var owner string
		err := h.db.QueryRow(`SELECT user_id FROM subject WHERE id = $1`, *req.SubjectID).Scan(&owner)
		if err == sql.ErrNoRows || (err == nil && owner != userID) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "subject_id does not reference your subject")
			return
		}
		if err != nil {
			slog.Error("failed to query subject", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	goal := models.Goal{
		ID:            uuid.NewString(),
		SubjectID:     req.SubjectID,
		Title:         req.Title,
		TargetMinutes: req.TargetMinutes,
		Deadline:      req.Deadline,
		CreatedAt:     time.Now(),
	}

	_, err := h.db.Exec(`
		INSERT INTO goal (id, user_id, subject_id, title, target_minutes, deadline, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`, goal.ID, userID, nullable(goal.SubjectID), goal.Title, goal.TargetMinutes,
		nullable(goal.Deadline), goal.CreatedAt)
	if err != nil {
		slog.Error("failed to insert goal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create goal")
		return
	}

	slog.Info("goal created", "user_id", userID, "goal_id", goal.ID)

	middleware.JSONResponse(w, http.StatusCreated, goal)
}

// Update handles PUT /goals/{id}
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	goalID := r.PathValue("id")

	var req models.UpdateGoalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	completed := 0
	if req.Completed {
		completed = 1
	}

	res, err := h.db.Exec(`
		UPDATE goal
		SET title = $1, target_minutes = $2, deadline = $3, completed = $4
		WHERE id = $5 AND user_id = $6
	`, req.Title, req.TargetMinutes, nullable(req.Deadline), completed, goalID, userID)
	if err != nil {
		slog.Error("failed to update goal", "goal_id", goalID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update goal")
		return
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Goal not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /goals/{id}
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	goalID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM goal WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		slog.Error("failed to delete goal", "goal_id", goalID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Goal not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// nullable converts an optional string to a driver-friendly value.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
