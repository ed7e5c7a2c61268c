// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
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

type ExportHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	sqlStore *store.SQLStore
}

func NewExportHandler(conn *sql.DB, cfg cliparse.Config, sqlStore *store.SQLStore) *ExportHandler {
	return &ExportHandler{db: conn, cfg: cfg, sqlStore: sqlStore}
}

// Export handles GET /export
// Returns the user's full account data as a single JSON bundle.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	subjects, err := h.sqlStore.List(r.Context(), userID)
	if err != nil {
		slog.Error("failed to export subjects", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	sessions, err := h.exportSessions(userID)
	if err != nil {
		slog.Error("failed to export sessions", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	goals, err := h.exportGoals(userID)
	if err != nil {
		slog.Error("failed to export goals", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	settings, err := loadSettings(h.db, userID)
	if err != nil {
		slog.Error("failed to export settings", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("account exported", "user_id", userID,
		"subjects", len(subjects), "sessions", len(sessions))

	middleware.JSONResponse(w, http.StatusOK, models.ExportBundle{
		Version:    models.ExportVersion,
		ExportedAt: time.Now().UTC(),
		Subjects:   subjects,
		Sessions:   sessions,
		Goals:      goals,
		Settings:   settings,
	})
}

// Import handles POST /import
// Accepts only this server's own export bundle and replaces the user's
// data wholesale. Foreign file formats are rejected at the version check.
func (h *ExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var bundle models.ExportBundle
	if err := middleware.ParseJSONBody(r, &bundle); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if bundle.Version != models.ExportVersion {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported export version %d", bundle.Version))
		return
	}

	// Every session must reference an imported subject
	subjectIDs := map[string]bool{}
	for _, subject := range bundle.Subjects {
		if subject.Config.ID == "" || subject.Config.Name == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "subjects need an id and a name")
			return
		}
		subjectIDs[subject.Config.ID] = true
	}
	for _, session := range bundle.Sessions {
		if !subjectIDs[session.SubjectID] {
			middleware.ErrorResponse(w, http.StatusBadRequest,
				fmt.Sprintf("session %s references unknown subject %s", session.ID, session.SubjectID))
			return
		}
	}

	if err := h.replaceUserData(userID, bundle); err != nil {
		slog.Error("failed to import bundle", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import data")
		return
	}

	slog.Info("account imported", "user_id", userID,
		"subjects", len(bundle.Subjects), "sessions", len(bundle.Sessions))

	middleware.JSONResponse(w, http.StatusOK, models.ImportResponse{
		Subjects: len(bundle.Subjects),
		Sessions: len(bundle.Sessions),
		Goals:    len(bundle.Goals),
	})
}

func (h *ExportHandler) exportSessions(userID string) ([]models.Session, error) {
	rows, err := h.db.Query(`
		SELECT id, subject_id, duration, date, notes, quest_type, xp_earned, created_at
		FROM session
		WHERE user_id = $1
		ORDER BY date, created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.SubjectID, &s.Duration, &s.Date, &s.Notes,
			&s.QuestType, &s.XPEarned, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (h *ExportHandler) exportGoals(userID string) ([]models.Goal, error) {
	rows, err := h.db.Query(`
		SELECT id, subject_id, title, target_minutes, deadline, completed, created_at
		FROM goal
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		var subjectID, deadline sql.NullString
		var completed int
		if err := rows.Scan(&g.ID, &subjectID, &g.Title, &g.TargetMinutes,
			&deadline, &completed, &g.CreatedAt); err != nil {
			return nil, err
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
	return goals, rows.Err()
}

// replaceUserData swaps the user's subjects, sessions, goals, and
// settings for the bundle's contents in one transaction. Every row is
// inserted under a fresh id: the bundle's ids may still be live in
// another account (importing a shared bundle, restoring into a second
// account), and subject ids are globally unique.
func (h *ExportHandler) replaceUserData(userID string, bundle models.ExportBundle) error {
	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	// Subjects cascade to progress, sessions, and subject-scoped goals
	if _, err := tx.Exec(`DELETE FROM subject WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear subjects: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM goal WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear goals: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM setting WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}

	subjectIDs := map[string]string{}
	for position, subject := range bundle.Subjects {
		questTypes, achievements, resources, err := marshalConfigLists(
			subject.Config.QuestTypes, subject.Config.Achievements, subject.Config.Resources)
		if err != nil {
			return fmt.Errorf("failed to marshal subject config: %w", err)
		}

		newID := uuid.NewString()
		subjectIDs[subject.Config.ID] = newID

		_, err = tx.Exec(`
			INSERT INTO subject (id, user_id, name, emoji, color, pip_amount, target_hours, quest_types, achievements, resources, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, newID, userID, subject.Config.Name, subject.Config.Emoji,
			subject.Config.Color, subject.Config.PipAmount, subject.Config.TargetHours,
			questTypes, achievements, resources, position, time.Now())
		if err != nil {
			return fmt.Errorf("failed to insert subject %s: %w", subject.Config.ID, err)
		}

		var lastStudyDate any
		if subject.LastStudyDate != "" {
			lastStudyDate = subject.LastStudyDate
		}
		_, err = tx.Exec(`
			INSERT INTO subject_progress (subject_id, user_id, total_minutes, current_streak, longest_streak, achievement_level, last_study_date, total_xp)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, newID, userID, subject.TotalMinutes, subject.CurrentStreak,
			subject.LongestStreak, subject.AchievementLevel, lastStudyDate, subject.TotalXP)
		if err != nil {
			return fmt.Errorf("failed to insert progress %s: %w", subject.Config.ID, err)
		}
	}

	for _, session := range bundle.Sessions {
		createdAt := session.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		_, err := tx.Exec(`
			INSERT INTO session (id, subject_id, user_id, duration, date, notes, quest_type, xp_earned, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, uuid.NewString(), subjectIDs[session.SubjectID], userID, session.Duration, session.Date,
			session.Notes, session.QuestType, session.XPEarned, createdAt)
		if err != nil {
			return fmt.Errorf("failed to insert session %s: %w", session.ID, err)
		}
	}

	for _, goal := range bundle.Goals {
		completed := 0
		if goal.Completed {
			completed = 1
		}
		createdAt := goal.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		// Goals may point at a subject absent from the bundle; those
		// imports keep the goal but drop the dangling reference.
		var goalSubject any
		if goal.SubjectID != nil {
			if mapped, ok := subjectIDs[*goal.SubjectID]; ok {
				goalSubject = mapped
			}
		}
		_, err := tx.Exec(`
			INSERT INTO goal (id, user_id, subject_id, title, target_minutes, deadline, completed, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, uuid.NewString(), userID, goalSubject, goal.Title, goal.TargetMinutes,
			nullable(goal.Deadline), completed, createdAt)
		if err != nil {
			return fmt.Errorf("failed to insert goal %s: %w", goal.ID, err)
		}
	}

	for key, value := range bundle.Settings {
		_, err := tx.Exec(`
			INSERT INTO setting (user_id, key, value)
			VALUES ($1, $2, $3)
		`, userID, key, value)
		if err != nil {
			return fmt.Errorf("failed to insert setting %s: %w", key, err)
		}
	}

	return tx.Commit()
}
