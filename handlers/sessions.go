// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/questlog/cliparse"
	"github.com/danielhkuo/questlog/ledger"
	"github.com/danielhkuo/questlog/middleware"
	"github.com/danielhkuo/questlog/models"
	"github.com/danielhkuo/questlog/store"
)

type SessionHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	sqlStore *store.SQLStore
	progress *store.Tiered
	cache    *store.KVCache
}

func NewSessionHandler(conn *sql.DB, cfg cliparse.Config, sqlStore *store.SQLStore, progress *store.Tiered, cache *store.KVCache) *SessionHandler {
	return &SessionHandler{db: conn, cfg: cfg, sqlStore: sqlStore, progress: progress, cache: cache}
}

// Record handles POST /subjects/{id}/sessions
// Validates the request, runs the ledger rule, and persists the outcome.
func (h *SessionHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	subjectID := r.PathValue("id")

	var req models.RecordSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Caller-side validation; the ledger rule itself accepts anything
	if req.Duration <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "duration must be a positive number of minutes")
		return
	}
	if _, err := time.Parse(ledger.DateLayout, req.Date); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	h.record(w, r, userID, subjectID, models.SessionInput{
		SubjectID: subjectID,
		Duration:  req.Duration,
		Date:      req.Date,
		Notes:     req.Notes,
		QuestType: req.QuestType,
	}, false)
}

// Pip handles POST /subjects/{id}/pip
// Quick-add: a fixed-duration session through the same ledger rule.
func (h *SessionHandler) Pip(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	subjectID := r.PathValue("id")

	var req models.PipRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if _, err := time.Parse(ledger.DateLayout, req.Date); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	h.record(w, r, userID, subjectID, models.SessionInput{Date: req.Date}, true)
}

// record runs the ledger rule against the stored state and persists the
// result: the updated progress row (last writer wins) and the appended
// session. pip selects the quick-add variant.
func (h *SessionHandler) record(w http.ResponseWriter, r *http.Request, userID, subjectID string, input models.SessionInput, pip bool) {
	before, err := h.progress.Get(r.Context(), userID, subjectID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Subject not found")
		return
	}
	if err != nil {
		slog.Error("failed to load progress", "subject_id", subjectID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var after models.SubjectProgress
	var session models.Session
	if pip {
		after, session = ledger.ApplyPip(before, input.Date)
	} else {
		after, session = ledger.Apply(before, input)
	}

	// Progress overwrite and session append commit together; the cache
	// is refreshed only after the authoritative write lands.
	session.CreatedAt = time.Now()
	if err := h.sqlStore.RecordSession(r.Context(), userID, after, session); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Subject not found")
			return
		}
		slog.Error("failed to record session", "session_id", session.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record session")
		return
	}

	if err := h.cache.Put(r.Context(), userID, after); err != nil {
		slog.Warn("progress cache write failed", "subject_id", subjectID, "error", err)
	}

	slog.Info("session recorded",
		"user_id", userID,
		"subject_id", subjectID,
		"duration", session.Duration,
		"streak", after.CurrentStreak,
		"xp", session.XPEarned,
		"pip", pip,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.RecordSessionResponse{
		Session:  session,
		Subject:  after,
		Unlocked: unlockedTier(before, after),
	})
}

// unlockedTier reports the newly reached achievement tier, if the update
// advanced one. Diffing before/after is presentation-side; the ledger
// rule itself doesn't notify.
func unlockedTier(before, after models.SubjectProgress) *models.AchievementTier {
	if after.AchievementLevel <= before.AchievementLevel {
		return nil
	}
	tiers := after.Config.Achievements
	if after.AchievementLevel >= len(tiers) {
		return nil
	}
	tier := tiers[after.AchievementLevel]
	return &tier
}

// History handles GET /subjects/{id}/sessions
// Returns the subject's sessions, newest first. Optional ?limit=N.
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	subjectID := r.PathValue("id")

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	// Confirm ownership before listing
	var owner string
	err := h.db.QueryRow(`SELECT user_id FROM subject WHERE id = $1`, subjectID).Scan(&owner)
	if err == sql.ErrNoRows || (err == nil && owner != userID) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Subject not found")
		return
	}
	if err != nil {
		slog.Error("failed to query subject", "subject_id", subjectID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, subject_id, duration, date, notes, quest_type, xp_earned, created_at
		FROM session
		WHERE subject_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`, subjectID, limit)
	if err != nil {
		slog.Error("failed to query sessions", "subject_id", subjectID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.SubjectID, &s.Duration, &s.Date, &s.Notes,
			&s.QuestType, &s.XPEarned, &s.CreatedAt); err != nil {
			slog.Error("failed to scan session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		sessions = append(sessions, s)
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionListResponse{Sessions: sessions})
}
