// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/questlog/auth"
	"github.com/danielhkuo/questlog/cliparse"
	"github.com/danielhkuo/questlog/db"
	"github.com/danielhkuo/questlog/middleware"
	"github.com/danielhkuo/questlog/models"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(conn *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: conn, cfg: cfg}
}

// Register handles POST /auth/register
// Creates an account, seeds default subjects, and returns a bearer token.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username must be at least 3 characters")
		return
	}
	if len(req.Password) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	// Reject duplicates up front for a friendly error
	var existing string
	err := h.db.QueryRow(`SELECT id FROM app_user WHERE username = $1`, req.Username).Scan(&existing)
	if err == nil {
		middleware.ErrorResponse(w, http.StatusConflict, "username already taken")
		return
	}
	if err != sql.ErrNoRows {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	userID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate user ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO app_user (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, userID, req.Username, hash, time.Now())
	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	// Seed default subjects so a new account isn't empty
	if err := seedDefaultSubjects(h.db, userID); err != nil {
		slog.Error("failed to seed default subjects", "user_id", userID, "error", err)
	}

	token, err := h.issueToken(userID)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("user registered", "user_id", userID, "username", req.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Token:  token,
		UserID: userID,
	})
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var userID, hash string
	err := h.db.QueryRow(`
		SELECT id, password_hash FROM app_user WHERE username = $1
	`, strings.TrimSpace(req.Username)).Scan(&userID, &hash)

	if err == sql.ErrNoRows {
		// Same response as a bad password; don't reveal which was wrong
		h.logFailedLogin(r)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		h.logFailedLogin(r)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := h.issueToken(userID)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		Token:  token,
		UserID: userID,
	})
}

// Logout handles POST /auth/logout
// Deletes the presented token; other sessions stay valid.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authorization bearer token required")
		return
	}

	if _, err := h.db.Exec(`DELETE FROM auth_token WHERE token = $1`, token); err != nil {
		slog.Error("failed to delete token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// logFailedLogin records the attempt with a salted IP hash; raw client
// addresses never reach the logs.
func (h *UserHandler) logFailedLogin(r *http.Request) {
	slog.Warn("login failed", "ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt))
}

func (h *UserHandler) issueToken(userID string) (string, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO auth_token (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, token, userID, now, now.Add(time.Duration(h.cfg.TokenTTL)*time.Hour))
	if err != nil {
		return "", err
	}
	return token, nil
}

// seedDefaultSubjects creates starter subjects from the first two built-in
// templates so a brand-new user has something to track.
func seedDefaultSubjects(conn *sql.DB, userID string) error {
	templates := db.BuiltinTemplates()
	if len(templates) > 2 {
		templates = templates[:2]
	}

	for i, tmpl := range templates {
		config := models.SubjectConfig{
			Name:         tmpl.Name,
			Emoji:        tmpl.Emoji,
			Color:        tmpl.Color,
			QuestTypes:   tmpl.QuestTypes,
			Achievements: tmpl.Achievements,
			PipAmount:    tmpl.PipAmount,
			TargetHours:  tmpl.TargetHours,
		}
		if _, err := insertSubject(conn, userID, config, i); err != nil {
			return err
		}
	}
	return nil
}
