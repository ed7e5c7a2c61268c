// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/questlog/auth"
	"github.com/danielhkuo/questlog/cliparse"
	"github.com/danielhkuo/questlog/db"
	"github.com/danielhkuo/questlog/models"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full
// schema and seeded templates. Each test gets its own database; the
// single-connection pool keeps the in-memory store alive for the test's
// duration.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	if err := db.SeedTemplates(conn); err != nil {
		t.Fatalf("Failed to seed templates: %v", err)
	}

	return conn
}

// SetupTestKV opens an in-memory badger store.
func SetupTestKV(t *testing.T) *badger.DB {
	t.Helper()

	kv, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("Failed to open test badger: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         4170,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		DataDir:      "",
		IPHashSalt:   "test-ip-salt",
		TokenTTL:     24,
		RateLimit:    1000,
		RateWindow:   60,
	}
}

// testPasswordHash is a placeholder hash so user fixtures skip bcrypt
// hashing. Tests that exercise real credentials go through the register
// and login handlers instead.
const testPasswordHash = "$2a$04$fixture-not-a-real-credential-hash"

// CreateTestUser inserts a user with a valid bearer token and returns
// both ids.
func CreateTestUser(t *testing.T, conn *sql.DB, username string) (userID, token string) {
	t.Helper()

	userID, _ = auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO app_user (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, userID, username, testPasswordHash, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	token, _ = auth.GenerateToken()
	now := time.Now()
	_, err = conn.Exec(`
		INSERT INTO auth_token (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, token, userID, now, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test token: %v", err)
	}

	return userID, token
}

// DefaultTestConfig returns a subject config with a quest ladder and
// achievement tiers suitable for ledger-driven tests.
func DefaultTestConfig(subjectID string) models.SubjectConfig {
	return models.SubjectConfig{
		ID:    subjectID,
		Name:  "Test Subject",
		Emoji: "📚",
		Color: "#336699",
		QuestTypes: []models.QuestType{
			{ID: "quick", Name: "Quick review", Duration: 5, XP: 10, Emoji: "⚡"},
			{ID: "medium", Name: "Focused block", Duration: 30, XP: 25, Emoji: "📖"},
		},
		Achievements: []models.AchievementTier{
			{ID: "t0", Name: "Beginner", StreakRequired: 0},
			{ID: "t1", Name: "Regular", StreakRequired: 3},
			{ID: "t2", Name: "Dedicated", StreakRequired: 7},
		},
		PipAmount:   5,
		TargetHours: 50,
	}
}

// CreateTestSubject inserts a subject config with an all-zero progress
// row and returns the subject ID.
func CreateTestSubject(t *testing.T, conn *sql.DB, userID string, config models.SubjectConfig) string {
	t.Helper()

	if config.ID == "" {
		config.ID, _ = auth.GenerateID(12)
	}

	questTypes, _ := json.Marshal(config.QuestTypes)
	achievements, _ := json.Marshal(config.Achievements)
	resources := "[]"
	if config.Resources != nil {
		b, _ := json.Marshal(config.Resources)
		resources = string(b)
	}

	_, err := conn.Exec(`
		INSERT INTO subject (id, user_id, name, emoji, color, pip_amount, target_hours, quest_types, achievements, resources, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11)
	`, config.ID, userID, config.Name, config.Emoji, config.Color, config.PipAmount,
		config.TargetHours, string(questTypes), string(achievements), resources, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test subject: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO subject_progress (subject_id, user_id, total_minutes, current_streak, longest_streak, achievement_level, last_study_date, total_xp)
		VALUES ($1, $2, 0, 0, 0, 0, NULL, 0)
	`, config.ID, userID)
	if err != nil {
		t.Fatalf("Failed to create test progress: %v", err)
	}

	return config.ID
}

// SetTestProgress overwrites a subject's progress row directly.
func SetTestProgress(t *testing.T, conn *sql.DB, userID string, progress models.SubjectProgress) {
	t.Helper()

	var lastStudyDate any
	if progress.LastStudyDate != "" {
		lastStudyDate = progress.LastStudyDate
	}

	_, err := conn.Exec(`
		UPDATE subject_progress
		SET total_minutes = $1, current_streak = $2, longest_streak = $3,
		    achievement_level = $4, last_study_date = $5, total_xp = $6
		WHERE subject_id = $7 AND user_id = $8
	`, progress.TotalMinutes, progress.CurrentStreak, progress.LongestStreak,
		progress.AchievementLevel, lastStudyDate, progress.TotalXP,
		progress.Config.ID, userID)
	if err != nil {
		t.Fatalf("Failed to set test progress: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
