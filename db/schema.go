// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// Column types and timestamps are kept portable between sqlite and
// postgres: JSON lists live in TEXT columns and all timestamps are
// written from Go rather than via DB-side defaults.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_app_user_username ON app_user(username);

-- Bearer tokens
CREATE TABLE IF NOT EXISTS auth_token (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_auth_token_user_id ON auth_token(user_id);

-- Subject configs (quest types, achievement tiers, and resources as JSON lists)
CREATE TABLE IF NOT EXISTS subject (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    emoji TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    pip_amount INTEGER NOT NULL DEFAULT 5,
    target_hours INTEGER NOT NULL DEFAULT 0,
    quest_types TEXT NOT NULL DEFAULT '[]',
    achievements TEXT NOT NULL DEFAULT '[]',
    resources TEXT NOT NULL DEFAULT '[]',
    position INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_subject_user_id ON subject(user_id);

-- Per-subject ledger state. Exactly one row per (user, subject);
-- last_study_date is a plain YYYY-MM-DD calendar date or NULL.
CREATE TABLE IF NOT EXISTS subject_progress (
    subject_id TEXT PRIMARY KEY REFERENCES subject(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    total_minutes INTEGER NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    achievement_level INTEGER NOT NULL DEFAULT 0,
    last_study_date TEXT,
    total_xp INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_subject_progress_user_id ON subject_progress(user_id);

-- Sessions (append-only; xp_earned is captured at creation time)
CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL REFERENCES subject(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    duration INTEGER NOT NULL,
    date TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    quest_type TEXT NOT NULL DEFAULT '',
    xp_earned INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_subject_id ON session(subject_id);
CREATE INDEX IF NOT EXISTS idx_session_user_date ON session(user_id, date);

-- Goals (optionally scoped to a subject)
CREATE TABLE IF NOT EXISTS goal (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    subject_id TEXT REFERENCES subject(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    target_minutes INTEGER NOT NULL DEFAULT 0,
    deadline TEXT,
    completed INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_goal_user_id ON goal(user_id);

-- Seeded subject templates (global, read-only)
CREATE TABLE IF NOT EXISTS template (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    emoji TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    pip_amount INTEGER NOT NULL DEFAULT 5,
    target_hours INTEGER NOT NULL DEFAULT 0,
    quest_types TEXT NOT NULL DEFAULT '[]',
    achievements TEXT NOT NULL DEFAULT '[]',
    description TEXT NOT NULL DEFAULT ''
);

-- Per-user UI settings
CREATE TABLE IF NOT EXISTS setting (
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (user_id, key)
);
`
