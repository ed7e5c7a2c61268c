// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Resource priority constants
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// PipNotes is the sentinel notes value for quick-add pip sessions.
const PipNotes = "Quick pip"

// Request types

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RecordSessionRequest struct {
	Duration  int    `json:"duration"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
	QuestType string `json:"quest_type"`
}

type PipRequest struct {
	Date string `json:"date"`
}

type CreateSubjectRequest struct {
	Name         string            `json:"name"`
	Emoji        string            `json:"emoji"`
	Color        string            `json:"color"`
	QuestTypes   []QuestType       `json:"quest_types"`
	Achievements []AchievementTier `json:"achievements"`
	PipAmount    int               `json:"pip_amount"`
	TargetHours  int               `json:"target_hours"`
	Resources    []Resource        `json:"resources"`
}

type UpdateSubjectRequest = CreateSubjectRequest

type CreateGoalRequest struct {
	SubjectID     *string `json:"subject_id,omitempty"`
	Title         string  `json:"title"`
	TargetMinutes int     `json:"target_minutes"`
	Deadline      *string `json:"deadline,omitempty"`
}

type UpdateGoalRequest struct {
	Title         string  `json:"title"`
	TargetMinutes int     `json:"target_minutes"`
	Deadline      *string `json:"deadline,omitempty"`
	Completed     bool    `json:"completed"`
}

type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings"`
}

// Response types

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type RecordSessionResponse struct {
	Session  Session          `json:"session"`
	Subject  SubjectProgress  `json:"subject"`
	Unlocked *AchievementTier `json:"unlocked,omitempty"`
}

type SubjectListResponse struct {
	Subjects []SubjectProgress `json:"subjects"`
}

type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

type GoalListResponse struct {
	Goals []Goal `json:"goals"`
}

type TemplateListResponse struct {
	Templates []Template `json:"templates"`
}

type SettingsResponse struct {
	Settings map[string]string `json:"settings"`
}

type ImportResponse struct {
	Subjects int `json:"subjects"`
	Sessions int `json:"sessions"`
	Goals    int `json:"goals"`
}

// Domain types

// QuestType is a named session category with a fixed expected duration and
// XP reward.
type QuestType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"` // minutes
	XP       int    `json:"xp"`
	Emoji    string `json:"emoji"`
}

// AchievementTier is a milestone unlocked once the current streak reaches
// StreakRequired days. Tiers are stored sorted ascending by StreakRequired,
// and tier 0 conventionally requires 0 days so every streak has a tier.
type AchievementTier struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Emoji          string `json:"emoji"`
	StreakRequired int    `json:"streak_required"`
}

type Resource struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Priority string `json:"priority"`
}

// SubjectConfig is the user-editable template for a subject. Edits to it
// never touch progress counters.
type SubjectConfig struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Emoji        string            `json:"emoji"`
	Color        string            `json:"color"`
	QuestTypes   []QuestType       `json:"quest_types"`
	Achievements []AchievementTier `json:"achievements"`
	PipAmount    int               `json:"pip_amount"` // minutes per quick-tap pip
	TargetHours  int               `json:"target_hours"`
	Resources    []Resource        `json:"resources"`
}

// SubjectProgress is the mutable per-user per-subject ledger state.
// LastStudyDate is a plain YYYY-MM-DD calendar date; empty means the
// subject has never been studied.
type SubjectProgress struct {
	Config           SubjectConfig `json:"config"`
	TotalMinutes     int           `json:"total_minutes"`
	CurrentStreak    int           `json:"current_streak"`
	LongestStreak    int           `json:"longest_streak"`
	AchievementLevel int           `json:"achievement_level"`
	LastStudyDate    string        `json:"last_study_date,omitempty"`
	TotalXP          int           `json:"total_xp"`
}

// SessionInput is a proposed session before the ledger rule runs. The rule
// fills in the ID and XPEarned.
type SessionInput struct {
	SubjectID string `json:"subject_id"`
	Duration  int    `json:"duration"`
	Date      string `json:"date"` // YYYY-MM-DD
	Notes     string `json:"notes"`
	QuestType string `json:"quest_type"`
}

// Session is an immutable, append-only ledger entry. XPEarned is captured
// once at creation time and never recomputed.
type Session struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Duration  int       `json:"duration"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes"`
	QuestType string    `json:"quest_type"`
	XPEarned  int       `json:"xp_earned"`
	CreatedAt time.Time `json:"created_at"`
}

type Goal struct {
	ID            string    `json:"id"`
	SubjectID     *string   `json:"subject_id,omitempty"`
	Title         string    `json:"title"`
	TargetMinutes int       `json:"target_minutes"`
	Deadline      *string   `json:"deadline,omitempty"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
}

// Template is a seeded, read-only subject blueprint.
type Template struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Emoji        string            `json:"emoji"`
	Color        string            `json:"color"`
	PipAmount    int               `json:"pip_amount"`
	TargetHours  int               `json:"target_hours"`
	QuestTypes   []QuestType       `json:"quest_types"`
	Achievements []AchievementTier `json:"achievements"`
	Description  string            `json:"description"`
}

// ExportBundle is the full-account export format. Import accepts exactly
// this shape and nothing else.
type ExportBundle struct {
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Subjects   []SubjectProgress `json:"subjects"`
	Sessions   []Session         `json:"sessions"`
	Goals      []Goal            `json:"goals"`
	Settings   map[string]string `json:"settings"`
}

// ExportVersion is the current ExportBundle schema version.
const ExportVersion = 1

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
