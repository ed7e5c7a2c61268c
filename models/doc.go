// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest / LoginRequest: username, password
  - RecordSessionRequest: duration, date, notes, quest_type
  - PipRequest: date
  - CreateSubjectRequest / UpdateSubjectRequest: full subject config
  - CreateGoalRequest / UpdateGoalRequest: goal fields
  - UpdateSettingsRequest: settings map

# Response Types

Types for JSON responses:

  - AuthResponse: token, user_id
  - RecordSessionResponse: session, subject snapshot, unlocked tier
  - SubjectListResponse, SessionListResponse, GoalListResponse
  - TemplateListResponse, SettingsResponse, ImportResponse
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - SubjectConfig: user-editable subject template (quest types, tiers, resources)
  - SubjectProgress: per-subject ledger state (streaks, XP, total minutes)
  - Session: immutable append-only study session record
  - QuestType: session category with duration and XP reward
  - AchievementTier: streak-threshold milestone
  - Goal, Template, ExportBundle

# Date Handling

Calendar dates are plain YYYY-MM-DD strings everywhere (SubjectProgress.
LastStudyDate, Session.Date). They carry no time-of-day component and are
never derived from the server clock; callers supply "today" explicitly.

# Constants

Resource priorities:

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

Pip sessions carry the sentinel notes value:

	PipNotes = "Quick pip"
*/
package models
