// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/questlog/models"
)

// DateLayout is the calendar date format used throughout the ledger.
// Dates carry no time-of-day component.
const DateLayout = "2006-01-02"

// daysBetween returns the whole number of calendar days from one YYYY-MM-DD
// date to another, measured between the UTC midnights of the two dates.
// The second return value is false if either date fails to parse.
func daysBetween(from, to string) (int, bool) {
	a, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, false
	}
	b, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, false
	}
	return int(b.Sub(a) / (24 * time.Hour)), true
}

// nextStreak computes the new consecutive-day streak. Same-day entries leave
// the streak unchanged, a one-day gap extends it, and anything else
// (including out-of-order dates and unparseable inputs) resets it to 1.
func nextStreak(before models.SubjectProgress, date string) int {
	if before.LastStudyDate == "" {
		// First ever session for this subject.
		return 1
	}
	delta, ok := daysBetween(before.LastStudyDate, date)
	if !ok {
		return 1
	}
	switch delta {
	case 0:
		return before.CurrentStreak
	case 1:
		return before.CurrentStreak + 1
	default:
		return 1
	}
}

// questXP resolves the XP reward for a quest type by id. Unknown quest
// types are zero-value free-form entries, not errors.
func questXP(config models.SubjectConfig, questType string) int {
	for _, qt := range config.QuestTypes {
		if qt.ID == questType {
			return qt.XP
		}
	}
	return 0
}

// tierFor returns the index of the most advanced achievement tier whose
// streak requirement is met. Tiers are sorted ascending by StreakRequired,
// so the scan runs from the end and takes the first satisfying index.
// fallback is returned when no tier qualifies (tier 0 normally requires 0
// days, so that only happens with a malformed config).
func tierFor(tiers []models.AchievementTier, streak, fallback int) int {
	for i := len(tiers) - 1; i >= 0; i-- {
		if tiers[i].StreakRequired <= streak {
			return i
		}
	}
	return fallback
}

// Apply runs the session ledger rule: given the progress state before a new
// session and the proposed session, it returns the updated progress and the
// finalized session with a fresh id and its XP captured.
//
// Apply is total and has no side effects. It does not validate the input:
// duration is added as given (even zero or negative), the session date is
// taken as the caller's "today", and an unknown quest type simply earns no
// XP. Persisting the result and diffing before/after for notifications are
// the caller's responsibility.
func Apply(before models.SubjectProgress, input models.SessionInput) (models.SubjectProgress, models.Session) {
	streak := nextStreak(before, input.Date)
	xp := questXP(before.Config, input.QuestType)

	after := before
	after.TotalMinutes = before.TotalMinutes + input.Duration
	after.CurrentStreak = streak
	after.LongestStreak = max(before.LongestStreak, streak)
	after.AchievementLevel = tierFor(before.Config.Achievements, streak, before.AchievementLevel)
	after.LastStudyDate = input.Date
	after.TotalXP = before.TotalXP + xp

	session := models.Session{
		ID:        uuid.NewString(),
		SubjectID: input.SubjectID,
		Duration:  input.Duration,
		Date:      input.Date,
		Notes:     input.Notes,
		QuestType: input.QuestType,
		XPEarned:  xp,
	}

	return after, session
}

// ApplyPip runs the quick-add variant: a synthesized session of the
// subject's configured pip amount, attributed to the lowest-effort quest
// tier, fed through the same rule.
func ApplyPip(before models.SubjectProgress, date string) (models.SubjectProgress, models.Session) {
	return Apply(before, models.SessionInput{
		SubjectID: before.Config.ID,
		Duration:  before.Config.PipAmount,
		Date:      date,
		Notes:     models.PipNotes,
		QuestType: PipQuestType(before.Config),
	})
}

// PipQuestType picks the lowest-effort quest tier for pip sessions: the
// quest type with the smallest duration, first one winning ties. Returns
// the empty string when the subject has no quest types, which the rule
// treats as a zero-XP free-form entry.
func PipQuestType(config models.SubjectConfig) string {
	if len(config.QuestTypes) == 0 {
		return ""
	}
	lowest := config.QuestTypes[0]
	for _, qt := range config.QuestTypes[1:] {
		if qt.Duration < lowest.Duration {
			lowest = qt
		}
	}
	return lowest.ID
}
