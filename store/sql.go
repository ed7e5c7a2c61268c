// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/danielhkuo/questlog/models"
)

// SQLStore is the authoritative SubjectProgressStore backed by the
// relational database.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const progressQuery = `
	SELECT s.id, s.name, s.emoji, s.color, s.pip_amount, s.target_hours,
	       s.quest_types, s.achievements, s.resources,
	       p.total_minutes, p.current_streak, p.longest_streak,
	       p.achievement_level, p.last_study_date, p.total_xp
	FROM subject s
	JOIN subject_progress p ON p.subject_id = s.id
	WHERE s.user_id = $1`

// Get loads one subject's config and ledger state.
func (s *SQLStore) Get(ctx context.Context, userID, subjectID string) (models.SubjectProgress, error) {
	row := s.db.QueryRowContext(ctx, progressQuery+` AND s.id = $2`, userID, subjectID)

	progress, err := scanProgress(row)
	if err == sql.ErrNoRows {
		return models.SubjectProgress{}, ErrNotFound
	}
	if err != nil {
		return models.SubjectProgress{}, fmt.Errorf("failed to load progress: %w", err)
	}
	return progress, nil
}

// Put overwrites the subject's ledger row. Last writer wins.
func (s *SQLStore) Put(ctx context.Context, userID string, progress models.SubjectProgress) error {
	return updateProgress(ctx, s.db, userID, progress)
}

// RecordSession persists one ledger update atomically: the progress row
// overwrite and the session append either both commit or neither does,
// so total_minutes can never drift from the stored sessions.
func (s *SQLStore) RecordSession(ctx context.Context, userID string, progress models.SubjectProgress, session models.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin record: %w", err)
	}
	defer tx.Rollback()

	if err := updateProgress(ctx, tx, userID, progress); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO session (id, subject_id, user_id, duration, date, notes, quest_type, xp_earned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, session.ID, session.SubjectID, userID, session.Duration, session.Date,
		session.Notes, session.QuestType, session.XPEarned, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return tx.Commit()
}

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateProgress(ctx context.Context, ex execer, userID string, progress models.SubjectProgress) error {
	var lastStudyDate sql.NullString
	if progress.LastStudyDate != "" {
		lastStudyDate = sql.NullString{String: progress.LastStudyDate, Valid: true}
	}

	res, err := ex.ExecContext(ctx, `
		UPDATE subject_progress
		SET total_minutes = $1, current_streak = $2, longest_streak = $3,
		    achievement_level = $4, last_study_date = $5, total_xp = $6
		WHERE subject_id = $7 AND user_id = $8
	`, progress.TotalMinutes, progress.CurrentStreak, progress.LongestStreak,
		progress.AchievementLevel, lastStudyDate, progress.TotalXP,
		progress.Config.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check progress update: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// List loads all of a user's subjects with their ledger state, ordered by
// the user's configured position.
func (s *SQLStore) List(ctx context.Context, userID string) ([]models.SubjectProgress, error) {
	rows, err := s.db.QueryContext(ctx, progressQuery+` ORDER BY s.position, s.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	subjects := []models.SubjectProgress{}
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		subjects = append(subjects, progress)
	}
	return subjects, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProgress(row scanner) (models.SubjectProgress, error) {
	var progress models.SubjectProgress
	var questTypes, achievements, resources string
	var lastStudyDate sql.NullString

	err := row.Scan(
		&progress.Config.ID, &progress.Config.Name, &progress.Config.Emoji,
		&progress.Config.Color, &progress.Config.PipAmount, &progress.Config.TargetHours,
		&questTypes, &achievements, &resources,
		&progress.TotalMinutes, &progress.CurrentStreak, &progress.LongestStreak,
		&progress.AchievementLevel, &lastStudyDate, &progress.TotalXP,
	)
	if err != nil {
		return models.SubjectProgress{}, err
	}

	progress.LastStudyDate = lastStudyDate.String

	if err := json.Unmarshal([]byte(questTypes), &progress.Config.QuestTypes); err != nil {
		return models.SubjectProgress{}, fmt.Errorf("corrupt quest_types column: %w", err)
	}
	if err := json.Unmarshal([]byte(achievements), &progress.Config.Achievements); err != nil {
		return models.SubjectProgress{}, fmt.Errorf("corrupt achievements column: %w", err)
	}
	if err := json.Unmarshal([]byte(resources), &progress.Config.Resources); err != nil {
		return models.SubjectProgress{}, fmt.Errorf("corrupt resources column: %w", err)
	}

	return progress, nil
}
