// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/danielhkuo/questlog/models"
)

// defaultQuestTypes is the quest ladder shared by the built-in templates.
func defaultQuestTypes() []models.QuestType {
	return []models.QuestType{
		{ID: "pip", Name: "Quick pip", Duration: 5, XP: 5, Emoji: "⚡"},
		{ID: "short", Name: "Warm-up", Duration: 15, XP: 15, Emoji: "🔥"},
		{ID: "medium", Name: "Focused block", Duration: 30, XP: 35, Emoji: "📖"},
		{ID: "long", Name: "Deep dive", Duration: 60, XP: 80, Emoji: "🧠"},
	}
}

// defaultAchievements is the streak ladder shared by the built-in
// templates. Tier 0 requires 0 days so every streak maps to a tier.
func defaultAchievements() []models.AchievementTier {
	return []models.AchievementTier{
		{ID: "spark", Name: "Spark", Emoji: "✨", StreakRequired: 0},
		{ID: "kindling", Name: "Kindling", Emoji: "🔥", StreakRequired: 3},
		{ID: "blaze", Name: "Blaze", Emoji: "🎯", StreakRequired: 7},
		{ID: "bonfire", Name: "Bonfire", Emoji: "🏆", StreakRequired: 14},
		{ID: "wildfire", Name: "Wildfire", Emoji: "🌋", StreakRequired: 30},
	}
}

// BuiltinTemplates are the seeded subject blueprints. New users get a
// default subject created from each of the first two.
func BuiltinTemplates() []models.Template {
	return []models.Template{
		{
			ID:           "tmpl-language",
			Name:         "Language",
			Emoji:        "🗣️",
			Color:        "#4F86C6",
			PipAmount:    5,
			TargetHours:  200,
			QuestTypes:   defaultQuestTypes(),
			Achievements: defaultAchievements(),
			Description:  "Vocabulary, grammar, and listening practice.",
		},
		{
			ID:           "tmpl-programming",
			Name:         "Programming",
			Emoji:        "💻",
			Color:        "#00ADD8",
			PipAmount:    5,
			TargetHours:  300,
			QuestTypes:   defaultQuestTypes(),
			Achievements: defaultAchievements(),
			Description:  "Coding exercises, reading, and side projects.",
		},
		{
			ID:           "tmpl-music",
			Name:         "Music",
			Emoji:        "🎸",
			Color:        "#B26CA1",
			PipAmount:    10,
			TargetHours:  150,
			QuestTypes:   defaultQuestTypes(),
			Achievements: defaultAchievements(),
			Description:  "Scales, repertoire, and ear training.",
		},
		{
			ID:           "tmpl-reading",
			Name:         "Reading",
			Emoji:        "📚",
			Color:        "#C98A4B",
			PipAmount:    10,
			TargetHours:  100,
			QuestTypes:   defaultQuestTypes(),
			Achievements: defaultAchievements(),
			Description:  "Daily reading habit.",
		},
	}
}

// SeedTemplates inserts the built-in templates if the template table is
// empty. Safe to call on every startup.
func SeedTemplates(conn *sql.DB) error {
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM template`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count templates: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, tmpl := range BuiltinTemplates() {
		questTypes, err := json.Marshal(tmpl.QuestTypes)
		if err != nil {
			return fmt.Errorf("failed to marshal quest types: %w", err)
		}
		achievements, err := json.Marshal(tmpl.Achievements)
		if err != nil {
			return fmt.Errorf("failed to marshal achievements: %w", err)
		}

		_, err = conn.Exec(`
			INSERT INTO template (id, name, emoji, color, pip_amount, target_hours, quest_types, achievements, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, tmpl.ID, tmpl.Name, tmpl.Emoji, tmpl.Color, tmpl.PipAmount, tmpl.TargetHours,
			string(questTypes), string(achievements), tmpl.Description)
		if err != nil {
			return fmt.Errorf("failed to seed template %s: %w", tmpl.ID, err)
		}
	}

	return nil
}
