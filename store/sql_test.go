// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/questlog/models"
	"github.com/danielhkuo/questlog/store"
	"github.com/danielhkuo/questlog/testutil"
)

func TestSQLStoreGetPut(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.NewSQLStore(conn)
	ctx := context.Background()

	userID, _ := testutil.CreateTestUser(t, conn, "alice")
	subjectID := testutil.CreateTestSubject(t, conn, userID, testutil.DefaultTestConfig(""))

	progress, err := s.Get(ctx, userID, subjectID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if progress.Config.ID != subjectID {
		t.Errorf("Expected subject %s, got %s", subjectID, progress.Config.ID)
	}
	if progress.LastStudyDate != "" {
		t.Errorf("Expected no study date on a fresh subject, got %q", progress.LastStudyDate)
	}
	if len(progress.Config.QuestTypes) != 2 {
		t.Errorf("Expected 2 quest types, got %d", len(progress.Config.QuestTypes))
	}

	progress.TotalMinutes = 45
	progress.CurrentStreak = 2
	progress.LongestStreak = 2
	progress.LastStudyDate = "2024-03-02"
	progress.TotalXP = 35
	if err := s.Put(ctx, userID, progress); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, userID, subjectID)
	if err != nil {
		t.Fatalf("Get after Put failed: %v", err)
	}
	if got.TotalMinutes != 45 || got.CurrentStreak != 2 || got.LastStudyDate != "2024-03-02" {
		t.Errorf("Expected updated progress, got %+v", got)
	}
}

func TestSQLStoreGetNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.NewSQLStore(conn)

	userID, _ := testutil.CreateTestUser(t, conn, "alice")

	_, err := s.Get(context.Background(), userID, "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLStorePutUnknownSubject(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.NewSQLStore(conn)

	userID, _ := testutil.CreateTestUser(t, conn, "alice")

	err := s.Put(context.Background(), userID, models.SubjectProgress{
		Config: models.SubjectConfig{ID: "nope"},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLStoreListScopedToUser(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.NewSQLStore(conn)
	ctx := context.Background()

	aliceID, _ := testutil.CreateTestUser(t, conn, "alice")
	bobID, _ := testutil.CreateTestUser(t, conn, "bob")
	testutil.CreateTestSubject(t, conn, aliceID, testutil.DefaultTestConfig(""))
	testutil.CreateTestSubject(t, conn, aliceID, testutil.DefaultTestConfig(""))
	testutil.CreateTestSubject(t, conn, bobID, testutil.DefaultTestConfig(""))

	subjects, err := s.List(ctx, aliceID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(subjects) != 2 {
		t.Errorf("Expected 2 subjects for alice, got %d", len(subjects))
	}
}
