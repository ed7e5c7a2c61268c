// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/questlog/models"
	"github.com/danielhkuo/questlog/testutil"
)

func TestCreateSubject(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")

	req := testutil.MakeRequest("POST", "/subjects", models.CreateSubjectRequest{
		Name:  "Spanish",
		Emoji: "🇪🇸",
		Color: "#AA3333",
		QuestTypes: []models.QuestType{
			{ID: "quick", Name: "Quick review", Duration: 5, XP: 10},
		},
		Achievements: []models.AchievementTier{
			{ID: "t0", Name: "Beginner", StreakRequired: 0},
			{ID: "t1", Name: "Regular", StreakRequired: 3},
		},
		PipAmount:   5,
		TargetHours: 100,
	}, nil)
	w := httptest.NewRecorder()
	env.subjects.Create(w, authed(req, userID, nil))

	testutil.AssertStatus(t, w, http.StatusCreated)

	var snapshot models.SubjectProgress
	testutil.AssertJSON(t, w, &snapshot)
	if snapshot.Config.ID == "" {
		t.Error("Expected a generated subject id")
	}
	if snapshot.Config.Name != "Spanish" {
		t.Errorf("Expected name Spanish, got %q", snapshot.Config.Name)
	}
	// Progress starts at zero with no study date
	if snapshot.TotalMinutes != 0 || snapshot.CurrentStreak != 0 || snapshot.LastStudyDate != "" {
		t.Errorf("Expected zero progress, got %+v", snapshot)
	}
}

func TestCreateSubjectValidation(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")

	// Missing name
	w := httptest.NewRecorder()
	env.subjects.Create(w, authed(testutil.MakeRequest("POST", "/subjects",
		models.CreateSubjectRequest{}, nil), userID, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Achievement tiers out of order
	w = httptest.NewRecorder()
	env.subjects.Create(w, authed(testutil.MakeRequest("POST", "/subjects",
		models.CreateSubjectRequest{
			Name: "Spanish",
			Achievements: []models.AchievementTier{
				{ID: "t1", StreakRequired: 7},
				{ID: "t0", StreakRequired: 3},
			},
		}, nil), userID, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetSubject(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")
	subjectID := testutil.CreateTestSubject(t, env.db, userID, testutil.DefaultTestConfig(""))

	req := testutil.MakeRequest("GET", "/subjects/"+subjectID, nil, nil)
	w := httptest.NewRecorder()
	env.subjects.Get(w, authed(req, userID, map[string]string{"id": subjectID}))

	testutil.AssertStatus(t, w, http.StatusOK)

	var snapshot models.SubjectProgress
	testutil.AssertJSON(t, w, &snapshot)
	if snapshot.Config.ID != subjectID {
		t.Errorf("Expected subject %s, got %s", subjectID, snapshot.Config.ID)
	}
	if len(snapshot.Config.QuestTypes) != 2 {
		t.Errorf("Expected 2 quest types, got %d", len(snapshot.Config.QuestTypes))
	}
}

func TestGetSubjectNotFound(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")

	req := testutil.MakeRequest("GET", "/subjects/nope", nil, nil)
	w := httptest.NewRecorder()
	env.subjects.Get(w, authed(req, userID, map[string]string{"id": "nope"}))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetSubjectIsolatedPerUser(t *testing.T) {
	env := newTestEnv(t)
	aliceID, _ := testutil.CreateTestUser(t, env.db, "alice")
	bobID, _ := testutil.CreateTestUser(t, env.db, "bob")
	subjectID := testutil.CreateTestSubject(t, env.db, aliceID, testutil.DefaultTestConfig(""))

	// Bob can't see Alice's subject
	req := testutil.MakeRequest("GET", "/subjects/"+subjectID, nil, nil)
	w := httptest.NewRecorder()
	env.subjects.Get(w, authed(req, bobID, map[string]string{"id": subjectID}))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestUpdateSubjectKeepsProgress(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")
	config := testutil.DefaultTestConfig("")
	subjectID := testutil.CreateTestSubject(t, env.db, userID, config)

	config.ID = subjectID
	progress := models.SubjectProgress{
		Config:        config,
		TotalMinutes:  120,
		CurrentStreak: 4,
		LongestStreak: 4,
		LastStudyDate: "2024-03-01",
		TotalXP:       90,
	}
	testutil.SetTestProgress(t, env.db, userID, progress)

	req := testutil.MakeRequest("PUT", "/subjects/"+subjectID, models.UpdateSubjectRequest{
		Name:         "Renamed",
		Emoji:        "🎓",
		QuestTypes:   config.QuestTypes,
		Achievements: config.Achievements,
		PipAmount:    10,
		TargetHours:  60,
	}, nil)
	w := httptest.NewRecorder()
	env.subjects.Update(w, authed(req, userID, map[string]string{"id": subjectID}))

	testutil.AssertStatus(t, w, http.StatusOK)

	var snapshot models.SubjectProgress
	testutil.AssertJSON(t, w, &snapshot)
	if snapshot.Config.Name != "Renamed" {
		t.Errorf("Expected renamed subject, got %q", snapshot.Config.Name)
	}
	// Config edits never touch the counters
	if snapshot.TotalMinutes != 120 || snapshot.CurrentStreak != 4 || snapshot.LastStudyDate != "2024-03-01" {
		t.Errorf("Expected progress untouched, got %+v", snapshot)
	}
}

func TestUpdateSubjectNotFound(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")

	req := testutil.MakeRequest("PUT", "/subjects/nope", models.UpdateSubjectRequest{Name: "X"}, nil)
	w := httptest.NewRecorder()
	env.subjects.Update(w, authed(req, userID, map[string]string{"id": "nope"}))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDeleteSubjectCascades(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")
	subjectID := testutil.CreateTestSubject(t, env.db, userID, testutil.DefaultTestConfig(""))

	// Record a session so there's something to cascade
	req := testutil.MakeRequest("POST", "/subjects/"+subjectID+"/sessions", models.RecordSessionRequest{
		Duration: 30,
		Date:     "2024-03-01",
	}, nil)
	w := httptest.NewRecorder()
	env.sessions.Record(w, authed(req, userID, map[string]string{"id": subjectID}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	req = testutil.MakeRequest("DELETE", "/subjects/"+subjectID, nil, nil)
	w = httptest.NewRecorder()
	env.subjects.Delete(w, authed(req, userID, map[string]string{"id": subjectID}))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	var count int
	if err := env.db.QueryRow(`SELECT COUNT(*) FROM session WHERE subject_id = $1`, subjectID).Scan(&count); err != nil {
		t.Fatalf("Failed to count sessions: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected sessions to cascade, %d remain", count)
	}

	// Deleted subject no longer resolves, not even via the cache
	req = testutil.MakeRequest("GET", "/subjects/"+subjectID, nil, nil)
	w = httptest.NewRecorder()
	env.subjects.Get(w, authed(req, userID, map[string]string{"id": subjectID}))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestListSubjects(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")
	testutil.CreateTestSubject(t, env.db, userID, testutil.DefaultTestConfig(""))
	testutil.CreateTestSubject(t, env.db, userID, testutil.DefaultTestConfig(""))

	req := testutil.MakeRequest("GET", "/subjects", nil, nil)
	w := httptest.NewRecorder()
	env.subjects.List(w, authed(req, userID, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SubjectListResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Subjects) != 2 {
		t.Errorf("Expected 2 subjects, got %d", len(resp.Subjects))
	}
}

func TestCreateSubjectFromTemplate(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")

	req := testutil.MakeRequest("POST", "/templates/tmpl-reading/subjects", nil, nil)
	w := httptest.NewRecorder()
	env.subjects.CreateFromTemplate(w, authed(req, userID, map[string]string{"id": "tmpl-reading"}))

	testutil.AssertStatus(t, w, http.StatusCreated)

	var snapshot models.SubjectProgress
	testutil.AssertJSON(t, w, &snapshot)
	if snapshot.Config.Name != "Reading" {
		t.Errorf("Expected Reading subject, got %q", snapshot.Config.Name)
	}
	if len(snapshot.Config.Achievements) == 0 {
		t.Error("Expected achievements copied from the template")
	}
}

func TestCreateSubjectFromUnknownTemplate(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")

	req := testutil.MakeRequest("POST", "/templates/nope/subjects", nil, nil)
	w := httptest.NewRecorder()
	env.subjects.CreateFromTemplate(w, authed(req, userID, map[string]string{"id": "nope"}))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
