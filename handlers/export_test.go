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

func TestExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")
	subjectID := testutil.CreateTestSubject(t, env.db, userID, testutil.DefaultTestConfig(""))

	w := recordSession(t, env, userID, subjectID, models.RecordSessionRequest{
		Duration:  30,
		Date:      "2024-03-01",
		QuestType: "medium",
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	req := testutil.MakeRequest("PUT", "/settings", models.UpdateSettingsRequest{
		Settings: map[string]string{"theme": "dark"},
	}, nil)
	w = httptest.NewRecorder()
	env.settings.Update(w, authed(req, userID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Export
	req = testutil.MakeRequest("GET", "/export", nil, nil)
	w = httptest.NewRecorder()
	env.export.Export(w, authed(req, userID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var bundle models.ExportBundle
	testutil.AssertJSON(t, w, &bundle)
	if bundle.Version != models.ExportVersion {
		t.Errorf("Expected version %d, got %d", models.ExportVersion, bundle.Version)
	}
	if len(bundle.Subjects) != 1 || len(bundle.Sessions) != 1 {
		t.Fatalf("Expected 1 subject and 1 session, got %d/%d", len(bundle.Subjects), len(bundle.Sessions))
	}

	// Import into a second account
	bobID, _ := testutil.CreateTestUser(t, env.db, "bob")
	req = testutil.MakeRequest("POST", "/import", bundle, nil)
	w = httptest.NewRecorder()
	env.export.Import(w, authed(req, bobID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ImportResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Subjects != 1 || resp.Sessions != 1 {
		t.Errorf("Expected 1 subject and 1 session imported, got %+v", resp)
	}

	// Bob's copy carries the progress counters under a fresh subject id;
	// alice still owns the original one.
	snapshots, err := env.sqlStore.List(req.Context(), bobID)
	if err != nil {
		t.Fatalf("Failed to list imported subjects: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("Expected 1 imported subject, got %d", len(snapshots))
	}
	snapshot := snapshots[0]
	if snapshot.Config.ID == subjectID {
		t.Error("Expected imported subject to get a new id")
	}
	if snapshot.TotalMinutes != 30 || snapshot.CurrentStreak != 1 || snapshot.LastStudyDate != "2024-03-01" {
		t.Errorf("Expected imported progress preserved, got %+v", snapshot)
	}

	if _, err := env.progress.Get(req.Context(), userID, subjectID); err != nil {
		t.Errorf("Expected alice's original subject untouched: %v", err)
	}
}

func TestImportReplacesExistingData(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")
	oldSubject := testutil.CreateTestSubject(t, env.db, userID, testutil.DefaultTestConfig(""))

	bundle := models.ExportBundle{
		Version: models.ExportVersion,
		Subjects: []models.SubjectProgress{
			{Config: models.SubjectConfig{ID: "imported-1", Name: "Imported"}},
		},
	}

	req := testutil.MakeRequest("POST", "/import", bundle, nil)
	w := httptest.NewRecorder()
	env.export.Import(w, authed(req, userID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	subjects, err := env.sqlStore.List(req.Context(), userID)
	if err != nil {
		t.Fatalf("Failed to list subjects: %v", err)
	}
	if len(subjects) != 1 || subjects[0].Config.Name != "Imported" {
		t.Errorf("Expected only the imported subject, got %+v", subjects)
	}

	// The pre-import subject is gone
	for _, s := range subjects {
		if s.Config.ID == oldSubject {
			t.Error("Expected old subject replaced")
		}
	}
}

func TestImportRejectsForeignFormats(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")

	// Wrong version
	req := testutil.MakeRequest("POST", "/import", models.ExportBundle{Version: 99}, nil)
	w := httptest.NewRecorder()
	env.export.Import(w, authed(req, userID, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Session referencing a subject not in the bundle
	req = testutil.MakeRequest("POST", "/import", models.ExportBundle{
		Version: models.ExportVersion,
		Subjects: []models.SubjectProgress{
			{Config: models.SubjectConfig{ID: "s1", Name: "One"}},
		},
		Sessions: []models.Session{
			{ID: "x", SubjectID: "other", Duration: 10, Date: "2024-03-01"},
		},
	}, nil)
	w = httptest.NewRecorder()
	env.export.Import(w, authed(req, userID, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Subject without an id
	req = testutil.MakeRequest("POST", "/import", models.ExportBundle{
		Version: models.ExportVersion,
		Subjects: []models.SubjectProgress{
			{Config: models.SubjectConfig{Name: "No id"}},
		},
	}, nil)
	w = httptest.NewRecorder()
	env.export.Import(w, authed(req, userID, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
