// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/questlog/models"
	"github.com/danielhkuo/questlog/router"
	"github.com/danielhkuo/questlog/testutil"
)

func TestFullFlow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	kv := testutil.SetupTestKV(t)
	mux := router.NewRouter(conn, kv, testutil.GetTestConfig())

	// Register
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/auth/register", models.RegisterRequest{
		Username: "alice",
		Password: "correct-horse",
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var authResp models.AuthResponse
	testutil.AssertJSON(t, w, &authResp)
	headers := map[string]string{"Authorization": "Bearer " + authResp.Token}

	// The new account has its default subjects
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/subjects", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)

	var list models.SubjectListResponse
	testutil.AssertJSON(t, w, &list)
	if len(list.Subjects) != 2 {
		t.Fatalf("Expected 2 default subjects, got %d", len(list.Subjects))
	}
	subjectID := list.Subjects[0].Config.ID

	// Record a session through the full stack
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/subjects/"+subjectID+"/sessions",
		models.RecordSessionRequest{Duration: 30, Date: "2024-03-01", QuestType: "medium"}, headers))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var recorded models.RecordSessionResponse
	testutil.AssertJSON(t, w, &recorded)
	if recorded.Subject.CurrentStreak != 1 {
		t.Errorf("Expected streak 1, got %d", recorded.Subject.CurrentStreak)
	}

	// The snapshot endpoint agrees
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/subjects/"+subjectID, nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)

	var snapshot models.SubjectProgress
	testutil.AssertJSON(t, w, &snapshot)
	if snapshot.TotalMinutes != 30 || snapshot.LastStudyDate != "2024-03-01" {
		t.Errorf("Expected recorded progress, got %+v", snapshot)
	}
}

func TestRoutesRequireAuth(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	kv := testutil.SetupTestKV(t)
	mux := router.NewRouter(conn, kv, testutil.GetTestConfig())

	routes := []struct {
		method string
		path   string
	}{
		{"GET", "/subjects"},
		{"POST", "/subjects"},
		{"GET", "/goals"},
		{"GET", "/templates"},
		{"GET", "/settings"},
		{"GET", "/export"},
		{"GET", "/blobs/ui-state"},
	}

	for _, route := range routes {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(route.method, route.path, nil, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", route.method, route.path, w.Code)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	kv := testutil.SetupTestKV(t)
	mux := router.NewRouter(conn, kv, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/health", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}
