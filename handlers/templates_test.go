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

func TestListTemplates(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := testutil.CreateTestUser(t, env.db, "alice")

	req := testutil.MakeRequest("GET", "/templates", nil, nil)
	w := httptest.NewRecorder()
	env.templates.List(w, authed(req, userID, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.TemplateListResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Templates) != 4 {
		t.Fatalf("Expected 4 seeded templates, got %d", len(resp.Templates))
	}
	for _, tmpl := range resp.Templates {
		if len(tmpl.QuestTypes) == 0 || len(tmpl.Achievements) == 0 {
			t.Errorf("Template %s missing quest types or achievements", tmpl.ID)
		}
	}
}
