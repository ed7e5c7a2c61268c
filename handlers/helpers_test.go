// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/danielhkuo/questlog/middleware"
	"github.com/danielhkuo/questlog/store"
	"github.com/danielhkuo/questlog/testutil"
)

// testEnv bundles the database, stores, and handlers most tests need.
type testEnv struct {
	db       *sql.DB
	sqlStore *store.SQLStore
	cache    *store.KVCache
	progress *store.Tiered
	blobs    *store.BlobStore

	users     *UserHandler
	subjects  *SubjectHandler
	sessions  *SessionHandler
	goals     *GoalHandler
	templates *TemplateHandler
	settings  *SettingsHandler
	export    *ExportHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	kv := testutil.SetupTestKV(t)
	cfg := testutil.GetTestConfig()

	sqlStore := store.NewSQLStore(conn)
	cache := store.NewKVCache(kv)
	progress := store.NewTiered(sqlStore, cache)
	blobs := store.NewBlobStore(kv)

	return &testEnv{
		db:        conn,
		sqlStore:  sqlStore,
		cache:     cache,
		progress:  progress,
		blobs:     blobs,
		users:     NewUserHandler(conn, cfg),
		subjects:  NewSubjectHandler(conn, cfg, sqlStore, progress, cache),
		sessions:  NewSessionHandler(conn, cfg, sqlStore, progress, cache),
		goals:     NewGoalHandler(conn, cfg),
		templates: NewTemplateHandler(conn, cfg),
		settings:  NewSettingsHandler(conn, cfg),
		export:    NewExportHandler(conn, cfg, sqlStore),
	}
}

// authed attaches the user id the way the auth guard would and sets a
// path value if the route has one.
func authed(r *http.Request, userID string, pathValues map[string]string) *http.Request {
	r = middleware.WithUserID(r, userID)
	for k, v := range pathValues {
		r.SetPathValue(k, v)
	}
	return r
}
