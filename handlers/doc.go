// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Questlog API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

  - UserHandler: register, login, logout
  - SubjectHandler: subject CRUD and template instantiation
  - SessionHandler: session recording, pips, and history
  - GoalHandler: goal CRUD
  - TemplateHandler: seeded template listing
  - SettingsHandler: per-user settings
  - ExportHandler: full-account export and import
  - BlobHandler: ad-hoc key-value blobs

Handlers over relational data take *sql.DB and Config; the progress-
touching handlers additionally take the stores they read and write:

	sessionHandler := handlers.NewSessionHandler(db, cfg, sqlStore, progress, cache)

# Recording Sessions

The record and pip endpoints are the two call sites of the ledger rule:

	POST /subjects/{id}/sessions → Record (validates, then ledger.Apply)
	POST /subjects/{id}/pip      → Pip (ledger.ApplyPip)

The handler validates the request (positive duration, YYYY-MM-DD date)
before the rule runs, since the rule itself deliberately accepts
anything. The progress overwrite and the session row commit in one
transaction (store.SQLStore.RecordSession); the badger cache is
refreshed only after the commit lands. The response carries the new
subject snapshot plus the newly unlocked achievement tier, if the
update crossed one.

# Authentication

All routes except register, login, and health run behind
middleware.RequireAuth, which resolves the bearer token to a user id.
Handlers read it with middleware.UserID(r) and scope every query by it.

# Import/Export

GET /export returns an ExportBundle with the user's subjects, sessions,
goals, and settings. POST /import accepts only that bundle shape and
replaces the user's data in one transaction; sessions referencing
unknown subjects are rejected before anything is touched. Imported rows
get fresh ids, so a bundle can be restored into any account without
colliding with the account it came from.
*/
package handlers
