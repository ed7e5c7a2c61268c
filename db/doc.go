// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles relational schema creation and template seeding.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL is portable between sqlite (modernc.org/sqlite) and postgres
(lib/pq): JSON lists live in TEXT columns, booleans in INTEGER, and all
timestamps are written from Go instead of DB-side defaults.

# Tables

  - app_user: accounts with bcrypt password hashes
  - auth_token: bearer tokens with expiry
  - subject: per-user subject configs (quest types, tiers, resources as JSON)
  - subject_progress: per-subject ledger state (one row per subject)
  - session: append-only study session records
  - goal: per-user goals, optionally subject-scoped
  - template: seeded subject blueprints (global)
  - setting: per-user key/value UI settings

# Relationships

	app_user 1──* subject 1──1 subject_progress
	subject 1──* session
	app_user 1──* goal (goal *──1 subject, optional)
	app_user 1──* auth_token
	app_user 1──* setting

All foreign keys use ON DELETE CASCADE, so deleting a subject removes its
progress, sessions, and subject-scoped goals; deleting a user removes
everything.

# Template Seeding

SeedTemplates inserts the built-in subject templates on first run:

	if err := db.SeedTemplates(conn); err != nil {
		log.Fatal(err)
	}

BuiltinTemplates exposes the same blueprints for default-subject creation
when a new user registers.
*/
package db
