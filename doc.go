// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// questlog is a self-hostable study tracker with a gamified habit loop:
// users register subjects, log study sessions or one-tap "pips", and the
// server maintains per-subject streaks, XP, and achievement tiers.
//
// Progress snapshots live in a relational database (SQLite or Postgres)
// with a Badger key/value cache layered on top for read fallback. The
// streak and XP arithmetic itself is a pure function in the ledger
// package; handlers only fetch a snapshot, apply a session to it, and
// persist the result.
//
// Run with:
//
//	questlog -d questlog.db -ip-salt <salt>
package main
