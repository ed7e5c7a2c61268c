// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielhkuo/questlog/models"
)

var (
	ErrNotFound = errors.New("progress record not found")
)

// SubjectProgressStore is the capability shared by the authoritative
// relational store and the local cache: load and overwrite one subject's
// ledger state. Put is a whole-record overwrite; whichever writer lands
// last wins, with no reconciliation between devices.
type SubjectProgressStore interface {
	Get(ctx context.Context, userID, subjectID string) (models.SubjectProgress, error)
	Put(ctx context.Context, userID string, progress models.SubjectProgress) error
}

// Tiered is the explicit read/write policy over a remote store and a
// local cache. Reads prefer the remote and fall back to the cache when
// the remote fails (not when the record simply doesn't exist). Writes go
// through to the remote first; a cache write failure is logged, never
// fatal.
type Tiered struct {
	Remote SubjectProgressStore
	Cache  SubjectProgressStore
}

func NewTiered(remote, cache SubjectProgressStore) *Tiered {
	return &Tiered{Remote: remote, Cache: cache}
}

// Get reads from the remote store, serving the cached copy only when the
// remote is unavailable. A remote ErrNotFound is authoritative and is not
// masked by a stale cache entry.
func (t *Tiered) Get(ctx context.Context, userID, subjectID string) (models.SubjectProgress, error) {
	progress, err := t.Remote.Get(ctx, userID, subjectID)
	if err == nil {
		return progress, nil
	}
	if errors.Is(err, ErrNotFound) {
		return models.SubjectProgress{}, err
	}

	slog.Warn("remote progress read failed, falling back to cache",
		"subject_id", subjectID, "error", err)

	cached, cacheErr := t.Cache.Get(ctx, userID, subjectID)
	if cacheErr != nil {
		// Report the remote failure; the cache miss is secondary.
		return models.SubjectProgress{}, err
	}
	return cached, nil
}

// Put writes through to the remote store, then refreshes the cache.
func (t *Tiered) Put(ctx context.Context, userID string, progress models.SubjectProgress) error {
	if err := t.Remote.Put(ctx, userID, progress); err != nil {
		return err
	}

	if err := t.Cache.Put(ctx, userID, progress); err != nil {
		slog.Warn("progress cache write failed",
			"subject_id", progress.Config.ID, "error", err)
	}
	return nil
}
