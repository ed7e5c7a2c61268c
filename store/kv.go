// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/danielhkuo/questlog/models"
)

// Key prefixes for badger storage
const (
	progressKeyPrefix = "progress:"
	blobKeyPrefix     = "blob:"
)

// KVCache is the badger-backed local SubjectProgressStore. It holds the
// last written copy of each progress record so reads can survive a remote
// outage.
type KVCache struct {
	db *badger.DB
}

func NewKVCache(db *badger.DB) *KVCache {
	return &KVCache{db: db}
}

func progressKey(userID, subjectID string) []byte {
	return []byte(progressKeyPrefix + userID + ":" + subjectID)
}

// Get retrieves the cached progress record.
func (c *KVCache) Get(ctx context.Context, userID, subjectID string) (models.SubjectProgress, error) {
	var progress models.SubjectProgress

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(progressKey(userID, subjectID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get progress: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &progress)
		})
	})
	if err != nil {
		return models.SubjectProgress{}, err
	}
	return progress, nil
}

// Put stores the progress record, overwriting any previous copy.
func (c *KVCache) Put(ctx context.Context, userID string, progress models.SubjectProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(progressKey(userID, progress.Config.ID), data)
	})
}

// Delete removes a cached record. Called when its subject is deleted.
func (c *KVCache) Delete(ctx context.Context, userID, subjectID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(progressKey(userID, subjectID))
	})
}

// BlobStore holds ad-hoc client blobs in badger, namespaced per user.
// The server treats blob values as opaque bytes.
type BlobStore struct {
	db *badger.DB
}

func NewBlobStore(db *badger.DB) *BlobStore {
	return &BlobStore{db: db}
}

func blobKey(userID, key string) []byte {
	return []byte(blobKeyPrefix + userID + ":" + key)
}

// Put stores a blob under the user's namespace.
func (b *BlobStore) Put(ctx context.Context, userID, key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(blobKey(userID, key), value)
	})
}

// Get retrieves a blob. Returns ErrNotFound for unknown keys.
func (b *BlobStore) Get(ctx context.Context, userID, key string) ([]byte, error) {
	var value []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blobKey(userID, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get blob: %w", err)
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Delete removes a blob. Deleting an absent key is not an error.
func (b *BlobStore) Delete(ctx context.Context, userID, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(blobKey(userID, key))
	})
}
