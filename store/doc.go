// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides the two-tier persistence layer for subject
progress, plus the ad-hoc blob store.

# SubjectProgressStore

Both tiers implement the same capability, a Get and a Put of a full
subject snapshot keyed by user and subject. SQLStore is the
authoritative tier, backed by the relational database; KVCache is a
badger-backed local copy of the last written state.

# Tiered Policy

Tiered makes the read/write ordering explicit instead of scattering
fallback try/catch logic through handlers:

	progress := store.NewTiered(store.NewSQLStore(db), store.NewKVCache(kv))

Reads hit the remote store; the cache answers only when the remote fails
outright (a remote "not found" is authoritative). Writes go through to
the remote first and then refresh the cache; cache failures are logged
and swallowed.

Consistency is last-writer-wins. Put overwrites the whole record, and
concurrent writers for the same user from different devices are not
reconciled.

# Blob Store

BlobStore keeps opaque client blobs in badger under per-user keys:

	blob:<user_id>:<key>

Values are stored as raw bytes; the server never inspects them.
*/
package store
