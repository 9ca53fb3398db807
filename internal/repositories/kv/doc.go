// Package kv provides the persistent key-value primitive underneath the
// diary entry store.
//
// # Overview
//
// The entry store keeps its whole collection under one well-known key, so the
// only storage contract it needs is whole-value get/set per key. Repository
// captures that contract. Two implementations exist:
//
//   - SQLiteRepository — production backend over a local SQLite file
//     (table kv, created by internal/migrations)
//   - MemoryRepository — mutex-guarded map used by tests and ephemeral runs
//
// # Concurrency
//
// A single Set is atomic. Nothing here coordinates a read followed by a write;
// callers that read-modify-write get last-write-wins semantics.
//
// Typical Usage
//
//	db, _ := dbx.OpenSQLite(ctx, path)
//	_ = migrations.Up(ctx, db)
//	repo := kv.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, "diary_entries", payload)
//	v, _ := repo.Get(ctx, "diary_entries")
package kv
