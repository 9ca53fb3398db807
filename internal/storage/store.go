// Package storage implements the diary entry store: create, list, lookup,
// full-record replacement and deletion over a single collection kept under one
// well-known key of a kv.Repository.
//
// Every mutation reads the whole collection, changes it in memory and writes
// the whole collection back. There is no locking between the read and the
// write, so two concurrent mutations may lose one of the updates
// (last write wins). Callers that need stronger guarantees must serialize
// their own writes.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/mydiary/internal/logging"
	"github.com/dmitrijs2005/mydiary/internal/models"
	"github.com/dmitrijs2005/mydiary/internal/repositories/kv"
)

// DefaultCollectionKey is the key the collection lives under.
const DefaultCollectionKey = "diary_entries"

type Store struct {
	repo kv.Repository
	key  string
	log  logging.Logger
}

// New returns a Store over repo. An empty key selects DefaultCollectionKey;
// a nil logger discards output.
func New(repo kv.Repository, key string, log logging.Logger) *Store {
	if key == "" {
		key = DefaultCollectionKey
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Store{repo: repo, key: key, log: log.With("collection", key)}
}

// Key returns the collection key.
func (s *Store) Key() string { return s.key }

// Create appends entry to the collection. Duplicate ids are not checked.
// Text that is not valid UTF-8 is rejected with common.ErrorValidation.
func (s *Store) Create(ctx context.Context, entry models.DiaryEntry) error {
	if err := entry.CheckEncoding(); err != nil {
		return err
	}
	entries, err := s.load(ctx)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	if err := s.save(ctx, entries); err != nil {
		return err
	}
	s.log.Debug(ctx, "entry created", "id", entry.ID, "count", len(entries))
	return nil
}

// List returns the collection in stored order; an absent key yields an
// empty, non-nil slice.
func (s *Store) List(ctx context.Context) ([]models.DiaryEntry, error) {
	return s.load(ctx)
}

// GetByID returns the first entry whose id matches. A missing id is reported
// with ok == false and a nil error.
func (s *Store) GetByID(ctx context.Context, id string) (entry models.DiaryEntry, ok bool, err error) {
	entries, err := s.load(ctx)
	if err != nil {
		return models.DiaryEntry{}, false, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, true, nil
		}
	}
	return models.DiaryEntry{}, false, nil
}

// Update replaces every stored entry whose id equals entry.ID with entry.
// It is a full replacement: no field of the old record survives. When nothing
// matches, the collection is written back unchanged and no error is returned.
// Text that is not valid UTF-8 is rejected before anything is read or written.
func (s *Store) Update(ctx context.Context, entry models.DiaryEntry) error {
	if err := entry.CheckEncoding(); err != nil {
		return err
	}
	entries, err := s.load(ctx)
	if err != nil {
		return err
	}

	replaced := 0
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			replaced++
		}
	}

	if err := s.save(ctx, entries); err != nil {
		return err
	}
	s.log.Debug(ctx, "entry updated", "id", entry.ID, "replaced", replaced)
	return nil
}

// DeleteByID removes every entry with the given id. Unknown ids are a no-op.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	entries, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.log.Debug(ctx, "entry deleted", "id", id, "removed", len(entries)-len(kept))
	return nil
}

func (s *Store) load(ctx context.Context) ([]models.DiaryEntry, error) {
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		s.log.Error(ctx, "collection read failed", "error", err)
		return nil, fmt.Errorf("read collection: %w", err)
	}

	entries := []models.DiaryEntry{}
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.log.Error(ctx, "collection decode failed", "error", err)
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if entries == nil {
		// stored JSON null
		entries = []models.DiaryEntry{}
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, entries []models.DiaryEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := s.repo.Set(ctx, s.key, raw); err != nil {
		s.log.Error(ctx, "collection write failed", "error", err)
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}
