package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/readnextapp/readnext-server/internal/domain"
	"github.com/readnextapp/readnext-server/internal/id"
	"github.com/readnextapp/readnext-server/internal/title"
)

// Key prefixes for suggestion storage.
const (
	suggestionPrefix = "suggestion:"         // suggestion:{titleKey} -> Suggestion
	suggestionSeqKey = "meta:suggestion-seq" // monotonic creation counter
)

// SuggestionUpdate is a partial update to a suggestion. Nil fields are left
// unchanged; all set fields commit together in one transaction.
type SuggestionUpdate struct {
	Title         *string
	TotalChapters *int
	NextChapter   *int
	Notes         *string
}

// CreateSuggestion creates a new suggestion in the store.
// The title key must be unused; a collision returns ErrDuplicateTitle and
// leaves the existing record unchanged. The record is checked here as well
// as in the service, so direct store callers cannot write a malformed entry.
// The ID, creation sequence, and timestamps are assigned here.
func (s *Store) CreateSuggestion(ctx context.Context, sug *domain.Suggestion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sug.Key == "" {
		return ErrInvalidTitle
	}
	if sug.Notes == "" {
		return ErrInvalidNotes
	}
	if sug.TotalChapters < 0 || sug.NextChapter < 0 {
		return ErrInvalidChapters
	}

	sugID, err := id.Generate("sug")
	if err != nil {
		return fmt.Errorf("generate suggestion id: %w", err)
	}

	key := []byte(suggestionPrefix + sug.Key)

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrDuplicateTitle
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check existing suggestion: %w", err)
		}

		seq, err := nextSeq(txn)
		if err != nil {
			return err
		}

		now := time.Now()
		sug.ID = sugID
		sug.Seq = seq
		sug.CreatedAt = now
		sug.UpdatedAt = now

		return setInTxn(txn, key, sug)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("suggestion created",
			"key", sug.Key,
			"title", sug.Title,
			"owner_id", sug.OwnerID,
			"total_chapters", sug.TotalChapters,
		)
	}
	return nil
}

// GetSuggestion retrieves a suggestion by its title key.
func (s *Store) GetSuggestion(ctx context.Context, key string) (*domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sug domain.Suggestion
	if err := s.get([]byte(suggestionPrefix+key), &sug); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("get suggestion: %w", err)
	}
	return &sug, nil
}

// ListSuggestions returns all suggestions in display order: prioritized
// entries first, ties broken by creation order.
func (s *Store) ListSuggestions(ctx context.Context) ([]*domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var suggestions []*domain.Suggestion
	err := s.db.View(func(txn *badger.Txn) error {
		var innerErr error
		suggestions, innerErr = readAllSuggestions(txn)
		return innerErr
	})
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}

	slices.SortStableFunc(suggestions, domain.CompareSuggestions)
	return suggestions, nil
}

// ListSuggestionsByOwner returns the owner's suggestions in the same order
// as ListSuggestions.
func (s *Store) ListSuggestionsByOwner(ctx context.Context, ownerID string) ([]*domain.Suggestion, error) {
	all, err := s.ListSuggestions(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]*domain.Suggestion, 0, len(all))
	for _, sug := range all {
		if sug.OwnerID == ownerID {
			owned = append(owned, sug)
		}
	}
	return owned, nil
}

// UpdateSuggestion applies a partial update to a suggestion transactionally.
// A retitle moves the record to its new key inside the same transaction;
// retitling onto an existing key returns ErrDuplicateTitle. Ownership and
// prioritization are not updatable through this path.
func (s *Store) UpdateSuggestion(ctx context.Context, key string, upd SuggestionUpdate) (*domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	oldKey := []byte(suggestionPrefix + key)
	var updated domain.Suggestion

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(oldKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSuggestionNotFound
		}
		if err != nil {
			return fmt.Errorf("get suggestion: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &updated)
		}); err != nil {
			return fmt.Errorf("unmarshal suggestion: %w", err)
		}

		if upd.Title != nil {
			newKey := title.Key(*upd.Title)
			if newKey == "" {
				return ErrInvalidTitle
			}
			if newKey != updated.Key {
				if _, err := txn.Get([]byte(suggestionPrefix + newKey)); err == nil {
					return ErrDuplicateTitle
				} else if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("check retitle target: %w", err)
				}
				if err := txn.Delete(oldKey); err != nil {
					return fmt.Errorf("delete old suggestion key: %w", err)
				}
			}
			updated.Key = newKey
			updated.Title = *upd.Title
		}
		if upd.TotalChapters != nil {
			updated.TotalChapters = *upd.TotalChapters
		}
		if upd.NextChapter != nil {
			updated.NextChapter = *upd.NextChapter
		}
		if upd.Notes != nil {
			updated.Notes = *upd.Notes
		}
		updated.UpdatedAt = time.Now()

		return setInTxn(txn, []byte(suggestionPrefix+updated.Key), &updated)
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("suggestion updated",
			"key", key,
			"new_key", updated.Key,
			"owner_id", updated.OwnerID,
		)
	}
	return &updated, nil
}

// RemoveSuggestion deletes a suggestion by its title key. Removal is final:
// a second call for the same key returns ErrSuggestionNotFound.
func (s *Store) RemoveSuggestion(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dbKey := []byte(suggestionPrefix + key)

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(dbKey); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrSuggestionNotFound
			}
			return fmt.Errorf("get suggestion: %w", err)
		}
		return txn.Delete(dbKey)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("suggestion removed", "key", key)
	}
	return nil
}

// SetPrioritized overwrites the prioritization flag across the whole
// catalog in one transaction: entries whose keys appear in keys are flagged,
// every other entry is unflagged. Selected keys that no longer exist are
// returned in missing; they do not abort the overwrite.
func (s *Store) SetPrioritized(ctx context.Context, keys []string) (missing []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(keys))
	for _, k := range keys {
		selected[k] = true
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		all, err := readAllSuggestions(txn)
		if err != nil {
			return err
		}

		found := make(map[string]bool, len(all))
		now := time.Now()
		for _, sug := range all {
			found[sug.Key] = true
			want := selected[sug.Key]
			if sug.IsPrioritized == want {
				continue
			}
			sug.IsPrioritized = want
			sug.UpdatedAt = now
			if err := setInTxn(txn, []byte(suggestionPrefix+sug.Key), sug); err != nil {
				return err
			}
		}

		missing = missing[:0]
		for _, k := range keys {
			if !found[k] {
				missing = append(missing, k)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set prioritized: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("prioritization overwritten",
			"selected", len(keys),
			"missing", len(missing),
		)
	}
	return missing, nil
}

// readAllSuggestions decodes every suggestion record visible to the
// transaction, in key order.
func readAllSuggestions(txn *badger.Txn) ([]*domain.Suggestion, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(suggestionPrefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	var suggestions []*domain.Suggestion
	for it.Seek([]byte(suggestionPrefix)); it.ValidForPrefix([]byte(suggestionPrefix)); it.Next() {
		var sug domain.Suggestion
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &sug)
		})
		if err != nil {
			return nil, fmt.Errorf("unmarshal suggestion: %w", err)
		}
		suggestions = append(suggestions, &sug)
	}
	return suggestions, nil
}

// nextSeq increments and returns the catalog creation counter.
func nextSeq(txn *badger.Txn) (uint64, error) {
	var seq uint64
	item, err := txn.Get([]byte(suggestionSeqKey))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		seq = 0
	case err != nil:
		return 0, fmt.Errorf("read suggestion sequence: %w", err)
	default:
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &seq)
		}); err != nil {
			return 0, fmt.Errorf("unmarshal suggestion sequence: %w", err)
		}
	}

	seq++
	if err := setInTxn(txn, []byte(suggestionSeqKey), seq); err != nil {
		return 0, fmt.Errorf("write suggestion sequence: %w", err)
	}
	return seq, nil
}
