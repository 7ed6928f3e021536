package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/readnextapp/readnext-server/internal/domain"
	domainerrors "github.com/readnextapp/readnext-server/internal/errors"
	"github.com/readnextapp/readnext-server/internal/title"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "readnext-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		_ = store.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func newSuggestion(displayTitle, ownerID string) *domain.Suggestion {
	return &domain.Suggestion{
		Key:     title.Key(displayTitle),
		Title:   displayTitle,
		OwnerID: ownerID,
		Notes:   "test notes",
	}
}

func TestCreateSuggestion(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	sug := newSuggestion("Dune", "user-1")
	sug.TotalChapters = 48

	err := store.CreateSuggestion(ctx, sug)
	require.NoError(t, err)
	assert.NotZero(t, sug.Seq)
	assert.True(t, strings.HasPrefix(sug.ID, "sug-"))
	assert.False(t, sug.CreatedAt.IsZero())

	retrieved, err := store.GetSuggestion(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", retrieved.Title)
	assert.Equal(t, "user-1", retrieved.OwnerID)
	assert.Equal(t, 48, retrieved.TotalChapters)
	assert.False(t, retrieved.IsPrioritized)
}

func TestCreateSuggestion_DuplicateTitle(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first := newSuggestion("Dune", "user-1")
	first.Notes = "classic"
	require.NoError(t, store.CreateSuggestion(ctx, first))

	// Same key, different casing, different owner.
	dup := newSuggestion("DUNE", "user-2")
	dup.Notes = "dup"
	err := store.CreateSuggestion(ctx, dup)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateTitle)

	// The existing record is unchanged.
	retrieved, err := store.GetSuggestion(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, "user-1", retrieved.OwnerID)
	assert.Equal(t, "classic", retrieved.Notes)

	all, err := store.ListSuggestions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateSuggestion_EmptyKey(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.CreateSuggestion(context.Background(), &domain.Suggestion{Title: "  "})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestCreateSuggestion_MalformedRecord(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	// Direct store callers don't go through the service, so the record is
	// checked here too.
	noNotes := newSuggestion("Dune", "user-1")
	noNotes.Notes = ""
	assert.ErrorIs(t, store.CreateSuggestion(ctx, noNotes), domainerrors.ErrInvalidInput)

	negative := newSuggestion("Dune", "user-1")
	negative.TotalChapters = -1
	assert.ErrorIs(t, store.CreateSuggestion(ctx, negative), domainerrors.ErrInvalidInput)

	all, err := store.ListSuggestions(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetSuggestion_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetSuggestion(context.Background(), "missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListSuggestions_Ordering(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		require.NoError(t, store.CreateSuggestion(ctx, newSuggestion(name, "user-1")))
	}

	// Prioritize the last-created entry; it must sort first.
	_, err := store.SetPrioritized(ctx, []string{"gamma"})
	require.NoError(t, err)

	all, err := store.ListSuggestions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "gamma", all[0].Key)
	assert.Equal(t, "alpha", all[1].Key)
	assert.Equal(t, "beta", all[2].Key)

	// Repeated listing with no mutations yields an identical sequence.
	again, err := store.ListSuggestions(ctx)
	require.NoError(t, err)
	for i := range all {
		assert.Equal(t, all[i].Key, again[i].Key)
	}
}

func TestListSuggestionsByOwner(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateSuggestion(ctx, newSuggestion("Alpha", "user-1")))
	require.NoError(t, store.CreateSuggestion(ctx, newSuggestion("Beta", "user-2")))
	require.NoError(t, store.CreateSuggestion(ctx, newSuggestion("Gamma", "user-1")))

	owned, err := store.ListSuggestionsByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "alpha", owned[0].Key)
	assert.Equal(t, "gamma", owned[1].Key)

	// Same relative order as the full listing.
	all, err := store.ListSuggestions(ctx)
	require.NoError(t, err)
	var filtered []string
	for _, sug := range all {
		if sug.OwnerID == "user-1" {
			filtered = append(filtered, sug.Key)
		}
	}
	assert.Equal(t, []string{owned[0].Key, owned[1].Key}, filtered)

	none, err := store.ListSuggestionsByOwner(ctx, "user-9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateSuggestion_PartialFields(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	sug := newSuggestion("Dune", "user-1")
	sug.TotalChapters = 48
	require.NoError(t, store.CreateSuggestion(ctx, sug))

	next := 5
	updated, err := store.UpdateSuggestion(ctx, "dune", SuggestionUpdate{NextChapter: &next})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.NextChapter)

	// Untouched fields kept.
	assert.Equal(t, "Dune", updated.Title)
	assert.Equal(t, 48, updated.TotalChapters)
	assert.Equal(t, "test notes", updated.Notes)
	assert.Equal(t, "user-1", updated.OwnerID)
}

func TestUpdateSuggestion_Retitle(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	created := newSuggestion("Dune", "user-1")
	require.NoError(t, store.CreateSuggestion(ctx, created))

	newTitle := "Dune Messiah"
	updated, err := store.UpdateSuggestion(ctx, "dune", SuggestionUpdate{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "dune messiah", updated.Key)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, created.ID, updated.ID)

	// Old key is gone, new key resolves.
	_, err = store.GetSuggestion(ctx, "dune")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	retrieved, err := store.GetSuggestion(ctx, "dune messiah")
	require.NoError(t, err)
	assert.Equal(t, "user-1", retrieved.OwnerID)
}

func TestUpdateSuggestion_RetitleCollision(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateSuggestion(ctx, newSuggestion("Dune", "user-1")))
	require.NoError(t, store.CreateSuggestion(ctx, newSuggestion("Hyperion", "user-2")))

	clash := "dune"
	_, err := store.UpdateSuggestion(ctx, "hyperion", SuggestionUpdate{Title: &clash})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateTitle)

	// Both records survive intact.
	all, err := store.ListSuggestions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateSuggestion_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	notes := "updated"
	_, err := store.UpdateSuggestion(context.Background(), "missing", SuggestionUpdate{Notes: &notes})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRemoveSuggestion(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateSuggestion(ctx, newSuggestion("Dune", "user-1")))
	require.NoError(t, store.RemoveSuggestion(ctx, "dune"))

	_, err := store.GetSuggestion(ctx, "dune")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	all, err := store.ListSuggestions(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// Removal is not silently idempotent.
	err = store.RemoveSuggestion(ctx, "dune")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSetPrioritized_Overwrite(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, store.CreateSuggestion(ctx, newSuggestion(name, "user-1")))
	}

	// Flag a subset.
	missing, err := store.SetPrioritized(ctx, []string{"a", "c"})
	require.NoError(t, err)
	assert.Empty(t, missing)

	assertFlags := func(want map[string]bool) {
		t.Helper()
		all, err := store.ListSuggestions(ctx)
		require.NoError(t, err)
		got := make(map[string]bool, len(all))
		for _, sug := range all {
			got[sug.Key] = sug.IsPrioritized
		}
		assert.Equal(t, want, got)
	}

	assertFlags(map[string]bool{"a": true, "b": false, "c": true})

	// A fresh submission is a full overwrite, not a toggle.
	_, err = store.SetPrioritized(ctx, []string{"b"})
	require.NoError(t, err)
	assertFlags(map[string]bool{"a": false, "b": true, "c": false})

	// The empty selection clears every flag.
	_, err = store.SetPrioritized(ctx, nil)
	require.NoError(t, err)
	assertFlags(map[string]bool{"a": false, "b": false, "c": false})
}

func TestSetPrioritized_MissingKeys(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.CreateSuggestion(ctx, newSuggestion("A", "user-1")))

	missing, err := store.SetPrioritized(ctx, []string{"a", "vanished"})
	require.NoError(t, err)
	assert.Equal(t, []string{"vanished"}, missing)

	// The surviving selection still applied.
	sug, err := store.GetSuggestion(ctx, "a")
	require.NoError(t, err)
	assert.True(t, sug.IsPrioritized)
}

func TestSuggestionDurability(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "readnext-durability-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")
	ctx := context.Background()

	store, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateSuggestion(ctx, newSuggestion("Dune", "user-1")))
	require.NoError(t, store.Close())

	// Reopen and verify the record survived.
	reopened, err := New(dbPath, nil)
	require.NoError(t, err)
	defer reopened.Close()

	sug, err := reopened.GetSuggestion(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", sug.Title)
}
