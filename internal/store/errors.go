package store

import (
	domainerrors "github.com/readnextapp/readnext-server/internal/errors"
)

// Sentinel errors returned by catalog operations. These carry the domain
// error codes so handlers can map them without knowing store internals.
var (
	ErrSuggestionNotFound = domainerrors.NotFound("suggestion not found")
	ErrDuplicateTitle     = domainerrors.DuplicateTitle("a suggestion with this title already exists")
	ErrInvalidTitle       = domainerrors.InvalidInput("title cannot be empty")
	ErrInvalidNotes       = domainerrors.InvalidInput("notes cannot be empty")
	ErrInvalidChapters    = domainerrors.InvalidInput("chapter counts cannot be negative")
)
