package domain

import (
	"cmp"
	"time"
)

// Suggestion represents one proposed work in the shared reading catalog.
// The title acts as the primary key: no two suggestions may share a title
// key, and a colliding submission is rejected rather than merged.
type Suggestion struct {
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ID            string    `json:"id"`             // Stable external identifier; survives a retitle
	Key           string    `json:"key"`            // Canonical title key (case-insensitive)
	Title         string    `json:"title"`          // Display title as submitted
	OwnerID       string    `json:"owner_id"`       // Member who proposed it; immutable after creation
	Notes         string    `json:"notes"`          // Free-text pitch, required
	TotalChapters int       `json:"total_chapters"` // 0 means not applicable / unknown
	NextChapter   int       `json:"next_chapter"`   // Reading cursor, meaningful only when TotalChapters > 0
	IsPrioritized bool      `json:"is_prioritized"` // Settable only through the chair-gated path
	Seq           uint64    `json:"seq"`            // Creation sequence, stable secondary sort key
}

// Status values used as the primary display sort key.
const (
	StatusPrioritized = 0
	StatusProposed    = 1
)

// Status derives the display status of a suggestion. Prioritized entries
// sort strictly before proposed ones.
func (s *Suggestion) Status() int {
	if s.IsPrioritized {
		return StatusPrioritized
	}
	return StatusProposed
}

// HasChapters reports whether chapter progress applies to this entry.
func (s *Suggestion) HasChapters() bool {
	return s.TotalChapters > 0
}

// CompareSuggestions orders suggestions for display: status first
// (prioritized before proposed), then creation order.
func CompareSuggestions(a, b *Suggestion) int {
	if c := cmp.Compare(a.Status(), b.Status()); c != 0 {
		return c
	}
	return cmp.Compare(a.Seq, b.Seq)
}
