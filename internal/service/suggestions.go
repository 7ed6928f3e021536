package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/readnextapp/readnext-server/internal/domain"
	domainerrors "github.com/readnextapp/readnext-server/internal/errors"
	"github.com/readnextapp/readnext-server/internal/interaction"
	"github.com/readnextapp/readnext-server/internal/roles"
	"github.com/readnextapp/readnext-server/internal/store"
	"github.com/readnextapp/readnext-server/internal/title"
	"github.com/readnextapp/readnext-server/internal/validation"
)

// SuggestionService orchestrates catalog operations with validation,
// ownership enforcement, and chair gating. It is the only caller of the
// store's mutating operations.
type SuggestionService struct {
	store     *store.Store
	gate      *roles.Gate
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSuggestionService creates a new suggestion service.
func NewSuggestionService(store *store.Store, gate *roles.Gate, validator *validation.Validator, logger *slog.Logger) *SuggestionService {
	return &SuggestionService{
		store:     store,
		gate:      gate,
		validator: validator,
		logger:    logger,
	}
}

// AddInput is the add-form submission. Chapters arrives as the raw field
// text; non-numeric or negative values are rejected as invalid input.
type AddInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	Chapters string `json:"chapters"`
	Notes    string `json:"notes" validate:"required"`
}

// AddInputFromFields maps submitted form fields onto an AddInput.
func AddInputFromFields(fields map[string]string) AddInput {
	return AddInput{
		Title:    fields[interaction.FieldTitle],
		Chapters: fields[interaction.FieldChapters],
		Notes:    fields[interaction.FieldNotes],
	}
}

// EditInput is the edit-form submission. Empty chapter fields leave the
// stored values unchanged, mirroring the form's optional inputs.
type EditInput struct {
	Title         string `json:"title" validate:"required,max=200"`
	NextChapter   string `json:"next_chapter"`
	TotalChapters string `json:"total_chapters"`
	Notes         string `json:"notes" validate:"required"`
}

// EditInputFromFields maps submitted form fields onto an EditInput.
func EditInputFromFields(fields map[string]string) EditInput {
	return EditInput{
		Title:         fields[interaction.FieldTitle],
		NextChapter:   fields[interaction.FieldNextChapter],
		TotalChapters: fields[interaction.FieldTotalChapters],
		Notes:         fields[interaction.FieldNotes],
	}
}

// Create adds a new suggestion owned by the acting member.
func (s *SuggestionService) Create(ctx context.Context, actor *domain.Member, in AddInput) (*domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	totalChapters, err := parseCount(in.Chapters, "chapter count")
	if err != nil {
		return nil, err
	}

	key := title.Key(in.Title)
	if key == "" {
		return nil, domainerrors.InvalidInput("title cannot be empty")
	}

	sug := &domain.Suggestion{
		Key:           key,
		Title:         strings.TrimSpace(in.Title),
		OwnerID:       actor.ID,
		Notes:         in.Notes,
		TotalChapters: totalChapters,
	}
	if err := s.store.CreateSuggestion(ctx, sug); err != nil {
		return nil, err
	}

	s.logger.Debug("member submitted add form",
		"member_id", actor.ID,
		"key", sug.Key,
	)
	return sug, nil
}

// Get retrieves a suggestion by title key.
func (s *SuggestionService) Get(ctx context.Context, key string) (*domain.Suggestion, error) {
	return s.store.GetSuggestion(ctx, key)
}

// ListAll returns the full catalog in display order.
func (s *SuggestionService) ListAll(ctx context.Context) ([]*domain.Suggestion, error) {
	return s.store.ListSuggestions(ctx)
}

// ListMine returns the acting member's suggestions in display order.
func (s *SuggestionService) ListMine(ctx context.Context, actor *domain.Member) ([]*domain.Suggestion, error) {
	return s.store.ListSuggestionsByOwner(ctx, actor.ID)
}

// Edit applies an edit-form submission to the member's own suggestion.
// All field changes commit together. An edit that would put the reading
// cursor past the chapter count is rejected rather than clamped.
func (s *SuggestionService) Edit(ctx context.Context, actor *domain.Member, key string, in EditInput) (*domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	current, err := s.store.GetSuggestion(ctx, key)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != actor.ID {
		return nil, domainerrors.Unauthorized("only the owner may edit a suggestion")
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	newTitle := strings.TrimSpace(in.Title)
	upd := store.SuggestionUpdate{
		Title: &newTitle,
		Notes: &in.Notes,
	}

	nextChapter := current.NextChapter
	if upd.NextChapter, err = optionalCount(in.NextChapter, "last-read chapter"); err != nil {
		return nil, err
	}
	if upd.NextChapter != nil {
		nextChapter = *upd.NextChapter
	}

	totalChapters := current.TotalChapters
	if upd.TotalChapters, err = optionalCount(in.TotalChapters, "chapter count"); err != nil {
		return nil, err
	}
	if upd.TotalChapters != nil {
		totalChapters = *upd.TotalChapters
	}

	if totalChapters > 0 && nextChapter > totalChapters {
		return nil, domainerrors.InvalidInputf(
			"last-read chapter %d cannot exceed the chapter count %d", nextChapter, totalChapters)
	}

	updated, err := s.store.UpdateSuggestion(ctx, key, upd)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("member submitted edit form",
		"member_id", actor.ID,
		"key", key,
		"new_key", updated.Key,
	)
	return updated, nil
}

// Remove deletes the member's own suggestion. Removal is immediate and
// permanent.
func (s *SuggestionService) Remove(ctx context.Context, actor *domain.Member, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	current, err := s.store.GetSuggestion(ctx, key)
	if err != nil {
		return err
	}
	if current.OwnerID != actor.ID {
		return domainerrors.Unauthorized("only the owner may remove a suggestion")
	}

	if err := s.store.RemoveSuggestion(ctx, key); err != nil {
		return err
	}

	s.logger.Debug("member removed suggestion",
		"member_id", actor.ID,
		"key", key,
	)
	return nil
}

// Prioritize overwrites the prioritization flags with the selected subset.
// Chair-gated: a non-chair submission is rejected before any store
// mutation. Selected keys that no longer exist are returned in missing.
func (s *SuggestionService) Prioritize(ctx context.Context, actor *domain.Member, keys []string) (missing []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !s.gate.IsChair(actor) {
		s.logger.Warn("member tried to prioritize without the chair role",
			"member_id", actor.ID,
		)
		return nil, domainerrors.Unauthorized("only the chair may prioritize suggestions")
	}

	missing, err = s.store.SetPrioritized(ctx, keys)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("chair overwrote prioritization",
		"member_id", actor.ID,
		"selected", len(keys),
	)
	return missing, nil
}

// parseCount parses a required-numeric form field; empty means zero.
func parseCount(raw, field string) (int, error) {
	n, err := optionalCount(raw, field)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, nil
	}
	return *n, nil
}

// optionalCount parses an optional numeric form field; empty means "leave
// unchanged" and returns nil.
func optionalCount(raw, field string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domainerrors.InvalidInputf("%s must be a number", field)
	}
	if n < 0 {
		return nil, domainerrors.InvalidInputf("%s cannot be negative", field)
	}
	return &n, nil
}
