package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/readnextapp/readnext-server/internal/domain"
)

func (s *Server) registerSuggestionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggestions",
		Summary:     "List suggestions",
		Description: "Returns the shared catalog in display order: prioritized entries first, then by submission order",
		Tags:        []string{"Suggestions"},
	}, s.handleListSuggestions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSuggestion",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggestions/{key}",
		Summary:     "Get suggestion",
		Description: "Returns a suggestion by its title key",
		Tags:        []string{"Suggestions"},
	}, s.handleGetSuggestion)
}

// === DTOs ===

type SuggestionResponse struct {
	ID            string    `json:"id" doc:"Stable suggestion ID"`
	Key           string    `json:"key" doc:"Canonical title key"`
	Title         string    `json:"title" doc:"Display title as submitted"`
	OwnerID       string    `json:"owner_id" doc:"Submitting member ID"`
	Notes         string    `json:"notes" doc:"Member's pitch for the work"`
	TotalChapters int       `json:"total_chapters" doc:"Chapter count, 0 when unknown"`
	NextChapter   int       `json:"next_chapter" doc:"Reading cursor"`
	IsPrioritized bool      `json:"is_prioritized" doc:"Whether the chair has marked this entry"`
	CreatedAt     time.Time `json:"created_at" doc:"Submission time"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last edit time"`
}

type ListSuggestionsInput struct {
	Owner string `query:"owner" doc:"Filter to one member's suggestions"`
}

type ListSuggestionsResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions" doc:"Suggestions in display order"`
}

type ListSuggestionsOutput struct {
	Body ListSuggestionsResponse
}

type GetSuggestionInput struct {
	Key string `path:"key" doc:"Canonical title key"`
}

type SuggestionOutput struct {
	Body SuggestionResponse
}

// === Handlers ===

func (s *Server) handleListSuggestions(ctx context.Context, input *ListSuggestionsInput) (*ListSuggestionsOutput, error) {
	var (
		suggestions []*domain.Suggestion
		err         error
	)
	if input.Owner != "" {
		suggestions, err = s.suggestions.ListMine(ctx, &domain.Member{ID: input.Owner})
	} else {
		suggestions, err = s.suggestions.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]SuggestionResponse, len(suggestions))
	for i, sug := range suggestions {
		resp[i] = mapSuggestionResponse(sug)
	}
	return &ListSuggestionsOutput{Body: ListSuggestionsResponse{Suggestions: resp}}, nil
}

func (s *Server) handleGetSuggestion(ctx context.Context, input *GetSuggestionInput) (*SuggestionOutput, error) {
	sug, err := s.suggestions.Get(ctx, input.Key)
	if err != nil {
		return nil, err
	}
	return &SuggestionOutput{Body: mapSuggestionResponse(sug)}, nil
}

// === Mappers ===

func mapSuggestionResponse(sug *domain.Suggestion) SuggestionResponse {
	return SuggestionResponse{
		ID:            sug.ID,
		Key:           sug.Key,
		Title:         sug.Title,
		OwnerID:       sug.OwnerID,
		Notes:         sug.Notes,
		TotalChapters: sug.TotalChapters,
		NextChapter:   sug.NextChapter,
		IsPrioritized: sug.IsPrioritized,
		CreatedAt:     sug.CreatedAt,
		UpdatedAt:     sug.UpdatedAt,
	}
}
