package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/readnextapp/readnext-server/internal/http/response"
	"github.com/readnextapp/readnext-server/internal/interaction"
)

func (s *Server) registerInteractionRoutes() {
	// The interaction endpoint stays on plain chi: the gateway posts opaque
	// events and gets directives back, no OpenAPI surface needed.
	s.router.Post("/api/v1/interactions", s.handleInteraction)
}

// handleInteraction processes one gateway event and answers with render
// directives. Rate limited per member, not per IP, since all events arrive
// from the same gateway host.
// POST /api/v1/interactions
func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var event interaction.Event
	if err := json.UnmarshalRead(r.Body, &event); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if event.Member.ID == "" {
		response.BadRequest(w, "Member ID is required", s.logger)
		return
	}

	if !s.rateLimiter.Allow(event.Member.ID) {
		s.logger.Warn("Rate limit exceeded",
			"member_id", event.Member.ID,
			"custom_id", event.CustomID,
		)
		response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
		return
	}

	resp, err := s.dispatcher.Handle(ctx, &event)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}
