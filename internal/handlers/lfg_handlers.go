package handlers

import (
	"encoding/json"
	"net/http"

	"clipsquad/internal/engine/actors"
	"clipsquad/internal/feed"
	"clipsquad/internal/middleware"
	"clipsquad/internal/models"
	"clipsquad/internal/utils"
)

// CreateLFGRequest represents a request to post a looking-for-group entry
type CreateLFGRequest struct {
	Game        string `json:"game"`
	Title       string `json:"title"`
	Platform    string `json:"platform"`
	Description string `json:"description"`
}

// HandleLFG serves the LFG board (GET) and post creation (POST)
func (s *Server) HandleLFG() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			future := s.Context.RequestFuture(s.Engine.GetLFGActor(), &actors.GetLFGPostsMsg{}, s.RequestTimeout)
			result, err := future.Result()
			if err != nil {
				respondAppError(w, utils.NewActorTimeoutError("lfg"))
				return
			}
			raw, ok := resolveActorResult(w, result)
			if !ok {
				return
			}
			posts, ok := raw.([]*models.LFGPost)
			if !ok {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			respondJSON(w, http.StatusOK, feed.NewLFGViews(posts))

		case http.MethodPost:
			userID, ok := middleware.GetUserIDFromContext(r.Context())
			if !ok {
				respondAppError(w, utils.NewNotAuthenticatedError("post LFG requests"))
				return
			}
			email, _ := middleware.GetEmailFromContext(r.Context())

			var req CreateLFGRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(
				s.Engine.GetLFGActor(),
				&actors.CreateLFGMsg{
					Game:        req.Game,
					Title:       req.Title,
					Platform:    req.Platform,
					Description: req.Description,
					AuthorID:    userID,
					AuthorEmail: email,
				},
				s.RequestTimeout,
			)
			result, err := future.Result()
			if err != nil {
				respondAppError(w, utils.NewActorTimeoutError("lfg"))
				return
			}
			raw, ok := resolveActorResult(w, result)
			if !ok {
				return
			}
			post, ok := raw.(*models.LFGPost)
			if !ok {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			respondJSON(w, http.StatusCreated, feed.NewLFGView(post))

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
