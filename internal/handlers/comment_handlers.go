package handlers

import (
	"encoding/json"
	"net/http"

	"clipsquad/internal/engine/actors"
	"clipsquad/internal/middleware"
	"clipsquad/internal/utils"
)

// CreateCommentRequest represents a request to comment on a clip
type CreateCommentRequest struct {
	ClipID string `json:"clipId"`
	Text   string `json:"text"`
}

// HandleComments serves a clip's comment thread (GET ?clipId=) and
// comment creation (POST)
func (s *Server) HandleComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			clipID := r.URL.Query().Get("clipId")
			if clipID == "" {
				http.Error(w, "Clip ID is required", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(
				s.Engine.GetCommentActor(),
				&actors.GetCommentsMsg{ClipID: clipID},
				s.RequestTimeout,
			)
			result, err := future.Result()
			if err != nil {
				respondAppError(w, utils.NewActorTimeoutError("comments"))
				return
			}
			comments, ok := resolveActorResult(w, result)
			if !ok {
				return
			}
			respondJSON(w, http.StatusOK, comments)

		case http.MethodPost:
			userID, ok := middleware.GetUserIDFromContext(r.Context())
			if !ok {
				respondAppError(w, utils.NewNotAuthenticatedError("comment on clips"))
				return
			}
			email, _ := middleware.GetEmailFromContext(r.Context())

			var req CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			if req.ClipID == "" {
				http.Error(w, "Clip ID is required", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(
				s.Engine.GetCommentActor(),
				&actors.CreateCommentMsg{
					ClipID:      req.ClipID,
					AuthorID:    userID,
					AuthorEmail: email,
					Text:        req.Text,
				},
				s.RequestTimeout,
			)
			result, err := future.Result()
			if err != nil {
				respondAppError(w, utils.NewActorTimeoutError("comments"))
				return
			}
			comment, ok := resolveActorResult(w, result)
			if !ok {
				return
			}
			respondJSON(w, http.StatusCreated, comment)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
