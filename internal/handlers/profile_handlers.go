package handlers

import (
	"encoding/json"
	"net/http"

	"clipsquad/internal/engine/actors"
	"clipsquad/internal/middleware"
	"clipsquad/internal/utils"

	"github.com/google/uuid"
)

// SaveProfileRequest represents a profile edit
type SaveProfileRequest struct {
	Username     string `json:"username"`
	Platform     string `json:"platform"`
	Bio          string `json:"bio"`
	FavoriteGame string `json:"favoriteGame"`
	Region       string `json:"region"`
}

// FollowRequest represents a follow/unfollow toggle
type FollowRequest struct {
	TargetID string `json:"targetId"`
}

// HandleProfile serves the signed-in user's profile: GET returns it with
// derived stats, PUT saves the editable fields.
func (s *Server) HandleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			respondAppError(w, utils.NewNotAuthenticatedError("view your profile"))
			return
		}

		switch r.Method {
		case http.MethodGet:
			future := s.Context.RequestFuture(
				s.Engine.GetProfileActor(),
				&actors.GetOwnProfileMsg{UserID: userID},
				s.RequestTimeout,
			)
			result, err := future.Result()
			if err != nil {
				respondAppError(w, utils.NewActorTimeoutError("profile"))
				return
			}
			profile, ok := resolveActorResult(w, result)
			if !ok {
				return
			}
			respondJSON(w, http.StatusOK, profile)

		case http.MethodPut, http.MethodPost:
			var req SaveProfileRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			email, _ := middleware.GetEmailFromContext(r.Context())

			future := s.Context.RequestFuture(
				s.Engine.GetProfileActor(),
				&actors.SaveProfileMsg{
					UserID:       userID,
					Email:        email,
					Username:     req.Username,
					Platform:     req.Platform,
					Bio:          req.Bio,
					FavoriteGame: req.FavoriteGame,
					Region:       req.Region,
				},
				s.RequestTimeout,
			)
			result, err := future.Result()
			if err != nil {
				respondAppError(w, utils.NewActorTimeoutError("profile"))
				return
			}
			if _, ok := resolveActorResult(w, result); !ok {
				return
			}
			respondJSON(w, http.StatusOK, map[string]bool{"saved": true})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandlePublicProfile serves another player's profile card. The viewer is
// taken from the JWT so the response can carry the isFollowing flag.
func (s *Server) HandlePublicProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		targetID, err := uuid.Parse(r.URL.Query().Get("userId"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		// Anonymous viewers get isFollowing=false
		viewerID, _ := middleware.GetUserIDFromContext(r.Context())

		future := s.Context.RequestFuture(
			s.Engine.GetProfileActor(),
			&actors.GetPublicProfileMsg{TargetID: targetID, ViewerID: viewerID},
			s.RequestTimeout,
		)
		result, err := future.Result()
		if err != nil {
			respondAppError(w, utils.NewActorTimeoutError("profile"))
			return
		}
		profile, ok := resolveActorResult(w, result)
		if !ok {
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}

// HandleFollow toggles the follow relation toward the target player
func (s *Server) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			respondAppError(w, utils.NewNotAuthenticatedError("follow players"))
			return
		}
		email, _ := middleware.GetEmailFromContext(r.Context())

		var req FollowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		targetID, err := uuid.Parse(req.TargetID)
		if err != nil {
			http.Error(w, "Invalid target ID", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(
			s.Engine.GetProfileActor(),
			&actors.ToggleFollowMsg{
				ActorID:    userID,
				ActorEmail: email,
				TargetID:   targetID,
			},
			s.RequestTimeout,
		)
		result, err := future.Result()
		if err != nil {
			respondAppError(w, utils.NewActorTimeoutError("profile"))
			return
		}
		state, ok := resolveActorResult(w, result)
		if !ok {
			return
		}
		respondJSON(w, http.StatusOK, state)
	}
}
