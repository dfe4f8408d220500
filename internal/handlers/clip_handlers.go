package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"clipsquad/internal/engine/actors"
	"clipsquad/internal/feed"
	"clipsquad/internal/middleware"
	"clipsquad/internal/models"
	"clipsquad/internal/utils"
)

// CreateClipRequest represents a request to post a new clip. A thumbnail
// can arrive either as a ready URL or as base64 image bytes to store in
// the blob bucket.
type CreateClipRequest struct {
	Title         string `json:"title"`
	Game          string `json:"game"`
	Thumbnail     string `json:"thumbnail"`
	ThumbnailData string `json:"thumbnailData"`
	ThumbnailType string `json:"thumbnailType"`
}

// LikeRequest represents a like toggle on a clip
type LikeRequest struct {
	ClipID string `json:"clipId"`
}

// HandleClips serves the clip feed (GET) and clip creation (POST)
func (s *Server) HandleClips() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleGetClips(w, r)
		case http.MethodPost:
			s.handleCreateClip(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleGetClips(w http.ResponseWriter, r *http.Request) {
	future := s.Context.RequestFuture(s.Engine.GetClipActor(), &actors.GetFeedMsg{}, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		respondAppError(w, utils.NewActorTimeoutError("clips"))
		return
	}
	raw, ok := resolveActorResult(w, result)
	if !ok {
		return
	}
	clips, ok := raw.([]*models.Clip)
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, feed.NewClipViews(clips, s.Config.PlaceholderThumbnail))
}

func (s *Server) handleCreateClip(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondAppError(w, utils.NewNotAuthenticatedError("post clips"))
		return
	}
	email, _ := middleware.GetEmailFromContext(r.Context())

	var req CreateClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	thumbnail := strings.TrimSpace(req.Thumbnail)
	if req.ThumbnailData != "" && s.Blobs != nil {
		uploaded, err := s.uploadThumbnail(r, userID.String(), req.ThumbnailData, req.ThumbnailType)
		if err != nil {
			respondAppError(w, utils.NewAppError(utils.ErrInvalidInput, "Thumbnail upload failed", err))
			return
		}
		thumbnail = uploaded
	}

	future := s.Context.RequestFuture(
		s.Engine.GetClipActor(),
		&actors.CreateClipMsg{
			Title:       req.Title,
			Game:        req.Game,
			Thumbnail:   thumbnail,
			AuthorID:    userID,
			AuthorEmail: email,
		},
		s.RequestTimeout,
	)
	result, err := future.Result()
	if err != nil {
		respondAppError(w, utils.NewActorTimeoutError("clips"))
		return
	}
	raw, ok := resolveActorResult(w, result)
	if !ok {
		return
	}
	clip, ok := raw.(*models.Clip)
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, feed.NewClipView(clip, s.Config.PlaceholderThumbnail))
}

// uploadThumbnail decodes base64 image bytes and stores them under a
// per-user prefix in the blob bucket, returning the public URL.
func (s *Server) uploadThumbnail(r *http.Request, userID, data, contentType string) (string, error) {
	// Tolerate data-URI payloads ("data:image/png;base64,....")
	if idx := strings.Index(data, ","); idx != -1 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("invalid base64 thumbnail: %w", err)
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	path := fmt.Sprintf("thumbnails/%s/%d.jpg", userID, time.Now().UnixMilli())
	return s.Blobs.Upload(r.Context(), path, raw, contentType)
}

// HandleClipLike toggles the caller's like on a clip
func (s *Server) HandleClipLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			respondAppError(w, utils.NewNotAuthenticatedError("like clips"))
			return
		}

		var req LikeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if req.ClipID == "" {
			http.Error(w, "Clip ID is required", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(
			s.Engine.GetClipActor(),
			&actors.ToggleLikeMsg{ClipID: req.ClipID, UserID: userID},
			s.RequestTimeout,
		)
		result, err := future.Result()
		if err != nil {
			respondAppError(w, utils.NewActorTimeoutError("clips"))
			return
		}
		state, ok := resolveActorResult(w, result)
		if !ok {
			return
		}
		respondJSON(w, http.StatusOK, state)
	}
}
