package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"clipsquad/internal/config"
	"clipsquad/internal/database"
	"clipsquad/internal/engine"
	"clipsquad/internal/engine/actors"
	"clipsquad/internal/feed"
	"clipsquad/internal/storage"
	"clipsquad/internal/utils"
	"clipsquad/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Store          database.Store
	Hub            *websocket.Hub
	Feed           *feed.Synchronizer
	Blobs          storage.Uploader
	Config         *config.Config
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	store database.Store,
	hub *websocket.Hub,
	feedSync *feed.Synchronizer,
	blobs storage.Uploader,
	cfg *config.Config,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		Store:          store,
		Hub:            hub,
		Feed:           feedSync,
		Blobs:          blobs,
		Config:         cfg,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("HTTP Handler: Failed to encode response: %v", err)
	}
}

// respondAppError maps an AppError to its HTTP status and writes it
func respondAppError(w http.ResponseWriter, appErr *utils.AppError) {
	respondJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

// resolveActorResult checks an actor response for an error payload. Actors
// respond with *utils.AppError on failure, any other value on success.
func resolveActorResult(w http.ResponseWriter, result interface{}) (interface{}, bool) {
	if appErr, ok := result.(*utils.AppError); ok {
		respondAppError(w, appErr)
		return nil, false
	}
	return result, true
}

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Get the clip count from ClipActor
		futureClips := s.Context.RequestFuture(s.Engine.GetClipActor(), &actors.GetCountsMsg{}, s.RequestTimeout)
		clipResult, err := futureClips.Result()
		if err != nil {
			http.Error(w, "Failed to get clip count", http.StatusInternalServerError)
			return
		}
		clipCount, _ := clipResult.(int)

		// Get the LFG post count from LFGActor
		futureLFG := s.Context.RequestFuture(s.Engine.GetLFGActor(), &actors.GetCountsMsg{}, s.RequestTimeout)
		lfgResult, err := futureLFG.Result()
		if err != nil {
			http.Error(w, "Failed to get lfg count", http.StatusInternalServerError)
			return
		}
		lfgCount, _ := lfgResult.(int)

		body := map[string]interface{}{
			"status":      "healthy",
			"clip_count":  clipCount,
			"lfg_count":   lfgCount,
			"server_time": time.Now(),
		}
		if s.Config.Server.MetricsEnabled {
			body["metrics"] = s.Metrics.Snapshot()
		}
		respondJSON(w, http.StatusOK, body)
	}
}
