package actors

import (
	stdctx "context"
	"log"
	"strings"
	"time"

	"clipsquad/internal/database"
	"clipsquad/internal/feed"
	"clipsquad/internal/models"
	"clipsquad/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// Message types for clip operations
type (
	CreateClipMsg struct {
		Title       string
		Game        string
		Thumbnail   string
		AuthorID    uuid.UUID
		AuthorEmail string
	}

	GetFeedMsg struct{}

	GetClipMsg struct {
		ClipID string
	}

	ToggleLikeMsg struct {
		ClipID string
		UserID uuid.UUID
	}

	// GetCountsMsg asks a content actor for its document count. Answered
	// by both the clip and LFG actors.
	GetCountsMsg struct{}
)

// LikeState is the toggle-like response
type LikeState struct {
	ClipID string `json:"clipId"`
	Liked  bool   `json:"liked"`
	Likes  int    `json:"likes"`
}

// ClipActor owns clip creation and the like toggle. It keeps the clips it
// has touched in memory so a toggle decides add-vs-remove from its own
// last-known membership instead of a fresh read.
type ClipActor struct {
	store       database.Store
	feedSync    *feed.Synchronizer
	metrics     *utils.MetricsCollector
	placeholder string

	clipsByID map[string]*models.Clip
}

func NewClipActor(store database.Store, feedSync *feed.Synchronizer, metrics *utils.MetricsCollector, placeholder string) actor.Actor {
	return &ClipActor{
		store:       store,
		feedSync:    feedSync,
		metrics:     metrics,
		placeholder: placeholder,
		clipsByID:   make(map[string]*models.Clip),
	}
}

func (a *ClipActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.loadClips()

	case *CreateClipMsg:
		a.handleCreateClip(context, msg)

	case *GetFeedMsg:
		a.handleGetFeed(context)

	case *GetClipMsg:
		a.handleGetClip(context, msg)

	case *ToggleLikeMsg:
		a.handleToggleLike(context, msg)

	case *GetCountsMsg:
		context.Respond(len(a.clipsByID))
	}
}

// loadClips warms the in-memory cache from the store on startup
func (a *ClipActor) loadClips() {
	clips, err := a.store.ListClips(stdctx.Background())
	if err != nil {
		log.Printf("ClipActor: failed to load clips: %v", err)
		return
	}
	for _, clip := range clips {
		a.clipsByID[clip.ID] = clip
	}
	log.Printf("ClipActor started, %d clips loaded", len(a.clipsByID))
}

// authorUsername resolves the stored gamer tag for a content author,
// creating the profile document on the fly when it does not exist yet.
func authorUsername(store database.Store, authorID uuid.UUID, email string) (string, error) {
	profile, err := store.GetProfile(stdctx.Background(), authorID)
	if err != nil {
		if !utils.IsNotFound(err) {
			return "", err
		}
		if err := store.EnsureProfile(stdctx.Background(), authorID, email); err != nil {
			return "", err
		}
		return "", nil
	}
	return profile.Username, nil
}

func (a *ClipActor) handleCreateClip(context actor.Context, msg *CreateClipMsg) {
	startTime := time.Now()

	if msg.AuthorID == uuid.Nil {
		context.Respond(utils.NewNotAuthenticatedError("post clips"))
		return
	}
	title := strings.TrimSpace(msg.Title)
	game := strings.TrimSpace(msg.Game)
	if title == "" || game == "" {
		context.Respond(utils.NewValidationError("Title and game are required"))
		return
	}

	username, err := authorUsername(a.store, msg.AuthorID, msg.AuthorEmail)
	if err != nil {
		context.Respond(utils.NewProviderError("load profile", err))
		return
	}

	thumbnail := strings.TrimSpace(msg.Thumbnail)
	if thumbnail == "" {
		thumbnail = a.placeholder
	}

	clip := &models.Clip{
		ID:          shortuuid.New(),
		Title:       title,
		Game:        game,
		Thumbnail:   thumbnail,
		AuthorID:    msg.AuthorID,
		AuthorName:  utils.SafeDisplayName(username, msg.AuthorEmail),
		AuthorEmail: msg.AuthorEmail,
		CreatedAt:   time.Now().UTC(),
		LikedBy:     make([]uuid.UUID, 0),
	}

	if err := a.store.SaveClip(stdctx.Background(), clip); err != nil {
		log.Printf("ClipActor: failed to save clip: %v", err)
		context.Respond(utils.NewProviderError("save clip", err))
		return
	}

	a.clipsByID[clip.ID] = clip
	a.feedSync.Notify("clips")

	a.metrics.AddOperationLatency("create_clip", time.Since(startTime))
	context.Respond(clip)
}

func (a *ClipActor) handleGetFeed(context actor.Context) {
	clips, err := a.store.ListClips(stdctx.Background())
	if err != nil {
		context.Respond(utils.NewProviderError("list clips", err))
		return
	}
	context.Respond(clips)
}

func (a *ClipActor) handleGetClip(context actor.Context, msg *GetClipMsg) {
	clip, ok := a.clipsByID[msg.ClipID]
	if !ok {
		loaded, err := a.store.GetClip(stdctx.Background(), msg.ClipID)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrClipNotFound, "Clip not found: "+msg.ClipID, nil))
			return
		}
		a.clipsByID[loaded.ID] = loaded
		clip = loaded
	}
	context.Respond(clip)
}

// handleToggleLike flips the caller's membership in the clip's likedBy
// set. The direction is decided from the actor's cached copy, then applied
// as a single set-membership update; the cache is edited the same way so
// consecutive toggles stay consistent without a re-read.
func (a *ClipActor) handleToggleLike(context actor.Context, msg *ToggleLikeMsg) {
	startTime := time.Now()

	if msg.UserID == uuid.Nil {
		context.Respond(utils.NewNotAuthenticatedError("like clips"))
		return
	}

	clip, ok := a.clipsByID[msg.ClipID]
	if !ok {
		loaded, err := a.store.GetClip(stdctx.Background(), msg.ClipID)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrClipNotFound, "Clip not found: "+msg.ClipID, nil))
			return
		}
		a.clipsByID[loaded.ID] = loaded
		clip = loaded
	}

	liked := !clip.IsLikedBy(msg.UserID)

	if err := a.store.UpdateClipLike(stdctx.Background(), msg.ClipID, msg.UserID, liked); err != nil {
		log.Printf("ClipActor: failed to update like on %s: %v", msg.ClipID, err)
		context.Respond(utils.NewProviderError("update like", err))
		return
	}

	if liked {
		clip.LikedBy = append(clip.LikedBy, msg.UserID)
	} else {
		kept := clip.LikedBy[:0]
		for _, id := range clip.LikedBy {
			if id != msg.UserID {
				kept = append(kept, id)
			}
		}
		clip.LikedBy = kept
	}

	a.feedSync.Notify("clips")

	a.metrics.AddOperationLatency("toggle_like", time.Since(startTime))
	context.Respond(&LikeState{
		ClipID: msg.ClipID,
		Liked:  liked,
		Likes:  len(clip.LikedBy),
	})
}
