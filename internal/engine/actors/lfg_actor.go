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

// Message types for LFG (looking-for-group) operations
type (
	CreateLFGMsg struct {
		Game        string
		Title       string
		Platform    string
		Description string
		AuthorID    uuid.UUID
		AuthorEmail string
	}

	GetLFGPostsMsg struct{}
)

// LFGActor owns the looking-for-group board
type LFGActor struct {
	store    database.Store
	feedSync *feed.Synchronizer
	metrics  *utils.MetricsCollector
}

func NewLFGActor(store database.Store, feedSync *feed.Synchronizer, metrics *utils.MetricsCollector) actor.Actor {
	return &LFGActor{store: store, feedSync: feedSync, metrics: metrics}
}

func (a *LFGActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("LFGActor started")

	case *CreateLFGMsg:
		a.handleCreateLFG(context, msg)

	case *GetLFGPostsMsg:
		a.handleGetPosts(context)

	case *GetCountsMsg:
		posts, err := a.store.ListLFGPosts(stdctx.Background())
		if err != nil {
			context.Respond(0)
			return
		}
		context.Respond(len(posts))
	}
}

func (a *LFGActor) handleCreateLFG(context actor.Context, msg *CreateLFGMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.AuthorID == uuid.Nil {
		context.Respond(utils.NewNotAuthenticatedError("post LFG requests"))
		return
	}
	game := strings.TrimSpace(msg.Game)
	title := strings.TrimSpace(msg.Title)
	platform := strings.TrimSpace(msg.Platform)
	if game == "" || title == "" || platform == "" {
		context.Respond(utils.NewValidationError("Game, title and platform are required"))
		return
	}

	username, err := authorUsername(a.store, msg.AuthorID, msg.AuthorEmail)
	if err != nil {
		context.Respond(utils.NewProviderError("load profile", err))
		return
	}

	post := &models.LFGPost{
		ID:          shortuuid.New(),
		Game:        game,
		Title:       title,
		Platform:    platform,
		Description: strings.TrimSpace(msg.Description),
		AuthorID:    msg.AuthorID,
		AuthorName:  utils.SafeDisplayName(username, msg.AuthorEmail),
		AuthorEmail: msg.AuthorEmail,
		CreatedAt:   time.Now().UTC(),
	}

	if err := a.store.SaveLFGPost(ctx, post); err != nil {
		log.Printf("LFGActor: failed to save post: %v", err)
		context.Respond(utils.NewProviderError("save lfg post", err))
		return
	}

	a.feedSync.Notify("lfg")

	a.metrics.AddOperationLatency("create_lfg", time.Since(startTime))
	context.Respond(post)
}

func (a *LFGActor) handleGetPosts(context actor.Context) {
	posts, err := a.store.ListLFGPosts(stdctx.Background())
	if err != nil {
		context.Respond(utils.NewProviderError("list lfg posts", err))
		return
	}
	context.Respond(posts)
}
