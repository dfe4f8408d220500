package actors

import (
	stdctx "context"
	"log"
	"strings"
	"time"

	"clipsquad/internal/database"
	"clipsquad/internal/models"
	"clipsquad/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// Message types for comment operations
type (
	CreateCommentMsg struct {
		ClipID      string
		AuthorID    uuid.UUID
		AuthorEmail string
		Text        string
	}

	GetCommentsMsg struct {
		ClipID string
	}
)

// CommentActor owns the per-clip comment threads
type CommentActor struct {
	store   database.Store
	metrics *utils.MetricsCollector
}

func NewCommentActor(store database.Store, metrics *utils.MetricsCollector) actor.Actor {
	return &CommentActor{store: store, metrics: metrics}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("CommentActor started")

	case *CreateCommentMsg:
		a.handleCreateComment(context, msg)

	case *GetCommentsMsg:
		a.handleGetComments(context, msg)
	}
}

func (a *CommentActor) handleCreateComment(context actor.Context, msg *CreateCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.AuthorID == uuid.Nil {
		context.Respond(utils.NewNotAuthenticatedError("comment on clips"))
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		context.Respond(utils.NewValidationError("Comment text is required"))
		return
	}

	// The parent clip must exist; comments on deleted clips are rejected
	if _, err := a.store.GetClip(ctx, msg.ClipID); err != nil {
		context.Respond(utils.NewAppError(utils.ErrClipNotFound, "Clip not found: "+msg.ClipID, nil))
		return
	}

	username, err := authorUsername(a.store, msg.AuthorID, msg.AuthorEmail)
	if err != nil {
		context.Respond(utils.NewProviderError("load profile", err))
		return
	}

	comment := &models.Comment{
		ID:          shortuuid.New(),
		ClipID:      msg.ClipID,
		AuthorID:    msg.AuthorID,
		AuthorName:  utils.SafeDisplayName(username, msg.AuthorEmail),
		AuthorEmail: msg.AuthorEmail,
		Text:        text,
		CreatedAt:   time.Now().UTC(),
	}

	if err := a.store.SaveComment(ctx, comment); err != nil {
		log.Printf("CommentActor: failed to save comment: %v", err)
		context.Respond(utils.NewProviderError("save comment", err))
		return
	}

	a.metrics.AddOperationLatency("create_comment", time.Since(startTime))
	context.Respond(comment)
}

func (a *CommentActor) handleGetComments(context actor.Context, msg *GetCommentsMsg) {
	comments, err := a.store.ListComments(stdctx.Background(), msg.ClipID)
	if err != nil {
		context.Respond(utils.NewProviderError("list comments", err))
		return
	}
	context.Respond(comments)
}
