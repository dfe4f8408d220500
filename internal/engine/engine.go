package engine

import (
	"clipsquad/internal/database"
	"clipsquad/internal/engine/actors"
	"clipsquad/internal/feed"
	"clipsquad/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine coordinates the top-level actors. Each domain concern (profiles
// and the social graph, clips, comments, LFG posts) is a single actor, so
// all mutations of a concern serialize through one mailbox.
type Engine struct {
	system       *actor.ActorSystem
	profileActor *actor.PID
	clipActor    *actor.PID
	commentActor *actor.PID
	lfgActor     *actor.PID
}

// EngineConfig holds the collaborators the actors need
type EngineConfig struct {
	Store                database.Store
	Feed                 *feed.Synchronizer
	Metrics              *utils.MetricsCollector
	AvatarBaseURL        string
	PlaceholderThumbnail string
}

// NewEngine creates and starts the actor hierarchy
func NewEngine(system *actor.ActorSystem, cfg EngineConfig) *Engine {
	context := system.Root

	profileProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewProfileActor(cfg.Store, cfg.Metrics, cfg.AvatarBaseURL)
	})
	clipProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewClipActor(cfg.Store, cfg.Feed, cfg.Metrics, cfg.PlaceholderThumbnail)
	})
	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(cfg.Store, cfg.Metrics)
	})
	lfgProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewLFGActor(cfg.Store, cfg.Feed, cfg.Metrics)
	})

	return &Engine{
		system:       system,
		profileActor: context.Spawn(profileProps),
		clipActor:    context.Spawn(clipProps),
		commentActor: context.Spawn(commentProps),
		lfgActor:     context.Spawn(lfgProps),
	}
}

// GetProfileActor returns the PID of the profile actor
func (e *Engine) GetProfileActor() *actor.PID {
	return e.profileActor
}

// GetClipActor returns the PID of the clip actor
func (e *Engine) GetClipActor() *actor.PID {
	return e.clipActor
}

// GetCommentActor returns the PID of the comment actor
func (e *Engine) GetCommentActor() *actor.PID {
	return e.commentActor
}

// GetLFGActor returns the PID of the LFG actor
func (e *Engine) GetLFGActor() *actor.PID {
	return e.lfgActor
}
