package actors

import (
	stdctx "context"
	"log"
	"strings"
	"time"

	"clipsquad/internal/api"
	"clipsquad/internal/database"
	"clipsquad/internal/models"
	"clipsquad/internal/storage"
	"clipsquad/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for profile and social-graph operations
type (
	RegisterMsg struct {
		Email    string
		Password string
	}

	LoginMsg struct {
		Email    string
		Password string
	}

	GetOwnProfileMsg struct {
		UserID uuid.UUID
	}

	SaveProfileMsg struct {
		UserID       uuid.UUID
		Email        string
		Username     string
		Platform     string
		Bio          string
		FavoriteGame string
		Region       string
	}

	GetPublicProfileMsg struct {
		TargetID uuid.UUID
		ViewerID uuid.UUID // uuid.Nil when the viewer is anonymous
	}

	ToggleFollowMsg struct {
		ActorID    uuid.UUID
		ActorEmail string
		TargetID   uuid.UUID
	}
)

// IdentityState is the registration response
type IdentityState struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// OwnProfile is the signed-in user's profile view including derived stats
type OwnProfile struct {
	UserID       uuid.UUID           `json:"userId"`
	Username     string              `json:"username"`
	Platform     string              `json:"platform"`
	Bio          string              `json:"bio"`
	FavoriteGame string              `json:"favoriteGame"`
	Region       string              `json:"region"`
	Email        string              `json:"email"`
	DisplayName  string              `json:"displayName"`
	AvatarURL    string              `json:"avatarUrl"`
	Stats        models.ProfileStats `json:"stats"`
}

// FollowState is the toggle-follow response
type FollowState struct {
	TargetID    uuid.UUID `json:"targetId"`
	IsFollowing bool      `json:"isFollowing"`
}

// ProfileActor owns identity registration/login, profile edits, the follow
// toggle and the public-profile aggregation.
type ProfileActor struct {
	store         database.Store
	metrics       *utils.MetricsCollector
	avatarBaseURL string
}

func NewProfileActor(store database.Store, metrics *utils.MetricsCollector, avatarBaseURL string) actor.Actor {
	return &ProfileActor{
		store:         store,
		metrics:       metrics,
		avatarBaseURL: avatarBaseURL,
	}
}

func (a *ProfileActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("ProfileActor started")

	case *RegisterMsg:
		a.handleRegister(context, msg)

	case *LoginMsg:
		a.handleLogin(context, msg)

	case *GetOwnProfileMsg:
		a.handleGetOwnProfile(context, msg)

	case *SaveProfileMsg:
		a.handleSaveProfile(context, msg)

	case *GetPublicProfileMsg:
		a.handleGetPublicProfile(context, msg)

	case *ToggleFollowMsg:
		a.handleToggleFollow(context, msg)
	}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func (a *ProfileActor) handleRegister(context actor.Context, msg *RegisterMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	existing, _ := a.store.GetProfileByEmail(ctx, msg.Email)
	if existing != nil {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "Email already registered", nil))
		return
	}

	hashedPassword, err := hashPassword(msg.Password)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Failed to hash password", err))
		return
	}

	profile := &models.Profile{
		ID:             uuid.New(),
		Email:          msg.Email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
		Followers:      make([]uuid.UUID, 0),
		Following:      make([]uuid.UUID, 0),
	}

	if err := a.store.CreateProfile(ctx, profile); err != nil {
		log.Printf("Failed to save profile: %v", err)
		context.Respond(utils.NewProviderError("create profile", err))
		return
	}

	a.metrics.AddOperationLatency("register", time.Since(startTime))
	context.Respond(&IdentityState{ID: profile.ID, Email: profile.Email})
}

func (a *ProfileActor) handleLogin(context actor.Context, msg *LoginMsg) {
	profile, err := a.store.GetProfileByEmail(stdctx.Background(), msg.Email)
	if err != nil {
		context.Respond(&api.LoginResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(&api.LoginResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	context.Respond(&api.LoginResponse{
		Success: true,
		UserID:  profile.ID.String(),
		Email:   profile.Email,
	})
}

// handleGetOwnProfile combines the profile document with derived stats:
// follower/following cardinalities plus count-by-scan over both content
// collections and a likes-received sum. Three independent reads, no caching.
func (a *ProfileActor) handleGetOwnProfile(context actor.Context, msg *GetOwnProfileMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	profile, err := a.store.GetProfile(ctx, msg.UserID)
	if err != nil {
		if !utils.IsNotFound(err) {
			context.Respond(utils.NewProviderError("load profile", err))
			return
		}
		// Absent profile reads as all defaults
		profile = &models.Profile{ID: msg.UserID}
	}

	clipsByAuthor, err := a.store.ListClipsByAuthor(ctx, msg.UserID)
	if err != nil {
		context.Respond(utils.NewProviderError("count clips", err))
		return
	}
	likesReceived := 0
	for _, clip := range clipsByAuthor {
		likesReceived += len(clip.LikedBy)
	}

	lfgCount, err := a.store.CountLFGByAuthor(ctx, msg.UserID)
	if err != nil {
		context.Respond(utils.NewProviderError("count lfg posts", err))
		return
	}

	displayName := utils.SafeDisplayName(profile.Username, profile.Email)

	a.metrics.AddOperationLatency("get_own_profile", time.Since(startTime))
	context.Respond(&OwnProfile{
		UserID:       msg.UserID,
		Username:     profile.Username,
		Platform:     profile.Platform,
		Bio:          profile.Bio,
		FavoriteGame: profile.FavoriteGame,
		Region:       profile.Region,
		Email:        profile.Email,
		DisplayName:  displayName,
		AvatarURL:    storage.AvatarURL(a.avatarBaseURL, displayName),
		Stats: models.ProfileStats{
			Followers:     len(profile.Followers),
			Following:     len(profile.Following),
			Clips:         len(clipsByAuthor),
			LFGPosts:      lfgCount,
			LikesReceived: likesReceived,
		},
	})
}

func (a *ProfileActor) handleSaveProfile(context actor.Context, msg *SaveProfileMsg) {
	ctx := stdctx.Background()

	// A blank gamer tag falls back to the email; the sanitizer masks it on
	// every rendered surface.
	username := strings.TrimSpace(msg.Username)
	if username == "" {
		username = msg.Email
	}

	if err := a.store.EnsureProfile(ctx, msg.UserID, msg.Email); err != nil {
		context.Respond(utils.NewProviderError("ensure profile", err))
		return
	}

	fields := database.ProfileFields{
		Username:     username,
		Platform:     strings.TrimSpace(msg.Platform),
		Bio:          strings.TrimSpace(msg.Bio),
		FavoriteGame: strings.TrimSpace(msg.FavoriteGame),
		Region:       strings.TrimSpace(msg.Region),
	}
	if err := a.store.SaveProfileFields(ctx, msg.UserID, fields); err != nil {
		context.Respond(utils.NewProviderError("save profile", err))
		return
	}

	context.Respond(true)
}

// handleGetPublicProfile performs the four independent reads of the
// aggregation: target profile, clip count, LFG count, and the viewer's
// profile for the follow state. Each request re-executes all of them.
func (a *ProfileActor) handleGetPublicProfile(context actor.Context, msg *GetPublicProfileMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	target, err := a.store.GetProfile(ctx, msg.TargetID)
	if err != nil {
		if !utils.IsNotFound(err) {
			context.Respond(utils.NewProviderError("load profile", err))
			return
		}
		target = &models.Profile{ID: msg.TargetID}
	}

	clipCount, err := a.store.CountClipsByAuthor(ctx, msg.TargetID)
	if err != nil {
		context.Respond(utils.NewProviderError("count clips", err))
		return
	}

	lfgCount, err := a.store.CountLFGByAuthor(ctx, msg.TargetID)
	if err != nil {
		context.Respond(utils.NewProviderError("count lfg posts", err))
		return
	}

	isFollowing := false
	if msg.ViewerID != uuid.Nil {
		viewer, err := a.store.GetProfile(ctx, msg.ViewerID)
		if err == nil {
			isFollowing = viewer.IsFollowing(msg.TargetID)
		} else if !utils.IsNotFound(err) {
			log.Printf("ProfileActor: Failed to load viewer %s: %v", msg.ViewerID, err)
		}
	}

	platform := target.Platform
	if platform == "" {
		platform = "Unknown platform"
	}

	displayName := utils.SafeDisplayName(target.Username, target.Email)

	a.metrics.AddOperationLatency("get_public_profile", time.Since(startTime))
	context.Respond(&models.PublicProfile{
		UserID:      msg.TargetID,
		Username:    displayName,
		Platform:    platform,
		ClipCount:   clipCount,
		LFGCount:    lfgCount,
		IsFollowing: isFollowing,
		AvatarSeed:  displayName,
		AvatarURL:   storage.AvatarURL(a.avatarBaseURL, displayName),
	})
}

// handleToggleFollow flips the follow relation with two independent
// set-membership writes: target id in the actor's following set, actor id
// in the target's followers set. The pair is deliberately not a
// transaction; if the second write fails the relation stays asymmetric
// until the next successful toggle.
func (a *ProfileActor) handleToggleFollow(context actor.Context, msg *ToggleFollowMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.ActorID == uuid.Nil {
		context.Respond(utils.NewNotAuthenticatedError("follow players"))
		return
	}
	if msg.ActorID == msg.TargetID {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Cannot follow yourself", nil))
		return
	}

	// Follow state is decided from the actor's own document, the local
	// snapshot equivalent.
	following := false
	if actorProfile, err := a.store.GetProfile(ctx, msg.ActorID); err == nil {
		following = actorProfile.IsFollowing(msg.TargetID)
	} else if !utils.IsNotFound(err) {
		context.Respond(utils.NewProviderError("load profile", err))
		return
	}
	newFollowing := !following

	// Both documents must exist before the membership edits; the upserts
	// are idempotent but not atomic with what follows.
	if err := a.store.EnsureProfile(ctx, msg.ActorID, msg.ActorEmail); err != nil {
		context.Respond(utils.NewProviderError("ensure profile", err))
		return
	}
	if err := a.store.EnsureProfile(ctx, msg.TargetID, ""); err != nil {
		context.Respond(utils.NewProviderError("ensure profile", err))
		return
	}

	if err := a.store.UpdateFollowing(ctx, msg.ActorID, msg.TargetID, newFollowing); err != nil {
		context.Respond(utils.NewProviderError("update following", err))
		return
	}
	if err := a.store.UpdateFollowers(ctx, msg.TargetID, msg.ActorID, newFollowing); err != nil {
		// First write already landed: the graph is now asymmetric. No
		// compensating action, matching the accepted consistency gap.
		log.Printf("ProfileActor: followers update failed after following update, relation %s -> %s is asymmetric: %v",
			msg.ActorID, msg.TargetID, err)
		context.Respond(utils.NewProviderError("update followers", err))
		return
	}

	a.metrics.AddOperationLatency("toggle_follow", time.Since(startTime))
	context.Respond(&FollowState{TargetID: msg.TargetID, IsFollowing: newFollowing})
}
