package actors

import (
	stdctx "context"
	"testing"
	"time"

	"clipsquad/internal/api"
	"clipsquad/internal/database"
	"clipsquad/internal/feed"
	"clipsquad/internal/models"
	"clipsquad/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testTimeout = 5 * time.Second

type actorFixture struct {
	system  *actor.ActorSystem
	store   *database.MemoryStore
	feed    *feed.Synchronizer
	metrics *utils.MetricsCollector
}

func newFixture(t *testing.T) *actorFixture {
	t.Helper()
	f := &actorFixture{
		system:  actor.NewActorSystem(),
		store:   database.NewMemoryStore(),
		feed:    feed.NewSynchronizer(),
		metrics: utils.NewMetricsCollector(),
	}
	f.feed.Register("clips", func(ctx stdctx.Context) (interface{}, error) {
		return f.store.ListClips(ctx)
	})
	f.feed.Register("lfg", func(ctx stdctx.Context) (interface{}, error) {
		return f.store.ListLFGPosts(ctx)
	})
	t.Cleanup(f.feed.Close)
	return f
}

func (f *actorFixture) ask(t *testing.T, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := f.system.Root.RequestFuture(pid, msg, testTimeout)
	result, err := future.Result()
	assert.NoError(t, err)
	return result
}

func (f *actorFixture) spawnProfile() *actor.PID {
	return f.system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewProfileActor(f.store, f.metrics, "")
	}))
}

func (f *actorFixture) spawnClip() *actor.PID {
	return f.system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewClipActor(f.store, f.feed, f.metrics, "https://placehold.test/none.png")
	}))
}

func (f *actorFixture) spawnLFG() *actor.PID {
	return f.system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewLFGActor(f.store, f.feed, f.metrics)
	}))
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	pid := f.spawnProfile()

	result := f.ask(t, pid, &RegisterMsg{Email: "new@example.com", Password: "hunter22"})
	identity, ok := result.(*IdentityState)
	assert.True(t, ok, "unexpected response: %T %+v", result, result)
	assert.NotEqual(t, uuid.Nil, identity.ID)
	assert.Equal(t, "new@example.com", identity.Email)

	// Duplicate email is rejected
	result = f.ask(t, pid, &RegisterMsg{Email: "new@example.com", Password: "other"})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)

	// Correct password succeeds
	result = f.ask(t, pid, &LoginMsg{Email: "new@example.com", Password: "hunter22"})
	login := result.(*api.LoginResponse)
	assert.True(t, login.Success)
	assert.Equal(t, identity.ID.String(), login.UserID)

	// Wrong password fails without revealing which part was wrong
	result = f.ask(t, pid, &LoginMsg{Email: "new@example.com", Password: "nope"})
	login = result.(*api.LoginResponse)
	assert.False(t, login.Success)
	assert.Equal(t, "Invalid credentials", login.Error)
}

func TestCreateClipDefaults(t *testing.T) {
	f := newFixture(t)
	pid := f.spawnClip()
	author := uuid.New()

	result := f.ask(t, pid, &CreateClipMsg{
		Title:       "  Clutch  ",
		Game:        "Apex",
		AuthorID:    author,
		AuthorEmail: "foo@bar.com",
	})
	clip, ok := result.(*models.Clip)
	assert.True(t, ok, "unexpected response: %T %+v", result, result)
	assert.NotEmpty(t, clip.ID)
	assert.Equal(t, "Clutch", clip.Title)
	assert.Equal(t, "https://placehold.test/none.png", clip.Thumbnail, "missing thumbnail gets the placeholder")
	assert.Equal(t, "foo", clip.AuthorName, "author snapshot is sanitized, no full email")
	assert.Empty(t, clip.LikedBy)
	assert.False(t, clip.CreatedAt.IsZero())

	// The profile document was created lazily for the unknown author
	profile, err := f.store.GetProfile(stdctx.Background(), author)
	assert.NoError(t, err)
	assert.Equal(t, "foo@bar.com", profile.Email)
}

func TestCreateClipValidation(t *testing.T) {
	f := newFixture(t)
	pid := f.spawnClip()

	result := f.ask(t, pid, &CreateClipMsg{Title: "", Game: "Apex", AuthorID: uuid.New()})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrValidation, appErr.Code)

	result = f.ask(t, pid, &CreateClipMsg{Title: "x", Game: "y"})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotAuthenticated, appErr.Code)
}

func TestCreateLFGValidation(t *testing.T) {
	f := newFixture(t)
	pid := f.spawnLFG()
	author := uuid.New()

	// Game, title and platform are all required
	for _, msg := range []*CreateLFGMsg{
		{Game: "", Title: "Need one more", Platform: "PC", AuthorID: author},
		{Game: "Apex", Title: "", Platform: "PC", AuthorID: author},
		{Game: "Apex", Title: "Need one more", Platform: "", AuthorID: author},
		{Game: "Apex", Title: "Need one more", Platform: "   ", AuthorID: author},
	} {
		result := f.ask(t, pid, msg)
		appErr, ok := result.(*utils.AppError)
		assert.True(t, ok, "expected a validation failure, got: %T %+v", result, result)
		assert.Equal(t, utils.ErrValidation, appErr.Code)
	}

	// Nothing was persisted by the rejected requests
	posts, err := f.store.ListLFGPosts(stdctx.Background())
	assert.NoError(t, err)
	assert.Empty(t, posts)

	result := f.ask(t, pid, &CreateLFGMsg{
		Game: "Apex", Title: "Need one more", Platform: "PC",
		AuthorID: author, AuthorEmail: "igl@example.com",
	})
	post, ok := result.(*models.LFGPost)
	assert.True(t, ok, "unexpected response: %T %+v", result, result)
	assert.Equal(t, "PC", post.Platform)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	f := newFixture(t)
	pid := f.spawnClip()
	author, liker := uuid.New(), uuid.New()

	created := f.ask(t, pid, &CreateClipMsg{
		Title: "Ace", Game: "Valorant", AuthorID: author, AuthorEmail: "a@b.co",
	}).(*models.Clip)

	// First toggle adds membership
	state := f.ask(t, pid, &ToggleLikeMsg{ClipID: created.ID, UserID: liker}).(*LikeState)
	assert.True(t, state.Liked)
	assert.Equal(t, 1, state.Likes)

	// Second toggle removes it, restoring the original state
	state = f.ask(t, pid, &ToggleLikeMsg{ClipID: created.ID, UserID: liker}).(*LikeState)
	assert.False(t, state.Liked)
	assert.Equal(t, 0, state.Likes)

	stored, err := f.store.GetClip(stdctx.Background(), created.ID)
	assert.NoError(t, err)
	assert.Empty(t, stored.LikedBy)
}

func TestToggleLikeUnknownClip(t *testing.T) {
	f := newFixture(t)
	pid := f.spawnClip()

	result := f.ask(t, pid, &ToggleLikeMsg{ClipID: "no-such-clip", UserID: uuid.New()})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrClipNotFound, appErr.Code)

	result = f.ask(t, pid, &ToggleLikeMsg{ClipID: "whatever", UserID: uuid.Nil})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotAuthenticated, appErr.Code)
}

func TestToggleFollow(t *testing.T) {
	f := newFixture(t)
	pid := f.spawnProfile()

	alice := f.ask(t, pid, &RegisterMsg{Email: "alice@example.com", Password: "pw"}).(*IdentityState)
	bob := uuid.New() // never registered, profile created lazily

	// Following yourself is rejected
	result := f.ask(t, pid, &ToggleFollowMsg{ActorID: alice.ID, ActorEmail: alice.Email, TargetID: alice.ID})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	state := f.ask(t, pid, &ToggleFollowMsg{ActorID: alice.ID, ActorEmail: alice.Email, TargetID: bob}).(*FollowState)
	assert.True(t, state.IsFollowing)

	ctx := stdctx.Background()
	aliceProfile, _ := f.store.GetProfile(ctx, alice.ID)
	bobProfile, err := f.store.GetProfile(ctx, bob)
	assert.NoError(t, err, "target profile must exist after the toggle")
	assert.True(t, aliceProfile.IsFollowing(bob))
	assert.Equal(t, []uuid.UUID{alice.ID}, bobProfile.Followers)

	// Toggling again undoes both sides
	state = f.ask(t, pid, &ToggleFollowMsg{ActorID: alice.ID, ActorEmail: alice.Email, TargetID: bob}).(*FollowState)
	assert.False(t, state.IsFollowing)

	aliceProfile, _ = f.store.GetProfile(ctx, alice.ID)
	bobProfile, _ = f.store.GetProfile(ctx, bob)
	assert.Empty(t, aliceProfile.Following)
	assert.Empty(t, bobProfile.Followers)
}

func TestPublicProfileAggregation(t *testing.T) {
	f := newFixture(t)
	profilePID := f.spawnProfile()
	clipPID := f.spawnClip()

	target := f.ask(t, profilePID, &RegisterMsg{Email: "streamer@example.com", Password: "pw"}).(*IdentityState)
	viewer := f.ask(t, profilePID, &RegisterMsg{Email: "viewer@example.com", Password: "pw"}).(*IdentityState)

	for i := 0; i < 2; i++ {
		f.ask(t, clipPID, &CreateClipMsg{
			Title: "clip", Game: "Apex", AuthorID: target.ID, AuthorEmail: target.Email,
		})
	}
	assert.NoError(t, f.store.SaveLFGPost(stdctx.Background(), &models.LFGPost{
		ID: "lfg-1", Game: "Apex", AuthorID: target.ID, CreatedAt: time.Now().UTC(),
	}))

	f.ask(t, profilePID, &ToggleFollowMsg{ActorID: viewer.ID, ActorEmail: viewer.Email, TargetID: target.ID})

	// Following viewer sees isFollowing=true and live counts
	result := f.ask(t, profilePID, &GetPublicProfileMsg{TargetID: target.ID, ViewerID: viewer.ID})
	card, ok := result.(*models.PublicProfile)
	assert.True(t, ok, "unexpected response: %T %+v", result, result)
	assert.Equal(t, 2, card.ClipCount)
	assert.Equal(t, 1, card.LFGCount)
	assert.True(t, card.IsFollowing)
	assert.Equal(t, "streamer", card.Username, "email identity must be masked")
	assert.Equal(t, "Unknown platform", card.Platform)

	// Anonymous viewer gets the same counts with isFollowing=false
	card = f.ask(t, profilePID, &GetPublicProfileMsg{TargetID: target.ID, ViewerID: uuid.Nil}).(*models.PublicProfile)
	assert.False(t, card.IsFollowing)
	assert.Equal(t, 2, card.ClipCount)
}

func TestPublicProfileOfUnknownUser(t *testing.T) {
	f := newFixture(t)
	pid := f.spawnProfile()
	ghost := uuid.New()

	card := f.ask(t, pid, &GetPublicProfileMsg{TargetID: ghost, ViewerID: uuid.Nil}).(*models.PublicProfile)
	assert.Equal(t, ghost, card.UserID)
	assert.Equal(t, utils.DefaultDisplayName, card.Username)
	assert.Equal(t, "Unknown platform", card.Platform)
	assert.Equal(t, 0, card.ClipCount)
	assert.Equal(t, 0, card.LFGCount)
	assert.False(t, card.IsFollowing)
}

func TestOwnProfileStats(t *testing.T) {
	f := newFixture(t)
	profilePID := f.spawnProfile()
	clipPID := f.spawnClip()

	user := f.ask(t, profilePID, &RegisterMsg{Email: "me@example.com", Password: "pw"}).(*IdentityState)
	fan := uuid.New()

	saved := f.ask(t, profilePID, &SaveProfileMsg{
		UserID: user.ID, Email: user.Email,
		Username: "  MyTag  ", Platform: "PC",
	})
	assert.Equal(t, true, saved)

	clip := f.ask(t, clipPID, &CreateClipMsg{
		Title: "clip", Game: "Apex", AuthorID: user.ID, AuthorEmail: user.Email,
	}).(*models.Clip)
	f.ask(t, clipPID, &ToggleLikeMsg{ClipID: clip.ID, UserID: fan})

	own := f.ask(t, profilePID, &GetOwnProfileMsg{UserID: user.ID}).(*OwnProfile)
	assert.Equal(t, "MyTag", own.Username)
	assert.Equal(t, "MyTag", own.DisplayName)
	assert.Equal(t, 1, own.Stats.Clips)
	assert.Equal(t, 1, own.Stats.LikesReceived)
	assert.Equal(t, 0, own.Stats.Followers)
}

func TestSaveProfileBlankUsernameFallsBackToEmail(t *testing.T) {
	f := newFixture(t)
	pid := f.spawnProfile()

	user := f.ask(t, pid, &RegisterMsg{Email: "quiet@example.com", Password: "pw"}).(*IdentityState)
	f.ask(t, pid, &SaveProfileMsg{UserID: user.ID, Email: user.Email, Username: "   "})

	profile, err := f.store.GetProfile(stdctx.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "quiet@example.com", profile.Username, "stored fallback is the raw email")

	// The rendered name still never leaks the address
	own := f.ask(t, pid, &GetOwnProfileMsg{UserID: user.ID}).(*OwnProfile)
	assert.Equal(t, "quiet", own.DisplayName)
}
