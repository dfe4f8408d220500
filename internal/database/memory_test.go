package database

import (
	"context"
	"testing"
	"time"

	"clipsquad/internal/models"
	"clipsquad/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreProfiles(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id := uuid.New()
	_, err := store.GetProfile(ctx, id)
	assert.True(t, utils.IsNotFound(err))

	err = store.CreateProfile(ctx, &models.Profile{
		ID:    id,
		Email: "gamer@example.com",
	})
	assert.NoError(t, err)

	p, err := store.GetProfile(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "gamer@example.com", p.Email)

	byEmail, err := store.GetProfileByEmail(ctx, "gamer@example.com")
	assert.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)

	err = store.SaveProfileFields(ctx, id, ProfileFields{
		Username: "Shadow99",
		Platform: "PC",
		Region:   "EU",
	})
	assert.NoError(t, err)

	p, _ = store.GetProfile(ctx, id)
	assert.Equal(t, "Shadow99", p.Username)
	assert.Equal(t, "PC", p.Platform)
}

func TestMemoryStoreEnsureProfileIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	id := uuid.New()

	assert.NoError(t, store.EnsureProfile(ctx, id, "first@example.com"))
	assert.NoError(t, store.SaveProfileFields(ctx, id, ProfileFields{Username: "Keeper"}))

	// A second ensure must not reset existing fields
	assert.NoError(t, store.EnsureProfile(ctx, id, "second@example.com"))

	p, err := store.GetProfile(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "Keeper", p.Username)
	assert.Equal(t, "first@example.com", p.Email)
}

func TestMemoryStoreFollowSets(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	assert.NoError(t, store.EnsureProfile(ctx, alice, "alice@example.com"))
	assert.NoError(t, store.EnsureProfile(ctx, bob, ""))

	assert.NoError(t, store.UpdateFollowing(ctx, alice, bob, true))
	assert.NoError(t, store.UpdateFollowers(ctx, bob, alice, true))

	// Set semantics: repeating the add must not duplicate the member
	assert.NoError(t, store.UpdateFollowing(ctx, alice, bob, true))

	a, _ := store.GetProfile(ctx, alice)
	b, _ := store.GetProfile(ctx, bob)
	assert.Equal(t, []uuid.UUID{bob}, a.Following)
	assert.Equal(t, []uuid.UUID{alice}, b.Followers)
	assert.True(t, a.IsFollowing(bob))

	assert.NoError(t, store.UpdateFollowing(ctx, alice, bob, false))
	assert.NoError(t, store.UpdateFollowers(ctx, bob, alice, false))

	a, _ = store.GetProfile(ctx, alice)
	b, _ = store.GetProfile(ctx, bob)
	assert.Empty(t, a.Following)
	assert.Empty(t, b.Followers)
}

func TestMemoryStoreClipOrderingAndLikes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	author := uuid.New()
	liker := uuid.New()

	base := time.Now().UTC()
	for i, id := range []string{"oldest", "middle", "newest"} {
		assert.NoError(t, store.SaveClip(ctx, &models.Clip{
			ID:        id,
			Title:     id,
			AuthorID:  author,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	clips, err := store.ListClips(ctx)
	assert.NoError(t, err)
	assert.Len(t, clips, 3)
	assert.Equal(t, "newest", clips[0].ID, "feed must be newest first")
	assert.Equal(t, "oldest", clips[2].ID)

	count, err := store.CountClipsByAuthor(ctx, author)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)

	// Like twice: membership, not a counter
	assert.NoError(t, store.UpdateClipLike(ctx, "newest", liker, true))
	assert.NoError(t, store.UpdateClipLike(ctx, "newest", liker, true))
	clip, _ := store.GetClip(ctx, "newest")
	assert.Equal(t, []uuid.UUID{liker}, clip.LikedBy)

	assert.NoError(t, store.UpdateClipLike(ctx, "newest", liker, false))
	clip, _ = store.GetClip(ctx, "newest")
	assert.Empty(t, clip.LikedBy)

	err = store.UpdateClipLike(ctx, "missing", liker, true)
	assert.True(t, utils.IsErrorCode(err, utils.ErrClipNotFound))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	clip := &models.Clip{ID: "c1", Title: "original", LikedBy: []uuid.UUID{}}
	assert.NoError(t, store.SaveClip(ctx, clip))

	got, _ := store.GetClip(ctx, "c1")
	got.Title = "mutated"
	got.LikedBy = append(got.LikedBy, uuid.New())

	again, _ := store.GetClip(ctx, "c1")
	assert.Equal(t, "original", again.Title)
	assert.Empty(t, again.LikedBy)
}

func TestMemoryStoreCommentsOrderedOldestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Now().UTC()
	for i, text := range []string{"first", "second", "third"} {
		assert.NoError(t, store.SaveComment(ctx, &models.Comment{
			ID:        text,
			ClipID:    "clip-1",
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	comments, err := store.ListComments(ctx, "clip-1")
	assert.NoError(t, err)
	assert.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "third", comments[2].Text)

	none, err := store.ListComments(ctx, "no-such-clip")
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreLFGPosts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	author := uuid.New()

	base := time.Now().UTC()
	for i, id := range []string{"old", "new"} {
		assert.NoError(t, store.SaveLFGPost(ctx, &models.LFGPost{
			ID:        id,
			Game:      "Valorant",
			AuthorID:  author,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	posts, err := store.ListLFGPosts(ctx)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].ID)

	count, err := store.CountLFGByAuthor(ctx, author)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.CountLFGByAuthor(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}
