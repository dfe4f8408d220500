package feed

import (
	"testing"
	"time"

	"clipsquad/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testPlaceholder = "https://placehold.co/600x400/111827/FFFFFF?text=No+Thumbnail"

func TestNewClipViewMapsDisplayRules(t *testing.T) {
	authorID := uuid.New()
	clip := &models.Clip{
		ID:          "clip-1",
		Title:       "Clutch",
		Game:        "Apex",
		Thumbnail:   "",
		AuthorID:    authorID,
		AuthorName:  "foo@bar.com",
		AuthorEmail: "foo@bar.com",
		CreatedAt:   time.Now().UTC(),
	}

	view := NewClipView(clip, testPlaceholder)

	assert.Equal(t, "clip-1", view.ID)
	assert.Equal(t, "Clutch", view.Title)
	assert.Equal(t, "Apex", view.Game)
	assert.Equal(t, "foo", view.User, "stored email must be masked at the boundary")
	assert.Equal(t, authorID.String(), view.UserID)
	assert.Equal(t, testPlaceholder, view.Thumbnail, "empty thumbnail gets the placeholder")
	assert.NotNil(t, view.LikedBy)
	assert.Empty(t, view.LikedBy, "missing likedBy normalizes to an empty set, not null")
}

func TestNewClipViewKeepsStoredThumbnail(t *testing.T) {
	clip := &models.Clip{
		ID:        "clip-2",
		Thumbnail: "https://cdn.example.com/t.jpg",
		LikedBy:   []uuid.UUID{uuid.New(), uuid.New()},
	}

	view := NewClipView(clip, testPlaceholder)
	assert.Equal(t, "https://cdn.example.com/t.jpg", view.Thumbnail)
	assert.Len(t, view.LikedBy, 2)
}

func TestNewClipViewsPreservesOrder(t *testing.T) {
	clips := []*models.Clip{
		{ID: "c", CreatedAt: time.Now().Add(-1 * time.Minute)},
		{ID: "b", CreatedAt: time.Now().Add(-2 * time.Minute)},
		{ID: "a", CreatedAt: time.Now().Add(-3 * time.Minute)},
	}

	views := NewClipViews(clips, testPlaceholder)
	assert.Len(t, views, 3)
	assert.Equal(t, "c", views[0].ID)
	assert.Equal(t, "b", views[1].ID)
	assert.Equal(t, "a", views[2].ID)
}

func TestNewLFGViewMasksEmailUsername(t *testing.T) {
	post := &models.LFGPost{
		ID:          "lfg-1",
		Game:        "Valorant",
		Title:       "Need one more",
		AuthorID:    uuid.New(),
		AuthorName:  "luisky720@gmail.com",
		AuthorEmail: "luisky720@gmail.com",
	}

	view := NewLFGView(post)
	assert.Equal(t, "luisky720", view.User)
}
