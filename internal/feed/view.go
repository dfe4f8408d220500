// internal/feed/view.go
package feed

import (
	"time"

	"clipsquad/internal/models"
	"clipsquad/internal/utils"
)

// ClipView is the display-safe projection of a clip document. The author
// field carries the sanitized display name, never a raw email, and the
// thumbnail is guaranteed non-empty.
type ClipView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Game      string    `json:"game"`
	Thumbnail string    `json:"thumbnail"`
	User      string    `json:"user"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	LikedBy   []string  `json:"likedBy"`
}

// LFGView is the display-safe projection of an LFG post.
type LFGView struct {
	ID          string    `json:"id"`
	Game        string    `json:"game"`
	Title       string    `json:"title"`
	Platform    string    `json:"platform"`
	Description string    `json:"description"`
	User        string    `json:"user"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewClipView maps a raw clip document into its view model, applying the
// boundary rules: safe display-name derivation, placeholder thumbnail when
// the stored one is empty, and likedBy normalized to an empty set when
// missing.
func NewClipView(clip *models.Clip, placeholderThumbnail string) ClipView {
	thumbnail := clip.Thumbnail
	if thumbnail == "" {
		thumbnail = placeholderThumbnail
	}

	likedBy := make([]string, 0, len(clip.LikedBy))
	for _, id := range clip.LikedBy {
		likedBy = append(likedBy, id.String())
	}

	return ClipView{
		ID:        clip.ID,
		Title:     clip.Title,
		Game:      clip.Game,
		Thumbnail: thumbnail,
		User:      utils.SafeDisplayName(clip.AuthorName, clip.AuthorEmail),
		UserID:    clip.AuthorID.String(),
		CreatedAt: clip.CreatedAt,
		LikedBy:   likedBy,
	}
}

// NewClipViews maps a snapshot in store order; the slice order is
// preserved exactly.
func NewClipViews(clips []*models.Clip, placeholderThumbnail string) []ClipView {
	views := make([]ClipView, 0, len(clips))
	for _, clip := range clips {
		views = append(views, NewClipView(clip, placeholderThumbnail))
	}
	return views
}

func NewLFGView(post *models.LFGPost) LFGView {
	return LFGView{
		ID:          post.ID,
		Game:        post.Game,
		Title:       post.Title,
		Platform:    post.Platform,
		Description: post.Description,
		User:        utils.SafeDisplayName(post.AuthorName, post.AuthorEmail),
		UserID:      post.AuthorID.String(),
		CreatedAt:   post.CreatedAt,
	}
}

func NewLFGViews(posts []*models.LFGPost) []LFGView {
	views := make([]LFGView, 0, len(posts))
	for _, post := range posts {
		views = append(views, NewLFGView(post))
	}
	return views
}
