package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the per-identity user document. Profiles are created lazily:
// a missing document reads back as all-default fields, never as an error.
type Profile struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username,omitempty"`
	Platform       string      `json:"platform,omitempty"`
	Bio            string      `json:"bio,omitempty"`
	FavoriteGame   string      `json:"favoriteGame,omitempty"`
	Region         string      `json:"region,omitempty"`
	Email          string      `json:"-"`
	HashedPassword string      `json:"-"`
	CreatedAt      time.Time   `json:"createdAt"`
	Followers      []uuid.UUID `json:"followers"`
	Following      []uuid.UUID `json:"following"`
}

// IsFollowing reports whether the given viewer id is in this profile's
// following set.
func (p *Profile) IsFollowing(target uuid.UUID) bool {
	for _, id := range p.Following {
		if id == target {
			return true
		}
	}
	return false
}

// PublicProfile is the aggregated view of another user, assembled on demand
// from the profile document plus content counts.
type PublicProfile struct {
	UserID      uuid.UUID `json:"userId"`
	Username    string    `json:"username"`
	Platform    string    `json:"platform"`
	ClipCount   int       `json:"clipCount"`
	LFGCount    int       `json:"lfgCount"`
	IsFollowing bool      `json:"isFollowing"`
	AvatarSeed  string    `json:"avatarSeed"`
	AvatarURL   string    `json:"avatarUrl"`
}

// ProfileStats are the counters shown on a user's own profile. All of them
// are derived reads: set cardinalities plus count-by-scan over the content
// collections.
type ProfileStats struct {
	Followers     int `json:"followers"`
	Following     int `json:"following"`
	Clips         int `json:"clips"`
	LFGPosts      int `json:"lfgPosts"`
	LikesReceived int `json:"likesReceived"`
}
