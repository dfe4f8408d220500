package models

import (
	"time"

	"github.com/google/uuid"
)

// Clip is a posted gameplay clip. AuthorName is a denormalized display-name
// snapshot taken at post time; it does not update if the author later
// changes their username. LikedBy has set semantics: membership is mutated
// only through atomic add/remove operations, never read-modify-write.
type Clip struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Game        string      `json:"game"`
	Thumbnail   string      `json:"thumbnail"`
	AuthorID    uuid.UUID   `json:"userId"`
	AuthorName  string      `json:"username"`
	AuthorEmail string      `json:"-"`
	CreatedAt   time.Time   `json:"createdAt"`
	LikedBy     []uuid.UUID `json:"likedBy"`
}

// LikedBy membership check against the last-known snapshot.
func (c *Clip) IsLikedBy(userID uuid.UUID) bool {
	for _, id := range c.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
