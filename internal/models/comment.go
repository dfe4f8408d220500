package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to exactly one clip. AuthorName is snapshotted at write
// time like the clip's.
type Comment struct {
	ID          string    `json:"id"`
	ClipID      string    `json:"clipId"`
	AuthorID    uuid.UUID `json:"userId"`
	AuthorName  string    `json:"username"`
	AuthorEmail string    `json:"-"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
}
