package models

import (
	"time"

	"github.com/google/uuid"
)

// LFGPost is a "looking for group" request.
type LFGPost struct {
	ID          string    `json:"id"`
	Game        string    `json:"game"`
	Title       string    `json:"title"`
	Platform    string    `json:"platform"`
	Description string    `json:"description"`
	AuthorID    uuid.UUID `json:"userId"`
	AuthorName  string    `json:"username"`
	AuthorEmail string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
