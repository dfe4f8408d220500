// internal/database/lfg_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"clipsquad/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LFGDocument represents the MongoDB schema for a looking-for-group post.
type LFGDocument struct {
	ID          string    `bson:"_id"`
	Game        string    `bson:"game"`
	Title       string    `bson:"title"`
	Platform    string    `bson:"platform"`
	Description string    `bson:"description,omitempty"`
	AuthorID    string    `bson:"userId"`
	AuthorName  string    `bson:"username"`
	AuthorEmail string    `bson:"userEmail,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// SaveLFGPost inserts an LFG post document
func (m *MongoDB) SaveLFGPost(ctx context.Context, post *models.LFGPost) error {
	doc := LFGDocument{
		ID:          post.ID,
		Game:        post.Game,
		Title:       post.Title,
		Platform:    post.Platform,
		Description: post.Description,
		AuthorID:    post.AuthorID.String(),
		AuthorName:  post.AuthorName,
		AuthorEmail: post.AuthorEmail,
		CreatedAt:   post.CreatedAt,
	}

	_, err := m.LFGPosts.InsertOne(ctx, doc)
	return err
}

// ListLFGPosts returns the full LFG snapshot newest-first.
func (m *MongoDB) ListLFGPosts(ctx context.Context) ([]*models.LFGPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.LFGPosts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*models.LFGPost
	for cursor.Next(ctx) {
		var doc LFGDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		authorID, err := uuid.Parse(doc.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("invalid author ID: %v", err)
		}

		posts = append(posts, &models.LFGPost{
			ID:          doc.ID,
			Game:        doc.Game,
			Title:       doc.Title,
			Platform:    doc.Platform,
			Description: doc.Description,
			AuthorID:    authorID,
			AuthorName:  doc.AuthorName,
			AuthorEmail: doc.AuthorEmail,
			CreatedAt:   doc.CreatedAt,
		})
	}
	return posts, cursor.Err()
}

// CountLFGByAuthor is an exact count-by-scan, same tradeoff as clips.
func (m *MongoDB) CountLFGByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	n, err := m.LFGPosts.CountDocuments(ctx, bson.M{"userId": authorID.String()})
	return int(n), err
}
