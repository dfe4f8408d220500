// internal/database/comment_repository.go
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

// CommentDocument represents the MongoDB schema for a comment. Comments are
// stored in their own collection keyed to the parent clip, the relational
// rendering of a subcollection.
type CommentDocument struct {
	ID          string    `bson:"_id"`
	ClipID      string    `bson:"clipId"`
	AuthorID    string    `bson:"userId"`
	AuthorName  string    `bson:"username"`
	AuthorEmail string    `bson:"userEmail,omitempty"`
	Text        string    `bson:"text"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// SaveComment inserts a comment document
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	doc := CommentDocument{
		ID:          comment.ID,
		ClipID:      comment.ClipID,
		AuthorID:    comment.AuthorID.String(),
		AuthorName:  comment.AuthorName,
		AuthorEmail: comment.AuthorEmail,
		Text:        comment.Text,
		CreatedAt:   comment.CreatedAt,
	}

	_, err := m.Comments.InsertOne(ctx, doc)
	return err
}

// ListComments returns a clip's comments oldest-first.
func (m *MongoDB) ListComments(ctx context.Context, clipID string) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := m.Comments.Find(ctx, bson.M{"clipId": clipID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		authorID, err := uuid.Parse(doc.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("invalid author ID: %v", err)
		}

		comments = append(comments, &models.Comment{
			ID:          doc.ID,
			ClipID:      doc.ClipID,
			AuthorID:    authorID,
			AuthorName:  doc.AuthorName,
			AuthorEmail: doc.AuthorEmail,
			Text:        doc.Text,
			CreatedAt:   doc.CreatedAt,
		})
	}
	return comments, cursor.Err()
}
