// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"clipsquad/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileFields are the editable profile attributes. Saving merges them
// into the document, creating it if absent (upsert semantics).
type ProfileFields struct {
	Username     string
	Platform     string
	Bio          string
	FavoriteGame string
	Region       string
}

// Store defines the common interface for document-store operations. It is
// implemented by MongoDB and by the in-memory adapter used for tests and
// local development.
type Store interface {
	// Connection
	Close(ctx context.Context) error

	// Profile methods
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
	EnsureProfile(ctx context.Context, id uuid.UUID, email string) error
	SaveProfileFields(ctx context.Context, id uuid.UUID, fields ProfileFields) error
	UpdateFollowing(ctx context.Context, actorID, targetID uuid.UUID, follow bool) error
	UpdateFollowers(ctx context.Context, targetID, actorID uuid.UUID, follow bool) error

	// Clip methods
	SaveClip(ctx context.Context, clip *models.Clip) error
	GetClip(ctx context.Context, id string) (*models.Clip, error)
	ListClips(ctx context.Context) ([]*models.Clip, error)
	ListClipsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Clip, error)
	CountClipsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
	UpdateClipLike(ctx context.Context, clipID string, userID uuid.UUID, like bool) error

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, clipID string) ([]*models.Comment, error)

	// LFG methods
	SaveLFGPost(ctx context.Context, post *models.LFGPost) error
	ListLFGPosts(ctx context.Context) ([]*models.LFGPost, error)
	CountLFGByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}

type MongoDB struct {
	Client   *mongo.Client
	Users    *mongo.Collection
	Clips    *mongo.Collection
	Comments *mongo.Collection
	LFGPosts *mongo.Collection
}

func NewMongoDB(uri string, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB!")

	db := client.Database(dbName)
	return &MongoDB{
		Client:   client,
		Users:    db.Collection("users"),
		Clips:    db.Collection("clips"),
		Comments: db.Collection("comments"),
		LFGPosts: db.Collection("lfgPosts"),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
