// internal/database/clip_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"clipsquad/internal/models"
	"clipsquad/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClipDocument represents the MongoDB schema for a clip.
type ClipDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Game        string    `bson:"game"`
	Thumbnail   string    `bson:"thumbnail"`
	AuthorID    string    `bson:"userId"`
	AuthorName  string    `bson:"username"`
	AuthorEmail string    `bson:"userEmail,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	LikedBy     []string  `bson:"likedBy"`
}

func clipToDocument(clip *models.Clip) *ClipDocument {
	return &ClipDocument{
		ID:          clip.ID,
		Title:       clip.Title,
		Game:        clip.Game,
		Thumbnail:   clip.Thumbnail,
		AuthorID:    clip.AuthorID.String(),
		AuthorName:  clip.AuthorName,
		AuthorEmail: clip.AuthorEmail,
		CreatedAt:   clip.CreatedAt,
		LikedBy:     formatIDSet(clip.LikedBy),
	}
}

func clipToModel(doc *ClipDocument) (*models.Clip, error) {
	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	likedBy, err := parseIDSet(doc.LikedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid likedBy entry: %v", err)
	}

	return &models.Clip{
		ID:          doc.ID,
		Title:       doc.Title,
		Game:        doc.Game,
		Thumbnail:   doc.Thumbnail,
		AuthorID:    authorID,
		AuthorName:  doc.AuthorName,
		AuthorEmail: doc.AuthorEmail,
		CreatedAt:   doc.CreatedAt,
		LikedBy:     likedBy,
	}, nil
}

// SaveClip inserts or replaces a clip document
func (m *MongoDB) SaveClip(ctx context.Context, clip *models.Clip) error {
	doc := clipToDocument(clip)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Clips.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetClip retrieves one clip by id
func (m *MongoDB) GetClip(ctx context.Context, id string) (*models.Clip, error) {
	var doc ClipDocument

	err := m.Clips.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrClipNotFound, "Clip not found: "+id, err)
	}
	if err != nil {
		return nil, err
	}

	return clipToModel(&doc)
}

// ListClips returns the full clip snapshot ordered by creation time
// descending. The feed relies on this order as-is; no re-sorting happens
// client side.
func (m *MongoDB) ListClips(ctx context.Context) ([]*models.Clip, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Clips.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeClips(ctx, cursor)
}

// ListClipsByAuthor returns the clips authored by one user (likes-received
// aggregation on the profile screen).
func (m *MongoDB) ListClipsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Clip, error) {
	cursor, err := m.Clips.Find(ctx, bson.M{"userId": authorID.String()})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeClips(ctx, cursor)
}

func decodeClips(ctx context.Context, cursor *mongo.Cursor) ([]*models.Clip, error) {
	var clips []*models.Clip
	for cursor.Next(ctx) {
		var doc ClipDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		clip, err := clipToModel(&doc)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}
	return clips, cursor.Err()
}

// CountClipsByAuthor is an exact cardinality of the filtered result set at
// query time, not a maintained counter. Cost scales with content volume.
func (m *MongoDB) CountClipsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	n, err := m.Clips.CountDocuments(ctx, bson.M{"userId": authorID.String()})
	return int(n), err
}

// UpdateClipLike adds or removes userID in the clip's likedBy set with a
// single atomic field update. Safe under concurrent toggles by distinct
// actors; a rapid double-toggle by the same actor races against stale local
// state, which the caller accepts.
func (m *MongoDB) UpdateClipLike(ctx context.Context, clipID string, userID uuid.UUID, like bool) error {
	op := "$pull"
	if like {
		op = "$addToSet"
	}
	filter := bson.M{"_id": clipID}
	update := bson.M{op: bson.M{"likedBy": userID.String()}}

	_, err := m.Clips.UpdateOne(ctx, filter, update)
	return err
}
