// internal/database/profile_repository.go
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

// ProfileDocument represents the MongoDB schema for a user profile
type ProfileDocument struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username,omitempty"`
	Platform       string    `bson:"platform,omitempty"`
	Bio            string    `bson:"bio,omitempty"`
	FavoriteGame   string    `bson:"favoriteGame,omitempty"`
	Region         string    `bson:"region,omitempty"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashedPassword,omitempty"`
	CreatedAt      time.Time `bson:"createdAt"`
	Followers      []string  `bson:"followers,omitempty"`
	Following      []string  `bson:"following,omitempty"`
}

func profileToModel(doc *ProfileDocument) (*models.Profile, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	followers, err := parseIDSet(doc.Followers)
	if err != nil {
		return nil, fmt.Errorf("invalid follower ID in database: %v", err)
	}
	following, err := parseIDSet(doc.Following)
	if err != nil {
		return nil, fmt.Errorf("invalid following ID in database: %v", err)
	}

	return &models.Profile{
		ID:             id,
		Username:       doc.Username,
		Platform:       doc.Platform,
		Bio:            doc.Bio,
		FavoriteGame:   doc.FavoriteGame,
		Region:         doc.Region,
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		CreatedAt:      doc.CreatedAt,
		Followers:      followers,
		Following:      following,
	}, nil
}

func parseIDSet(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetProfile retrieves a profile from MongoDB by identity id
func (m *MongoDB) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var doc ProfileDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	if err != nil {
		return nil, err
	}

	return profileToModel(&doc)
}

// GetProfileByEmail retrieves a profile by its stored email address
func (m *MongoDB) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var doc ProfileDocument

	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(email)
	}
	if err != nil {
		return nil, err
	}

	return profileToModel(&doc)
}

// CreateProfile writes a full profile document (registration path)
func (m *MongoDB) CreateProfile(ctx context.Context, profile *models.Profile) error {
	doc := ProfileDocument{
		ID:             profile.ID.String(),
		Username:       profile.Username,
		Platform:       profile.Platform,
		Bio:            profile.Bio,
		FavoriteGame:   profile.FavoriteGame,
		Region:         profile.Region,
		Email:          profile.Email,
		HashedPassword: profile.HashedPassword,
		CreatedAt:      profile.CreatedAt,
		Followers:      formatIDSet(profile.Followers),
		Following:      formatIDSet(profile.Following),
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	return err
}

func formatIDSet(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// EnsureProfile lazily creates an empty profile document if none exists.
// Idempotent: an existing document is left untouched apart from the merge.
func (m *MongoDB) EnsureProfile(ctx context.Context, id uuid.UUID, email string) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": id.String()}
	update := bson.M{"$setOnInsert": bson.M{
		"email":     email,
		"createdAt": time.Now().UTC(),
	}}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	return err
}

// SaveProfileFields merges the editable attributes into the document,
// creating it if absent.
func (m *MongoDB) SaveProfileFields(ctx context.Context, id uuid.UUID, fields ProfileFields) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": id.String()}
	update := bson.M{"$set": bson.M{
		"username":     fields.Username,
		"platform":     fields.Platform,
		"bio":          fields.Bio,
		"favoriteGame": fields.FavoriteGame,
		"region":       fields.Region,
	}}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	return err
}

// UpdateFollowing adds or removes targetID in the actor's following set.
// $addToSet / $pull keep set semantics without reading the current value.
func (m *MongoDB) UpdateFollowing(ctx context.Context, actorID, targetID uuid.UUID, follow bool) error {
	op := "$pull"
	if follow {
		op = "$addToSet"
	}
	filter := bson.M{"_id": actorID.String()}
	update := bson.M{op: bson.M{"following": targetID.String()}}

	_, err := m.Users.UpdateOne(ctx, filter, update)
	return err
}

// UpdateFollowers adds or removes actorID in the target's followers set.
// This is the second half of the follow toggle's paired write; it is not
// atomic with UpdateFollowing.
func (m *MongoDB) UpdateFollowers(ctx context.Context, targetID, actorID uuid.UUID, follow bool) error {
	op := "$pull"
	if follow {
		op = "$addToSet"
	}
	filter := bson.M{"_id": targetID.String()}
	update := bson.M{op: bson.M{"followers": actorID.String()}}

	_, err := m.Users.UpdateOne(ctx, filter, update)
	return err
}
