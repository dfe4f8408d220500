// internal/database/memory.go
package database

import (
	"context"
	"sort"
	"sync"

	"clipsquad/internal/models"
	"clipsquad/internal/utils"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation. It backs tests and the
// DB_TYPE=memory development mode, and mirrors the document-store
// semantics: lazy profile creation, set-membership updates on likedBy /
// followers / following, snapshot listings ordered by creation time.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*models.Profile
	clips    map[string]*models.Clip
	comments map[string][]*models.Comment
	lfgPosts map[string]*models.LFGPost
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[uuid.UUID]*models.Profile),
		clips:    make(map[string]*models.Clip),
		comments: make(map[string][]*models.Comment),
		lfgPosts: make(map[string]*models.LFGPost),
	}
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func copyProfile(p *models.Profile) *models.Profile {
	cp := *p
	cp.Followers = append([]uuid.UUID(nil), p.Followers...)
	cp.Following = append([]uuid.UUID(nil), p.Following...)
	return &cp
}

func copyClip(c *models.Clip) *models.Clip {
	cp := *c
	cp.LikedBy = append([]uuid.UUID(nil), c.LikedBy...)
	return &cp
}

func (s *MemoryStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	return copyProfile(p), nil
}

func (s *MemoryStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.Email == email {
			return copyProfile(p), nil
		}
	}
	return nil, utils.NewUserNotFoundError(email)
}

func (s *MemoryStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.ID] = copyProfile(profile)
	return nil
}

func (s *MemoryStore) EnsureProfile(ctx context.Context, id uuid.UUID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		s.profiles[id] = &models.Profile{ID: id, Email: email}
	}
	return nil
}

func (s *MemoryStore) SaveProfileFields(ctx context.Context, id uuid.UUID, fields ProfileFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		p = &models.Profile{ID: id}
		s.profiles[id] = p
	}
	p.Username = fields.Username
	p.Platform = fields.Platform
	p.Bio = fields.Bio
	p.FavoriteGame = fields.FavoriteGame
	p.Region = fields.Region
	return nil
}

func addToSet(set []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range set {
		if existing == id {
			return set
		}
	}
	return append(set, id)
}

func removeFromSet(set []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := set[:0]
	for _, existing := range set {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func (s *MemoryStore) UpdateFollowing(ctx context.Context, actorID, targetID uuid.UUID, follow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[actorID]
	if !ok {
		return utils.NewUserNotFoundError(actorID.String())
	}
	if follow {
		p.Following = addToSet(p.Following, targetID)
	} else {
		p.Following = removeFromSet(p.Following, targetID)
	}
	return nil
}

func (s *MemoryStore) UpdateFollowers(ctx context.Context, targetID, actorID uuid.UUID, follow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[targetID]
	if !ok {
		return utils.NewUserNotFoundError(targetID.String())
	}
	if follow {
		p.Followers = addToSet(p.Followers, actorID)
	} else {
		p.Followers = removeFromSet(p.Followers, actorID)
	}
	return nil
}

func (s *MemoryStore) SaveClip(ctx context.Context, clip *models.Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clips[clip.ID] = copyClip(clip)
	return nil
}

func (s *MemoryStore) GetClip(ctx context.Context, id string) (*models.Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clips[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrClipNotFound, "Clip not found: "+id, nil)
	}
	return copyClip(c), nil
}

func (s *MemoryStore) ListClips(ctx context.Context) ([]*models.Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clips := make([]*models.Clip, 0, len(s.clips))
	for _, c := range s.clips {
		clips = append(clips, copyClip(c))
	}
	sort.SliceStable(clips, func(i, j int) bool {
		return clips[i].CreatedAt.After(clips[j].CreatedAt)
	})
	return clips, nil
}

func (s *MemoryStore) ListClipsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var clips []*models.Clip
	for _, c := range s.clips {
		if c.AuthorID == authorID {
			clips = append(clips, copyClip(c))
		}
	}
	sort.SliceStable(clips, func(i, j int) bool {
		return clips[i].CreatedAt.After(clips[j].CreatedAt)
	})
	return clips, nil
}

func (s *MemoryStore) CountClipsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, c := range s.clips {
		if c.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) UpdateClipLike(ctx context.Context, clipID string, userID uuid.UUID, like bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clips[clipID]
	if !ok {
		return utils.NewAppError(utils.ErrClipNotFound, "Clip not found: "+clipID, nil)
	}
	if like {
		c.LikedBy = addToSet(c.LikedBy, userID)
	} else {
		c.LikedBy = removeFromSet(c.LikedBy, userID)
	}
	return nil
}

func (s *MemoryStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *comment
	s.comments[comment.ClipID] = append(s.comments[comment.ClipID], &cp)
	return nil
}

func (s *MemoryStore) ListComments(ctx context.Context, clipID string) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.comments[clipID]
	comments := make([]*models.Comment, 0, len(stored))
	for _, c := range stored {
		cp := *c
		comments = append(comments, &cp)
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *MemoryStore) SaveLFGPost(ctx context.Context, post *models.LFGPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *post
	s.lfgPosts[post.ID] = &cp
	return nil
}

func (s *MemoryStore) ListLFGPosts(ctx context.Context) ([]*models.LFGPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*models.LFGPost, 0, len(s.lfgPosts))
	for _, p := range s.lfgPosts {
		cp := *p
		posts = append(posts, &cp)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *MemoryStore) CountLFGByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.lfgPosts {
		if p.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}
