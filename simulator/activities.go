package simulator

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// SimulateActivities drives the per-user activity loop: posting clips and
// LFG requests, liking clips, commenting, and following popular creators.
// Each user acts on an exponential schedule derived from the configured
// hourly frequencies.
func (s *Simulator) SimulateActivities(ctx context.Context) error {
	// One combined activity rate per user, split by weight at each tick
	perUserPerHour := s.config.ClipFrequency + s.config.LFGFrequency + s.config.LikeFrequency
	if perUserPerHour <= 0 {
		return fmt.Errorf("no activity frequencies configured")
	}

	interval := time.Duration(float64(time.Hour) / (perUserPerHour * float64(len(s.users))))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Activity loop running, one action every %v", interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			user := s.users[rand.Intn(len(s.users))]
			s.performActivity(ctx, user, perUserPerHour)
		}
	}
}

func (s *Simulator) performActivity(ctx context.Context, user *SimulatedUser, totalRate float64) {
	roll := rand.Float64() * totalRate

	switch {
	case roll < s.config.ClipFrequency:
		s.postClip(ctx, user)
	case roll < s.config.ClipFrequency+s.config.LFGFrequency:
		s.postLFG(ctx, user)
	default:
		s.likeClip(ctx, user)
	}

	// Follows piggyback on regular activity
	if rand.Float64() < s.config.FollowRate {
		s.followSomeone(ctx, user)
	}
	// Comments trail likes at a fixed ratio
	if rand.Float64() < 0.3 {
		s.commentOnClip(ctx, user)
	}
}

var clipTitles = []string{
	"Insane clutch", "1v5 ace", "No-scope across the map", "Last second save",
	"Flip reset goal", "Pentakill", "Sweatiest lobby ever", "How did this hit",
}

func (s *Simulator) postClip(ctx context.Context, user *SimulatedUser) {
	var clip struct {
		ID string `json:"id"`
	}
	err := s.post(ctx, "/clips", user.Token, map[string]string{
		"title": clipTitles[rand.Intn(len(clipTitles))],
		"game":  simGames[rand.Intn(len(simGames))],
	}, &clip)
	if err != nil {
		log.Printf("Clip post failed for %s: %v", user.Email, err)
		return
	}

	s.mu.Lock()
	user.Clips = append(user.Clips, clip.ID)
	s.mu.Unlock()

	s.stats.mu.Lock()
	s.stats.TotalClips++
	s.stats.mu.Unlock()
}

func (s *Simulator) postLFG(ctx context.Context, user *SimulatedUser) {
	err := s.post(ctx, "/lfg", user.Token, map[string]string{
		"game":        simGames[rand.Intn(len(simGames))],
		"title":       "Need one more for ranked",
		"platform":    simPlatforms[rand.Intn(len(simPlatforms))],
		"description": "Mic required, chill vibes only",
	}, nil)
	if err != nil {
		log.Printf("LFG post failed for %s: %v", user.Email, err)
		return
	}

	s.stats.mu.Lock()
	s.stats.TotalLFGPosts++
	s.stats.mu.Unlock()
}

// pickClip chooses a clip with popularity skew toward early, prolific
// creators.
func (s *Simulator) pickClip() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner := s.users[s.zipfIndex(len(s.users))]
	if len(owner.Clips) == 0 {
		// Fall back to any user with clips
		for _, u := range s.users {
			if len(u.Clips) > 0 {
				owner = u
				break
			}
		}
	}
	if len(owner.Clips) == 0 {
		return "", false
	}
	return owner.Clips[rand.Intn(len(owner.Clips))], true
}

func (s *Simulator) likeClip(ctx context.Context, user *SimulatedUser) {
	clipID, ok := s.pickClip()
	if !ok {
		return
	}

	var state struct {
		Liked bool `json:"liked"`
		Likes int  `json:"likes"`
	}
	if err := s.post(ctx, "/clips/like", user.Token, map[string]string{"clipId": clipID}, &state); err != nil {
		log.Printf("Like failed for %s: %v", user.Email, err)
		return
	}

	s.mu.Lock()
	// Verify the toggle agrees with this user's view of their like state
	if expected := !user.LikedClips[clipID]; state.Liked != expected {
		log.Printf("Like state mismatch on clip %s for %s: got %v, expected %v", clipID, user.Email, state.Liked, expected)
	}
	user.LikedClips[clipID] = state.Liked
	s.mu.Unlock()

	s.stats.mu.Lock()
	s.stats.TotalLikes++
	s.stats.mu.Unlock()
}

var commentLines = []string{
	"Clean!", "This is cracked", "Clip of the week", "Drop the sens",
	"I was in this lobby lol", "Certified highlight",
}

func (s *Simulator) commentOnClip(ctx context.Context, user *SimulatedUser) {
	clipID, ok := s.pickClip()
	if !ok {
		return
	}

	err := s.post(ctx, "/clips/comments", user.Token, map[string]string{
		"clipId": clipID,
		"text":   commentLines[rand.Intn(len(commentLines))],
	}, nil)
	if err != nil {
		log.Printf("Comment failed for %s: %v", user.Email, err)
		return
	}

	s.stats.mu.Lock()
	s.stats.TotalComments++
	s.stats.mu.Unlock()
}

func (s *Simulator) followSomeone(ctx context.Context, user *SimulatedUser) {
	s.mu.RLock()
	target := s.users[s.zipfIndex(len(s.users))]
	s.mu.RUnlock()

	if target.UserID == user.UserID || target.UserID == "" {
		return
	}

	var state struct {
		IsFollowing bool `json:"isFollowing"`
	}
	if err := s.post(ctx, "/follow", user.Token, map[string]string{"targetId": target.UserID}, &state); err != nil {
		log.Printf("Follow failed for %s: %v", user.Email, err)
		return
	}

	s.mu.Lock()
	user.Following[target.UserID] = state.IsFollowing
	s.mu.Unlock()

	s.stats.mu.Lock()
	s.stats.TotalFollows++
	s.stats.mu.Unlock()
}
