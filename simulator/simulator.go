package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

type SimConfig struct {
	NumUsers       int
	SimulationTime time.Duration
	ClipFrequency  float64 // clips/user/hour
	LFGFrequency   float64 // lfg posts/user/hour
	LikeFrequency  float64 // likes/user/hour
	FollowRate     float64 // probability of a follow per activity tick
	ZipfS          float64 // popularity skew for like/follow targets
	ServerURL      string
}

type SimulationStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	TotalRequests    int64
	SuccessRequests  int64
	FailedRequests   int64
	TotalClips       int
	TotalComments    int
	TotalLikes       int
	TotalFollows     int
	TotalLFGPosts    int
	RequestLatencies []time.Duration
}

// SimulatedUser tracks one synthetic player and their auth token
type SimulatedUser struct {
	Email      string
	Password   string
	UserID     string
	Token      string
	Clips      []string        // clip ids created by this user
	LikedClips map[string]bool // like state as this user believes it
	Following  map[string]bool
}

type Simulator struct {
	config SimConfig
	stats  *SimulationStats
	users  []*SimulatedUser
	client *http.Client
	mu     sync.RWMutex
}

func NewSimulator(config SimConfig) *Simulator {
	return &Simulator{
		config: config,
		stats: &SimulationStats{
			StartTime:        time.Now(),
			RequestLatencies: make([]time.Duration, 0),
		},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Simulator) Run(ctx context.Context) error {
	log.Printf("Starting simulation...")

	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %v", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.SimulateActivities(ctx); err != nil {
			log.Printf("Activities simulation error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.collectMetrics(ctx)
	}()

	wg.Wait()
	return nil
}

func (s *Simulator) initialize(ctx context.Context) error {
	log.Printf("Phase 1: Registering %d users...", s.config.NumUsers)
	if err := s.registerUsers(ctx); err != nil {
		return fmt.Errorf("failed to register users: %v", err)
	}

	log.Printf("Phase 2: Filling in gamer profiles...")
	if err := s.saveProfiles(ctx); err != nil {
		return fmt.Errorf("failed to save profiles: %v", err)
	}

	log.Printf("Initialization completed: %d users ready", len(s.users))
	return nil
}

func (s *Simulator) registerUsers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make([]*SimulatedUser, 0, s.config.NumUsers)

	// Shared rate limiter so registration does not overwhelm the server
	rateLimiter := time.NewTicker(100 * time.Millisecond)
	defer rateLimiter.Stop()

	for i := 0; i < s.config.NumUsers; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-rateLimiter.C:
		}

		user := &SimulatedUser{
			Email:      fmt.Sprintf("player%d@clipsquad.test", i),
			Password:   fmt.Sprintf("simpass-%d", i),
			LikedClips: make(map[string]bool),
			Following:  make(map[string]bool),
		}

		var regResp struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		}
		if err := s.post(ctx, "/auth/register", "", map[string]string{
			"email":    user.Email,
			"password": user.Password,
		}, &regResp); err != nil {
			log.Printf("Failed to register %s: %v", user.Email, err)
			continue
		}
		user.UserID = regResp.ID

		var loginResp struct {
			Success bool   `json:"success"`
			Token   string `json:"token"`
			UserID  string `json:"userId"`
		}
		if err := s.post(ctx, "/auth/login", "", map[string]string{
			"email":    user.Email,
			"password": user.Password,
		}, &loginResp); err != nil || !loginResp.Success {
			log.Printf("Failed to log in %s: %v", user.Email, err)
			continue
		}
		user.Token = loginResp.Token
		if user.UserID == "" {
			user.UserID = loginResp.UserID
		}

		s.users = append(s.users, user)
	}

	if len(s.users) == 0 {
		return fmt.Errorf("no users registered")
	}
	return nil
}

var (
	simGames     = []string{"Apex Legends", "Valorant", "Rocket League", "Overwatch 2", "Fortnite"}
	simPlatforms = []string{"PC", "PlayStation", "Xbox", "Switch"}
	simRegions   = []string{"NA East", "NA West", "EU", "APAC", "SA"}
)

func (s *Simulator) saveProfiles(ctx context.Context) error {
	for i, user := range s.users {
		// Roughly a third of users never fill in a gamer tag; their email
		// ends up stored as the username and the server masks it on read.
		username := fmt.Sprintf("SimPlayer%d", i)
		if i%3 == 0 {
			username = ""
		}
		if err := s.put(ctx, "/profile", user.Token, map[string]string{
			"username":     username,
			"platform":     simPlatforms[rand.Intn(len(simPlatforms))],
			"favoriteGame": simGames[rand.Intn(len(simGames))],
			"region":       simRegions[rand.Intn(len(simRegions))],
		}, nil); err != nil {
			log.Printf("Failed to save profile for %s: %v", user.Email, err)
		}
	}
	return nil
}

// zipfIndex picks a user index with popularity skew: low indices are
// picked far more often, modeling a few popular creators.
func (s *Simulator) zipfIndex(n int) int {
	if n <= 1 {
		return 0
	}
	zipf := rand.NewZipf(rand.New(rand.NewSource(time.Now().UnixNano())), s.config.ZipfS, 1, uint64(n-1))
	return int(zipf.Uint64())
}

func (s *Simulator) collectMetrics(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.stats.mu.RLock()
			log.Printf("Stats: requests=%d ok=%d failed=%d clips=%d comments=%d likes=%d follows=%d lfg=%d",
				s.stats.TotalRequests, s.stats.SuccessRequests, s.stats.FailedRequests,
				s.stats.TotalClips, s.stats.TotalComments, s.stats.TotalLikes,
				s.stats.TotalFollows, s.stats.TotalLFGPosts)
			s.stats.mu.RUnlock()
		}
	}
}

func (s *Simulator) GetStats() *SimulationStats {
	return s.stats
}

// post sends a JSON POST and decodes the response into out when non-nil
func (s *Simulator) post(ctx context.Context, path, token string, body, out interface{}) error {
	return s.do(ctx, http.MethodPost, path, token, body, out)
}

func (s *Simulator) put(ctx context.Context, path, token string, body, out interface{}) error {
	return s.do(ctx, http.MethodPut, path, token, body, out)
}

func (s *Simulator) get(ctx context.Context, path, token string, out interface{}) error {
	return s.do(ctx, http.MethodGet, path, token, nil, out)
}

func (s *Simulator) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	s.stats.mu.Lock()
	s.stats.TotalRequests++
	s.stats.RequestLatencies = append(s.stats.RequestLatencies, latency)
	if err != nil || resp.StatusCode >= 400 {
		s.stats.FailedRequests++
	} else {
		s.stats.SuccessRequests++
	}
	s.stats.mu.Unlock()

	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(payload))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
