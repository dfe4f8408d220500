package main

import (
	"context"
	"log"
	"time"

	"clipsquad/simulator"
)

func main() {
	config := simulator.SimConfig{
		NumUsers:       25,
		SimulationTime: 10 * time.Minute,
		ClipFrequency:  40.0,
		LFGFrequency:   15.0,
		LikeFrequency:  120.0,
		FollowRate:     0.15,
		ZipfS:          1.07,
		ServerURL:      "http://localhost:8080",
	}

	sim := simulator.NewSimulator(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.SimulationTime)
	defer cancel()

	log.Printf("Starting simulation with configuration:")
	log.Printf("- Server URL: %s", config.ServerURL)
	log.Printf("- Number of users: %d", config.NumUsers)
	log.Printf("- Simulation time: %v", config.SimulationTime)
	log.Printf("- Clip frequency: %.2f clips/user/hour", config.ClipFrequency)
	log.Printf("- LFG frequency: %.2f posts/user/hour", config.LFGFrequency)
	log.Printf("- Like frequency: %.2f likes/user/hour", config.LikeFrequency)
	log.Printf("- Follow rate: %.2f", config.FollowRate)
	log.Printf("- Zipf parameter: %.2f", config.ZipfS)

	if err := sim.Run(ctx); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	stats := sim.GetStats()
	log.Printf("Simulation completed. Final stats:")
	log.Printf("- Total requests: %d", stats.TotalRequests)
	log.Printf("- Successful: %d", stats.SuccessRequests)
	log.Printf("- Failed: %d", stats.FailedRequests)
	log.Printf("- Clips posted: %d", stats.TotalClips)
	log.Printf("- Comments posted: %d", stats.TotalComments)
	log.Printf("- Likes toggled: %d", stats.TotalLikes)
	log.Printf("- Follows toggled: %d", stats.TotalFollows)
	log.Printf("- LFG posts: %d", stats.TotalLFGPosts)
}
