package main

import (
	stdctx "context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"clipsquad/internal/config"
	"clipsquad/internal/database"
	"clipsquad/internal/engine"
	"clipsquad/internal/feed"
	"clipsquad/internal/handlers"
	"clipsquad/internal/middleware"
	"clipsquad/internal/storage"
	"clipsquad/internal/utils"
	"clipsquad/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using the development signing key")
	}

	metrics := utils.NewMetricsCollector()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close(stdctx.Background())
	slog.Info("document store ready", "type", cfg.Database.Type)

	// Feed streams re-derive their full snapshot from the store on every
	// mutation; actors call Notify after each write.
	feedSync := feed.NewSynchronizer()
	feedSync.Register("clips", func(ctx stdctx.Context) (interface{}, error) {
		clips, err := store.ListClips(ctx)
		if err != nil {
			return nil, err
		}
		return feed.NewClipViews(clips, cfg.PlaceholderThumbnail), nil
	})
	feedSync.Register("lfg", func(ctx stdctx.Context) (interface{}, error) {
		posts, err := store.ListLFGPosts(ctx)
		if err != nil {
			return nil, err
		}
		return feed.NewLFGViews(posts), nil
	})
	defer feedSync.Close()

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, engine.EngineConfig{
		Store:                store,
		Feed:                 feedSync,
		Metrics:              metrics,
		AvatarBaseURL:        cfg.AvatarBaseURL,
		PlaceholderThumbnail: cfg.PlaceholderThumbnail,
	})

	hub := websocket.NewHub()
	go hub.Run()
	bridgeStream(feedSync, hub, "clips")
	bridgeStream(feedSync, hub, "lfg")

	var blobs storage.Uploader
	if cfg.Storage.Bucket != "" {
		s3Client, err := storage.NewS3Client(storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			Bucket:    cfg.Storage.Bucket,
			PublicURL: cfg.Storage.PublicURL,
			Region:    cfg.Storage.Region,
		})
		if err != nil {
			log.Fatalf("Failed to init blob storage: %v", err)
		}
		blobs = s3Client
		slog.Info("blob storage ready", "bucket", cfg.Storage.Bucket)
	} else {
		slog.Warn("blob storage disabled, thumbnail uploads unavailable")
	}

	server := handlers.NewServer(system, eng, metrics, store, hub, feedSync, blobs, cfg)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	route := func(path string, handler http.HandlerFunc) {
		http.HandleFunc(path, middleware.ApplyCORS(middleware.ApplyJWTMiddleware(handler, path), corsConfig))
	}

	route("/health", server.HandleHealth())
	route("/auth/register", server.HandleRegister())
	route("/auth/login", server.HandleLogin())
	route("/profile", server.HandleProfile())
	route("/profile/public", server.HandlePublicProfile())
	route("/follow", server.HandleFollow())
	route("/clips", server.HandleClips())
	route("/clips/like", server.HandleClipLike())
	route("/clips/comments", server.HandleComments())
	route("/lfg", server.HandleLFG())
	route("/ws", server.HandleWebSocket())

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, nil); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func openStore(cfg *config.Config) (database.Store, error) {
	switch cfg.Database.Type {
	case "memory":
		return database.NewMemoryStore(), nil
	default:
		return database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	}
}

// bridgeStream pumps one feed stream's snapshots into the websocket hub
func bridgeStream(feedSync *feed.Synchronizer, hub *websocket.Hub, name string) {
	sub, ok := feedSync.Subscribe(name)
	if !ok {
		log.Fatalf("Feed stream %q not registered", name)
	}
	go func() {
		for snap := range sub.C {
			payload, err := json.Marshal(snap)
			if err != nil {
				log.Printf("Failed to encode snapshot for stream %q: %v", name, err)
				continue
			}
			hub.AnnounceSnapshot(name, payload)
		}
	}()
}
