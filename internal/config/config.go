// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// The placeholder rendered for clips posted without a thumbnail.
const DefaultPlaceholderThumbnail = "https://placehold.co/600x400/111827/FFFFFF?text=No+Thumbnail"

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// DatabaseConfig holds document-store settings. Type is "mongo" or
// "memory"; the in-memory store is for tests and local development only.
type DatabaseConfig struct {
	Type string
	URI  string
	Name string
}

// StorageConfig holds blob-store (thumbnail upload) settings. Uploads are
// disabled when the bucket is unset; clips then keep whatever thumbnail
// URL the client supplied.
type StorageConfig struct {
	Endpoint  string
	Bucket    string
	PublicURL string
	Region    string
}

// Config holds the complete application configuration
type Config struct {
	Server               *ServerConfig
	Database             *DatabaseConfig
	Storage              *StorageConfig
	AvatarBaseURL        string
	PlaceholderThumbnail string
	JWTSecret            string
	AllowedOrigins       []string
	Debug                bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// DefaultDatabaseConfig provides default document-store settings
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type: "mongo",
		URI:  "mongodb://localhost:27017",
		Name: "clipsquad",
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env from the usual run locations
	envLocations := []string{
		".env",
		"../../.env",
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		// Silent failure if no .env exists, which is fine
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}
	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	dbConfig := DefaultDatabaseConfig()

	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		dbConfig.Type = dbType
	}
	switch dbConfig.Type {
	case "mongo":
		if uri := os.Getenv("MONGODB_URI"); uri != "" {
			dbConfig.URI = uri
		}
		if name := os.Getenv("MONGODB_DATABASE"); name != "" {
			dbConfig.Name = name
		}
	case "memory":
		// Nothing to configure
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q (want mongo or memory)", dbConfig.Type)
	}

	storageConfig := &StorageConfig{
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Bucket:    os.Getenv("S3_BUCKET"),
		PublicURL: os.Getenv("S3_PUBLIC_URL"),
		Region:    getEnvOrDefault("S3_REGION", "auto"),
	}

	cfg := &Config{
		Server:               serverConfig,
		Database:             dbConfig,
		Storage:              storageConfig,
		AvatarBaseURL:        os.Getenv("AVATAR_BASE_URL"),
		PlaceholderThumbnail: getEnvOrDefault("PLACEHOLDER_THUMBNAIL", DefaultPlaceholderThumbnail),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AllowedOrigins:       []string{"*"},
		Debug:                false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}
	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
