package config

import (
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	MongoURI             string
	MongoDatabase        string
	RestaurantCollection string
	ReviewCollection     string
	Timeout              time.Duration
	QueryTimeout         time.Duration
	JoinMode             string
	EnsureIndexes        bool
	ServerLog            *log.Logger
}

// Load reads environment variables and returns a fully populated Config
// logging to stdout.
func Load() Config {
	return LoadTo(os.Stdout)
}

// LoadTo is Load with the server log written to out.
func LoadTo(out io.Writer) Config {
	database := strings.TrimSpace(os.Getenv("RESTREVIEWS_NS"))
	if database == "" {
		database = envOrDefault("MONGO_DB", "sample_restaurants")
	}

	cfg := Config{
		Addr:                 envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:             envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        database,
		RestaurantCollection: envOrDefault("RESTAURANT_COLLECTION", "restaurants"),
		ReviewCollection:     envOrDefault("REVIEW_COLLECTION", "reviews"),
		Timeout:              durationOrDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		QueryTimeout:         durationOrDefault("QUERY_TIMEOUT", 5*time.Second),
		JoinMode:             envOrDefault("RESTAURANT_JOIN_MODE", "pipeline"),
		EnsureIndexes:        strings.EqualFold(strings.TrimSpace(os.Getenv("ENSURE_INDEXES")), "true"),
		ServerLog:            log.New(out, "[restreviews-api] ", log.LstdFlags|log.Lshortfile),
	}

	cfg.ServerLog.Printf("loaded config: database=%q restaurants=%q reviews=%q joinMode=%q", cfg.MongoDatabase, cfg.RestaurantCollection, cfg.ReviewCollection, cfg.JoinMode)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
