package config

import (
	"os"
	"strconv"
	"strings"
)

// Config collects the environment-driven settings shared by the API server
// and the render worker. Every field has a working default so a bare
// development machine can run without a .env file.
type Config struct {
	// Server
	Port string

	// Media store (S3)
	Bucket    string
	AWSRegion string

	// Redis job store
	RedisAddr string
	RedisPass string
	RedisDB   int

	// Kafka
	KafkaBrokers []string
	RenderTopic  string
	RenderGroup  string

	// Google Drive service account credentials file
	DriveCredentials string

	// CatalogPath is the CSV inventory the API serves sequences from
	CatalogPath string

	// RenderMode selects how the API dispatches renders: "local" runs the
	// pipeline in-process, "kafka" publishes to the worker fleet, "off"
	// disables rendering.
	RenderMode string
}

// FromEnv builds a Config from environment variables. Callers load .env
// first (godotenv) so local overrides apply.
func FromEnv() Config {
	return Config{
		Port:             getenv("PORT", "8080"),
		Bucket:           getenv("CLIPMIX_BUCKET", "bg-video-storage"),
		AWSRegion:        os.Getenv("AWS_REGION"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPass:        os.Getenv("REDIS_PASS"),
		RedisDB:          getenvInt("REDIS_DB", 0),
		KafkaBrokers:     splitList(getenv("KAFKA_BROKERS", "localhost:9092")),
		RenderTopic:      getenv("RENDER_TOPIC", RenderTopic),
		RenderGroup:      getenv("RENDER_GROUP", DefaultRenderGroup),
		DriveCredentials: os.Getenv("DRIVE_CREDENTIALS_FILE"),
		CatalogPath:      getenv("CATALOG_PATH", "catalog.csv"),
		RenderMode:       getenv("RENDER_MODE", "local"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
