package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"clipmix/api"
	"clipmix/catalog"
	"clipmix/config"
	"clipmix/drive"
	"clipmix/jobs"
	"clipmix/kafka"
	"clipmix/pipeline"
	"clipmix/storage"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.FromEnv()

	records, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("❌ Failed to load catalog %s: %v", cfg.CatalogPath, err)
	}
	log.Printf("📚 Loaded %d clips from %s", len(records), cfg.CatalogPath)

	store := newJobStore(cfg)
	manager := jobs.NewManager(store, config.MaxConcurrentJobs)
	dispatcher := newDispatcher(cfg, store, manager)

	server := api.NewServer(records, manager, dispatcher)
	router := api.NewRouter(server)

	addr := ":" + cfg.Port
	log.Printf("🚀 API server listening on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/sequence/analyze")
	log.Println("  POST   /api/sequence/generate")
	log.Println("  POST   /api/sequence/validate")
	log.Println("  POST   /api/render")
	log.Println("  GET    /api/jobs")
	log.Println("  GET    /api/jobs/:id")
	log.Println("  DELETE /api/jobs/:id")

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// newJobStore prefers Redis so job state survives restarts and is shared
// with the worker fleet; it falls back to memory when Redis is unreachable.
func newJobStore(cfg config.Config) jobs.Store {
	store, err := jobs.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Printf("⚠️  Redis unavailable (%v), using in-memory job store", err)
		return jobs.NewMemoryStore()
	}
	log.Printf("🗄️  Job store: redis at %s", cfg.RedisAddr)
	return store
}

// newDispatcher picks the render path from RENDER_MODE. Returns nil when
// rendering is disabled or its dependencies are missing, which the API
// reports as 503 on /api/render.
func newDispatcher(cfg config.Config, store jobs.Store, manager *jobs.Manager) api.RenderDispatcher {
	switch cfg.RenderMode {
	case "off":
		log.Println("🚫 Rendering disabled")
		return nil

	case "kafka":
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.RenderTopic)
		if err != nil {
			log.Printf("⚠️  Kafka unavailable (%v), rendering disabled", err)
			return nil
		}
		log.Printf("📨 Dispatching renders to Kafka topic %s", cfg.RenderTopic)
		return &kafka.Dispatcher{Store: store, Producer: producer}

	default:
		renderer, err := buildRenderer(cfg)
		if err != nil {
			log.Printf("⚠️  Render pipeline unavailable (%v), rendering disabled", err)
			return nil
		}
		log.Println("🎬 Dispatching renders in-process")
		return &pipeline.LocalDispatcher{Manager: manager, Renderer: renderer}
	}
}

func buildRenderer(cfg config.Config) (*pipeline.Renderer, error) {
	ctx := context.Background()

	mediaStore, err := storage.NewMediaStore(ctx, cfg.Bucket, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}

	var fetcher pipeline.Fetcher
	if cfg.DriveCredentials != "" {
		client, err := drive.NewFetcher(ctx, cfg.DriveCredentials)
		if err != nil {
			return nil, err
		}
		fetcher = &pipeline.DriveFetcher{Client: client}
	} else {
		fetcher = &pipeline.BucketFetcher{Store: mediaStore}
	}

	return pipeline.NewRenderer(fetcher, mediaStore, pipeline.FFmpegTranscoder{}, ""), nil
}
