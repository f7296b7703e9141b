package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

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

	log.Println("🎬 Render Worker - Starting...")
	log.Printf("🔗 Kafka Brokers: %v", cfg.KafkaBrokers)
	log.Printf("📋 Topic: %s", cfg.RenderTopic)
	log.Printf("👥 Consumer Group: %s", cfg.RenderGroup)

	store, err := jobs.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("❌ Failed to connect to job store: %v", err)
	}
	defer store.Close()

	renderer, err := buildRenderer(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize renderer: %v", err)
	}

	handle := func(ctx context.Context, msg kafka.RenderMessage) error {
		if err := jobs.Update(ctx, store, msg.JobID, func(j *jobs.Job) {
			j.Status = jobs.StatusRunning
			j.Message = "started"
		}); err != nil {
			return err
		}

		progress := func(pct int, text string) {
			_ = jobs.Update(ctx, store, msg.JobID, func(j *jobs.Job) {
				j.Progress = pct
				j.Message = text
			})
		}

		key, err := renderer.Render(ctx, msg.Request, progress)
		if err != nil {
			log.Printf("❌ Render job %s failed: %v", msg.JobID, err)
			// Mark the job failed but consume the message; the failure is
			// recorded, redelivery would just fail the same way.
			return jobs.Update(ctx, store, msg.JobID, func(j *jobs.Job) {
				j.Status = jobs.StatusFailed
				j.Error = err.Error()
			})
		}

		return jobs.Update(ctx, store, msg.JobID, func(j *jobs.Job) {
			j.Status = jobs.StatusSucceeded
			j.Progress = 100
			j.OutputKey = key
			j.Message = "done"
		})
	}

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.RenderTopic, cfg.RenderGroup, handle)
	if err != nil {
		log.Fatalf("❌ Failed to create Kafka consumer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("❌ Kafka consumer failed: %v", err)
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	<-sigterm
	log.Println("Received termination signal")

	cancel()

	// Give in-flight renders a moment to persist job state
	time.Sleep(2 * time.Second)

	if err := consumer.Close(); err != nil {
		log.Printf("⚠️  Consumer close error: %v", err)
	}
}

// buildRenderer wires the fetch/transcode/upload pipeline. Clips come from
// Google Drive when credentials are configured, otherwise from the raw
// prefix of the bucket.
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
		log.Println("📥 Fetching clips from Google Drive")
	} else {
		fetcher = &pipeline.BucketFetcher{Store: mediaStore}
		log.Printf("📥 Fetching clips from s3://%s/%s", cfg.Bucket, config.RawClipsPrefix)
	}

	return pipeline.NewRenderer(fetcher, mediaStore, pipeline.FFmpegTranscoder{}, ""), nil
}
