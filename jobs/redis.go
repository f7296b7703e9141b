package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clipmix/config"
)

const (
	jobKeyPrefix = "clipmix:jobs:"
	jobIndexKey  = "clipmix:jobs:index"
)

// RedisStore persists jobs in Redis with a retention TTL, so finished jobs
// age out on their own.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisStore connects to Redis and verifies connectivity.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client, retention: config.JobRetention}, nil
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) Put(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}

	key := jobKeyPrefix + job.ID
	if err := r.client.Set(ctx, key, data, r.retention).Err(); err != nil {
		return fmt.Errorf("failed to store job %s: %w", job.ID, err)
	}
	if err := r.client.SAdd(ctx, jobIndexKey, job.ID).Err(); err != nil {
		return fmt.Errorf("failed to index job %s: %w", job.ID, err)
	}
	return r.client.Expire(ctx, jobIndexKey, r.retention).Err()
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Job, error) {
	data, err := r.client.Get(ctx, jobKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job %s: %w", id, err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", id, err)
	}
	return &job, nil
}

func (r *RedisStore) List(ctx context.Context) ([]*Job, error) {
	ids, err := r.client.SMembers(ctx, jobIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := make([]*Job, 0, len(ids))
	for _, id := range ids {
		job, err := r.Get(ctx, id)
		if err == ErrJobNotFound {
			// Job expired but the index entry lingered; drop it.
			r.client.SRem(ctx, jobIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
