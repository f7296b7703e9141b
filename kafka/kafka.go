// Package kafka moves render requests between the API and the render
// workers over a Kafka topic, so rendering can scale independently of the
// HTTP layer.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"clipmix/jobs"
	"clipmix/pipeline"
)

// RenderMessage is the wire payload for one render job. The job record
// itself lives in the shared job store; the message carries its ID plus
// the request to execute.
type RenderMessage struct {
	JobID   string                 `json:"job_id"`
	Request pipeline.RenderRequest `json:"request"`
}

// Producer publishes render messages to the render topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer creates a synchronous producer. Sync because the API returns
// the job to the caller only after the message is on the bus.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &Producer{producer: producer, topic: topic}, nil
}

// Publish sends one render message, keyed by job ID so retries for the
// same job land on the same partition.
func (p *Producer) Publish(msg RenderMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal render message: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.JobID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("failed to publish render message: %w", err)
	}
	log.Printf("📤 Published render job %s (partition=%d, offset=%d)", msg.JobID, partition, offset)
	return nil
}

// Close shuts the producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}

// Dispatcher hands renders to the worker fleet: it records a pending job in
// the shared store, then publishes the request.
type Dispatcher struct {
	Store    jobs.Store
	Producer *Producer
}

func (d *Dispatcher) Dispatch(ctx context.Context, req pipeline.RenderRequest) (*jobs.Job, error) {
	job := jobs.NewJob("render")
	if err := d.Store.Put(ctx, job); err != nil {
		return nil, err
	}
	if err := d.Producer.Publish(RenderMessage{JobID: job.ID, Request: req}); err != nil {
		// The job record exists but nothing will pick it up; mark it failed.
		_ = jobs.Update(ctx, d.Store, job.ID, func(j *jobs.Job) {
			j.Status = jobs.StatusFailed
			j.Error = err.Error()
		})
		return nil, err
	}
	return job, nil
}
