// Package jobs tracks asynchronous render work. Jobs are persisted in a
// Store (Redis in production, memory in tests) and executed by a Manager
// with a bounded concurrency pool.
package jobs

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// Job is one unit of asynchronous work.
type Job struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message,omitempty"`
	OutputKey string    `json:"output_key,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func nowUTC() time.Time { return time.Now().UTC() }

// NewJob creates a pending job of the given type.
func NewJob(jobType string) *Job {
	now := nowUTC()
	return &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Done reports whether the job has reached a terminal state.
func (j *Job) Done() bool {
	switch j.Status {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	}
	return false
}
