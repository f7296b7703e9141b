package jobs

import (
	"context"
	"log"
	"sync"
)

// RunFunc does the actual work of a job. It reports progress through the
// callback and returns the output key (e.g. an S3 key) on success.
type RunFunc func(ctx context.Context, progress func(pct int, msg string)) (string, error)

// Manager runs jobs with bounded concurrency and keeps their state in a
// Store. Safe for concurrent use.
type Manager struct {
	store     Store
	semaphore chan struct{}

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewManager builds a manager allowing at most maxConcurrent jobs to run
// at once.
func NewManager(store Store, maxConcurrent int) *Manager {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Manager{
		store:     store,
		semaphore: make(chan struct{}, maxConcurrent),
		cancels:   make(map[string]context.CancelFunc),
	}
}

// Submit registers a new job and starts it in the background. The returned
// job is a snapshot in the pending state.
func (m *Manager) Submit(ctx context.Context, jobType string, run RunFunc) (*Job, error) {
	job := NewJob(jobType)
	if err := m.store.Put(ctx, job); err != nil {
		return nil, err
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancels[job.ID] = cancel
	m.mu.Unlock()

	go m.execute(jobCtx, job.ID, run)

	snapshot := *job
	return &snapshot, nil
}

func (m *Manager) execute(ctx context.Context, id string, run RunFunc) {
	defer func() {
		m.mu.Lock()
		if cancel, ok := m.cancels[id]; ok {
			cancel()
			delete(m.cancels, id)
		}
		m.mu.Unlock()
	}()

	m.semaphore <- struct{}{}
	defer func() { <-m.semaphore }()

	// The job may have been cancelled while queued.
	if ctx.Err() != nil {
		m.transition(id, func(j *Job) {
			j.Status = StatusCancelled
			j.Message = "cancelled before start"
		})
		return
	}

	m.transition(id, func(j *Job) {
		j.Status = StatusRunning
		j.Message = "started"
	})

	progress := func(pct int, msg string) {
		m.transition(id, func(j *Job) {
			j.Progress = pct
			j.Message = msg
		})
	}

	outputKey, err := run(ctx, progress)
	switch {
	case ctx.Err() != nil:
		m.transition(id, func(j *Job) {
			j.Status = StatusCancelled
			j.Message = "cancelled"
		})
	case err != nil:
		log.Printf("❌ Job %s failed: %v", id, err)
		m.transition(id, func(j *Job) {
			j.Status = StatusFailed
			j.Error = err.Error()
		})
	default:
		m.transition(id, func(j *Job) {
			j.Status = StatusSucceeded
			j.Progress = 100
			j.OutputKey = outputKey
			j.Message = "done"
		})
	}
}

// transition applies a mutation to the stored job. Store errors here are
// logged, not returned: the job itself already ran.
func (m *Manager) transition(id string, mutate func(*Job)) {
	if err := Update(context.Background(), m.store, id, mutate); err != nil {
		log.Printf("⚠️  Failed to persist job %s: %v", id, err)
	}
}

// Cancel aborts a pending or running job. Finished jobs are left alone.
func (m *Manager) Cancel(ctx context.Context, id string) error {
	job, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Done() {
		return nil
	}

	m.mu.Lock()
	cancel, ok := m.cancels[id]
	m.mu.Unlock()
	if ok {
		cancel()
	}
	return nil
}

// Get returns the current state of a job.
func (m *Manager) Get(ctx context.Context, id string) (*Job, error) {
	return m.store.Get(ctx, id)
}

// List returns all retained jobs, newest first when the store orders them.
func (m *Manager) List(ctx context.Context) ([]*Job, error) {
	return m.store.List(ctx)
}
