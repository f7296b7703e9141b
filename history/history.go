// Package history keeps a short memory of recently generated sequences so
// back-to-back renders from the same catalog don't come out near-identical.
package history

import (
	"sync"

	"clipmix/sequence"
)

const (
	// DefaultCapacity is how many past sequences the ring remembers.
	DefaultCapacity = 20
	// SimilarityThreshold marks a candidate as too close to a past sequence.
	SimilarityThreshold = 0.75

	maxDistinctAttempts = 10
)

// Similarity measures positional overlap between two clip-name sequences:
// the fraction of positions holding the same clip, over the longer length.
// Two empty sequences are identical.
func Similarity(a, b []string) float64 {
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1.0
	}

	shorter := len(a)
	if len(b) < shorter {
		shorter = len(b)
	}
	matches := 0
	for i := 0; i < shorter; i++ {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(longer)
}

// Ring is a fixed-capacity record of past sequences. Safe for concurrent
// use.
type Ring struct {
	mu       sync.Mutex
	entries  [][]string
	capacity int
	next     int
}

// NewRing builds a ring remembering up to capacity sequences.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Ring{capacity: capacity}
}

// Add records a sequence, evicting the oldest entry once full.
func (r *Ring) Add(names []string) {
	entry := make([]string, len(names))
	copy(entry, names)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) < r.capacity {
		r.entries = append(r.entries, entry)
		return
	}
	r.entries[r.next] = entry
	r.next = (r.next + 1) % r.capacity
}

// MaxSimilarity returns the highest similarity between the candidate and
// any remembered sequence, or 0 when the ring is empty.
func (r *Ring) MaxSimilarity(names []string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	max := 0.0
	for _, entry := range r.entries {
		if s := Similarity(names, entry); s > max {
			max = s
		}
	}
	return max
}

// Len reports how many sequences are currently remembered.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func names(items []sequence.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Record.Name
	}
	return out
}

// GenerateDistinct builds a sequence that differs from recent history,
// retrying generation until the candidate's similarity to every remembered
// sequence falls below the threshold. When no attempt gets under the
// threshold (small pools leave little room to vary), the least similar
// candidate wins. The chosen sequence is recorded in the ring.
func GenerateDistinct(pool sequence.Pool, req sequence.Request, ring *Ring) ([]sequence.Item, error) {
	var best []sequence.Item
	bestScore := 2.0

	for attempt := 0; attempt < maxDistinctAttempts; attempt++ {
		items, err := sequence.Generate(pool, req)
		if err != nil {
			return nil, err
		}

		score := ring.MaxSimilarity(names(items))
		if score < bestScore {
			best, bestScore = items, score
		}
		if score < SimilarityThreshold {
			break
		}
	}

	ring.Add(names(best))
	return best, nil
}
