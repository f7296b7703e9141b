package sequence

import "sort"

// Record is a single catalog entry. Records are created by a loader
// (see package catalog) and never mutated by this package.
type Record struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Link     string `json:"link,omitempty"`
}

// Request describes one generation call. Empty Categories or Colors means
// "no restriction on this axis".
type Request struct {
	Categories []string `json:"categories,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Length     int      `json:"sequence_length"`
	MinSpacing int      `json:"min_spacing"`
}

// Item is one position of a generated sequence. ItemNumber is 1-based and
// assigned once, at emission time.
type Item struct {
	ItemNumber int    `json:"item_no"`
	Record     Record `json:"record"`
}

// Classification is the feasibility verdict for a request.
type Classification string

const (
	Safe       Classification = "SAFE"
	Risky      Classification = "RISKY"
	Infeasible Classification = "INFEASIBLE"
)

// FeasibilityReport summarizes whether a request can be satisfied by a pool.
type FeasibilityReport struct {
	Classification Classification `json:"classification"`
	// MaxSafeLength is the largest length provably satisfiable without
	// reusing any clip, given the pool and spacing.
	MaxSafeLength  int            `json:"max_safe_length"`
	CategoryCounts map[string]int `json:"category_counts"`
	Reason         string         `json:"reason,omitempty"`
}

// Violation records one spacing breach found by Validate.
type Violation struct {
	// Position is the 1-based position of the later of the two clips.
	Position     int    `json:"position"`
	Category     string `json:"category"`
	SpacingFound int    `json:"spacing_found"`
}

// ViolationReport is the ordered list of spacing breaches in a sequence.
// An empty report means the sequence is valid.
type ViolationReport []Violation

// Pool is the category-bucketed subset of a catalog matching one request's
// filters. Within a bucket, records keep catalog order; the category list is
// sorted so that all iteration over a Pool is deterministic.
type Pool struct {
	buckets    map[string][]Record
	categories []string
}

func newPool(buckets map[string][]Record) Pool {
	cats := make([]string, 0, len(buckets))
	for c := range buckets {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return Pool{buckets: buckets, categories: cats}
}

// Categories returns the sorted list of non-empty categories in the pool.
func (p Pool) Categories() []string { return p.categories }

// Bucket returns the records of one category, in catalog order.
func (p Pool) Bucket(category string) []Record { return p.buckets[category] }

// Count returns the number of records available for a category.
func (p Pool) Count(category string) int { return len(p.buckets[category]) }

// TotalCount returns the number of records across all categories.
func (p Pool) TotalCount() int {
	total := 0
	for _, c := range p.categories {
		total += len(p.buckets[c])
	}
	return total
}

// Counts returns a fresh category -> available count mapping.
func (p Pool) Counts() map[string]int {
	counts := make(map[string]int, len(p.categories))
	for _, c := range p.categories {
		counts[c] = len(p.buckets[c])
	}
	return counts
}

// Records flattens the pool back into a single record list, category by
// category in sorted order.
func (p Pool) Records() []Record {
	out := make([]Record, 0, p.TotalCount())
	for _, c := range p.categories {
		out = append(out, p.buckets[c]...)
	}
	return out
}
