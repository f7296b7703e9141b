package sequence

import (
	"math/rand"
	"time"
)

const (
	// maxBuildAttempts bounds full rebuilds with fresh shuffles.
	maxBuildAttempts = 20
	// maxRepairs bounds local swap repairs within a single attempt.
	maxRepairs = 24
	// repairWindow is how far behind the deadlocked tail a swap may reach.
	repairWindow = 8
)

// Generate builds a randomized sequence satisfying the request, using a
// fresh entropy source. Returns an *InfeasibleError when no valid ordering
// can be produced within the retry budget.
func Generate(pool Pool, req Request) ([]Item, error) {
	return generate(pool, req, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// GenerateSeeded is Generate with a fixed seed: identical pool, request and
// seed produce identical output. Intended for tests and reproducible runs.
func GenerateSeeded(pool Pool, req Request, seed int64) ([]Item, error) {
	return generate(pool, req, rand.New(rand.NewSource(seed)))
}

func generate(pool Pool, req Request, rng *rand.Rand) ([]Item, error) {
	report, err := Analyze(pool, req)
	if err != nil {
		return nil, err
	}
	if req.Length == 0 {
		return []Item{}, nil
	}
	if report.Classification == Infeasible {
		return nil, &InfeasibleError{Report: report}
	}

	for attempt := 0; attempt < maxBuildAttempts; attempt++ {
		placed := buildAttempt(pool, req, rng)
		if placed == nil {
			continue
		}
		// Safety net: a successful attempt must already be violation-free.
		if len(findViolations(placed, req.MinSpacing)) > 0 {
			continue
		}
		items := make([]Item, len(placed))
		for i, rec := range placed {
			items[i] = Item{ItemNumber: i + 1, Record: rec}
		}
		return items, nil
	}
	return nil, &InfeasibleError{Report: report, Attempts: maxBuildAttempts}
}

// deck deals one category's records in shuffled order, reshuffling and
// starting over once exhausted so lengths beyond the raw pool size cycle
// through the same clips again.
type deck struct {
	all   []Record
	queue []Record
}

func newDeck(records []Record, rng *rand.Rand) *deck {
	d := &deck{all: records}
	d.refill(rng)
	return d
}

func (d *deck) refill(rng *rand.Rand) {
	d.queue = append(d.queue[:0], d.all...)
	rng.Shuffle(len(d.queue), func(i, j int) {
		d.queue[i], d.queue[j] = d.queue[j], d.queue[i]
	})
}

func (d *deck) draw(rng *rand.Rand) Record {
	if len(d.queue) == 0 {
		d.refill(rng)
	}
	rec := d.queue[len(d.queue)-1]
	d.queue = d.queue[:len(d.queue)-1]
	return rec
}

func (d *deck) remaining() int { return len(d.queue) }

// buildAttempt grows the sequence one position at a time, drawing from a
// random eligible category. Returns nil when the attempt deadlocks beyond
// repair.
func buildAttempt(pool Pool, req Request, rng *rand.Rand) []Record {
	decks := make(map[string]*deck, len(pool.Categories()))
	for _, c := range pool.Categories() {
		decks[c] = newDeck(pool.Bucket(c), rng)
	}

	placed := make([]Record, 0, req.Length)
	repairs := 0

	for len(placed) < req.Length {
		var eligible []string
		for _, c := range pool.Categories() {
			if !blockedAtEnd(placed, c, req.MinSpacing) {
				eligible = append(eligible, c)
			}
		}

		if len(eligible) == 0 {
			repaired, ok := repairTail(placed, decks, req.MinSpacing, pool, rng)
			if !ok || repairs >= maxRepairs {
				return nil
			}
			placed = repaired
			repairs++
			continue
		}

		cat := pickWeighted(eligible, decks, rng)
		placed = append(placed, decks[cat].draw(rng))
	}
	return placed
}

// pickWeighted chooses among eligible categories with weight proportional to
// unplayed clips in the current cycle, plus one so exhausted categories can
// still be drawn (cycling) and small categories are never starved.
func pickWeighted(eligible []string, decks map[string]*deck, rng *rand.Rand) string {
	total := 0
	for _, c := range eligible {
		total += decks[c].remaining() + 1
	}
	r := rng.Intn(total)
	for _, c := range eligible {
		r -= decks[c].remaining() + 1
		if r < 0 {
			return c
		}
	}
	return eligible[len(eligible)-1]
}

// blockedAtEnd reports whether cat occurs within the last spacing positions.
func blockedAtEnd(placed []Record, cat string, spacing int) bool {
	start := len(placed) - spacing
	if start < 0 {
		start = 0
	}
	for i := start; i < len(placed); i++ {
		if placed[i].Category == cat {
			return true
		}
	}
	return false
}

// fitsAt reports whether cat may occupy position j: no same-category record
// within spacing positions on either side.
func fitsAt(placed []Record, cat string, j, spacing int) bool {
	lo := j - spacing
	if lo < 0 {
		lo = 0
	}
	hi := j + spacing
	if hi > len(placed)-1 {
		hi = len(placed) - 1
	}
	for i := lo; i <= hi; i++ {
		if i != j && placed[i].Category == cat {
			return false
		}
	}
	return true
}

// repairTail resolves a deadlock (every category used within the last
// spacing positions) by relocating one earlier clip: position j gives its
// record to the deadlocked slot at the end and takes a clip from a category
// that fits at j. Returns the extended sequence, or false when no such swap
// exists within the window.
func repairTail(placed []Record, decks map[string]*deck, spacing int, pool Pool, rng *rand.Rand) ([]Record, bool) {
	lowest := len(placed) - spacing - repairWindow
	if lowest < 0 {
		lowest = 0
	}
	for j := len(placed) - spacing - 1; j >= lowest; j-- {
		moved := placed[j]
		// The displaced record must itself be legal at the end. Position j
		// sits outside the tail window, so this check never sees j itself.
		if blockedAtEnd(placed, moved.Category, spacing) {
			continue
		}
		for _, c := range pool.Categories() {
			if c == moved.Category || !fitsAt(placed, c, j, spacing) {
				continue
			}
			placed[j] = decks[c].draw(rng)
			return append(placed, moved), true
		}
	}
	return placed, false
}
