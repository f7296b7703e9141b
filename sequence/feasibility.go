package sequence

import (
	"fmt"
	"math"
)

// riskSlackMargin is the minimum spare-capacity ratio a forced category must
// have before a request counts as SAFE. Below it (fewer than 10% spare
// clips) the build can still succeed but may need retries.
const riskSlackMargin = 1.10

// maxPerCategory is the largest number of slots a single category can occupy
// in a sequence of the given length under the given spacing:
// ceil(length / (spacing+1)).
func maxPerCategory(length, spacing int) int {
	if length <= 0 {
		return 0
	}
	return (length + spacing) / (spacing + 1)
}

// Analyze classifies a request against a pool without building anything.
// It returns ErrInvalidRequest for malformed parameters; an infeasible
// request is not an error here, it is reported as Classification Infeasible.
func Analyze(pool Pool, req Request) (FeasibilityReport, error) {
	if err := validateRequest(pool, req); err != nil {
		return FeasibilityReport{}, err
	}

	report := FeasibilityReport{
		CategoryCounts: pool.Counts(),
		MaxSafeLength:  maxSafeLength(pool, req.MinSpacing),
	}
	k := len(pool.Categories())

	switch {
	case req.Length == 0:
		report.Classification = Safe

	case k < req.MinSpacing+1 && req.Length > k:
		// Too few categories to interleave: once every category has been
		// used, no placement can honor the spacing, repetition or not.
		report.Classification = Infeasible
		report.Reason = fmt.Sprintf(
			"%d categories cannot satisfy spacing %d beyond length %d",
			k, req.MinSpacing, k)

	case req.Length > report.MaxSafeLength:
		// Feasible by cycling through clips again, but not provable from
		// raw counts alone.
		report.Classification = Risky
		report.Reason = fmt.Sprintf(
			"length %d exceeds the provably safe maximum %d; clips will repeat",
			req.Length, report.MaxSafeLength)

	case req.Length > k && minCategorySlack(pool, req.Length, req.MinSpacing) < riskSlackMargin:
		report.Classification = Risky
		report.Reason = fmt.Sprintf(
			"tight fit: the smallest category has under %d%% spare clips for length %d at spacing %d",
			int(math.Round((riskSlackMargin-1)*100)), req.Length, req.MinSpacing)

	default:
		report.Classification = Safe
	}
	return report, nil
}

func validateRequest(pool Pool, req Request) error {
	if req.Length < 0 {
		return invalidRequestf("sequence length %d is negative", req.Length)
	}
	if req.MinSpacing < 0 {
		return invalidRequestf("min spacing %d is negative", req.MinSpacing)
	}
	if pool.TotalCount() == 0 && req.Length > 0 {
		return invalidRequestf("filters match no catalog records")
	}
	return nil
}

// minCategorySlack measures how much headroom the most constrained category
// has. With k categories, the other k-1 can cover at most
// (k-1)*maxPerCategory slots, so every category is forced to supply at least
// length minus that. The slack is available count over forced count; +Inf
// when nothing is forced.
func minCategorySlack(pool Pool, length, spacing int) float64 {
	k := len(pool.Categories())
	forced := length - (k-1)*maxPerCategory(length, spacing)
	if forced <= 0 {
		return math.Inf(1)
	}
	smallest := math.MaxInt
	for _, c := range pool.Categories() {
		if n := pool.Count(c); n < smallest {
			smallest = n
		}
	}
	return float64(smallest) / float64(forced)
}

// maxSafeLength finds the largest length L that is provably satisfiable
// without reusing any clip. For a candidate L with per-slot cap
// cap = ceil(L/(spacing+1)), an ordering exists when the capped counts can
// cover L and the categories pinned at the cap still fit:
// (cap-1)*(spacing+1) + pinned <= L.
func maxSafeLength(pool Pool, spacing int) int {
	total := pool.TotalCount()
	best := 0
	for length := 1; length <= total; length++ {
		if arrangementExists(pool, length, spacing) {
			best = length
		}
	}
	return best
}

func arrangementExists(pool Pool, length, spacing int) bool {
	cap := maxPerCategory(length, spacing)
	usable := 0
	atCap := 0
	for _, c := range pool.Categories() {
		n := pool.Count(c)
		if n >= cap {
			n = cap
			atCap++
		}
		usable += n
	}
	if usable < length {
		return false
	}
	// Spare capacity lets us pull categories back below the cap.
	pinned := atCap - (usable - length)
	if pinned < 0 {
		pinned = 0
	}
	return (cap-1)*(spacing+1)+pinned <= length
}
