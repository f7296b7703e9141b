package sequence

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest indicates malformed generation parameters: a
	// negative length or spacing, or filters that match no records while a
	// non-empty sequence was requested.
	ErrInvalidRequest = errors.New("sequence: invalid request parameters")

	// ErrInfeasible indicates that no valid ordering exists for the request,
	// or that the builder exhausted its retry budget without finding one.
	ErrInfeasible = errors.New("sequence: no valid ordering found")
)

// InfeasibleError is returned by Generate when a sequence could not be
// produced. It always carries the feasibility report so callers can consult
// MaxSafeLength and adjust their request.
type InfeasibleError struct {
	Report   FeasibilityReport
	Attempts int
}

func (e *InfeasibleError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("sequence: no valid ordering found after %d attempts (%s)", e.Attempts, e.Report.Reason)
	}
	return fmt.Sprintf("sequence: request is infeasible: %s", e.Report.Reason)
}

// Is makes errors.Is(err, ErrInfeasible) match.
func (e *InfeasibleError) Is(target error) bool { return target == ErrInfeasible }

func invalidRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
