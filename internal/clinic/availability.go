package clinic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AvailabilityChecker decides whether a requested window falls inside a
// doctor's declared working hours for a weekday.
type AvailabilityChecker struct {
	repo Repository
}

func NewAvailabilityChecker(repo Repository) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo}
}

// IsWithinWorkingHours reports whether [start, end) fits entirely inside
// any one of the doctor's blocks for the given day. Boundary touches are
// allowed: a window starting exactly at block start or ending exactly at
// block end is still inside. A doctor with no block that day is not
// working, so the answer is false.
func (c *AvailabilityChecker) IsWithinWorkingHours(ctx context.Context, doctorID uuid.UUID, day time.Weekday, start, end TimeOfDay) (bool, error) {
	if !start.Before(end) {
		return false, fmt.Errorf("%w: window start %s must be before end %s", ErrInvalidInput, start, end)
	}
	if !start.Valid() || end > MinutesPerDay {
		return false, fmt.Errorf("%w: window %s-%s outside the day", ErrInvalidInput, start, end)
	}

	blocks, err := c.repo.ListScheduleBlocks(ctx, doctorID, day)
	if err != nil {
		return false, fmt.Errorf("load schedule blocks: %w", err)
	}

	for _, b := range blocks {
		if !start.Before(b.StartTime) && !b.EndTime.Before(end) {
			return true, nil
		}
	}
	return false, nil
}
