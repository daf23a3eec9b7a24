package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWithinWorkingHours(t *testing.T) {
	repo := NewMemoryRepository()
	doctor := seedDoctor(repo, "Dr. Adams")
	seedBlock(repo, doctor.ID, time.Monday, NewTimeOfDay(8, 0), NewTimeOfDay(16, 0))

	checker := NewAvailabilityChecker(repo)
	ctx := context.Background()

	tests := []struct {
		name       string
		day        time.Weekday
		start, end TimeOfDay
		want       bool
	}{
		{name: "inside the block", day: time.Monday, start: NewTimeOfDay(9, 0), end: NewTimeOfDay(10, 0), want: true},
		{name: "touching block start", day: time.Monday, start: NewTimeOfDay(8, 0), end: NewTimeOfDay(9, 0), want: true},
		{name: "touching block end", day: time.Monday, start: NewTimeOfDay(15, 0), end: NewTimeOfDay(16, 0), want: true},
		{name: "exactly the block", day: time.Monday, start: NewTimeOfDay(8, 0), end: NewTimeOfDay(16, 0), want: true},
		{name: "starts before opening", day: time.Monday, start: NewTimeOfDay(7, 30), end: NewTimeOfDay(8, 30), want: false},
		{name: "runs past closing", day: time.Monday, start: NewTimeOfDay(15, 30), end: NewTimeOfDay(16, 30), want: false},
		{name: "day without blocks", day: time.Sunday, start: NewTimeOfDay(9, 0), end: NewTimeOfDay(10, 0), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := checker.IsWithinWorkingHours(ctx, doctor.ID, tc.day, tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsWithinWorkingHoursMultipleBlocks(t *testing.T) {
	repo := NewMemoryRepository()
	doctor := seedDoctor(repo, "Dr. Baker")
	seedBlock(repo, doctor.ID, time.Tuesday, NewTimeOfDay(8, 0), NewTimeOfDay(12, 0))
	seedBlock(repo, doctor.ID, time.Tuesday, NewTimeOfDay(14, 0), NewTimeOfDay(18, 0))

	checker := NewAvailabilityChecker(repo)
	ctx := context.Background()

	// Fits entirely inside the afternoon block.
	ok, err := checker.IsWithinWorkingHours(ctx, doctor.ID, time.Tuesday, NewTimeOfDay(14, 0), NewTimeOfDay(15, 0))
	require.NoError(t, err)
	assert.True(t, ok)

	// Spans the lunch gap, so it fits inside no single block.
	ok, err = checker.IsWithinWorkingHours(ctx, doctor.ID, time.Tuesday, NewTimeOfDay(11, 30), NewTimeOfDay(14, 30))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsWithinWorkingHoursInvalidWindow(t *testing.T) {
	repo := NewMemoryRepository()
	doctor := seedDoctor(repo, "Dr. Clark")
	checker := NewAvailabilityChecker(repo)
	ctx := context.Background()

	_, err := checker.IsWithinWorkingHours(ctx, doctor.ID, time.Monday, NewTimeOfDay(10, 0), NewTimeOfDay(9, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = checker.IsWithinWorkingHours(ctx, doctor.ID, time.Monday, NewTimeOfDay(10, 0), NewTimeOfDay(10, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = checker.IsWithinWorkingHours(ctx, doctor.ID, time.Monday, NewTimeOfDay(23, 30), NewTimeOfDay(24, 30))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
