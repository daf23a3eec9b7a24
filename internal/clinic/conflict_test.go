package clinic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 TimeOfDay
		want           bool
	}{
		{
			name: "identical windows",
			s1:   NewTimeOfDay(9, 0), e1: NewTimeOfDay(9, 30),
			s2: NewTimeOfDay(9, 0), e2: NewTimeOfDay(9, 30),
			want: true,
		},
		{
			name: "partial overlap",
			s1:   NewTimeOfDay(9, 0), e1: NewTimeOfDay(9, 30),
			s2: NewTimeOfDay(9, 15), e2: NewTimeOfDay(9, 45),
			want: true,
		},
		{
			name: "contained window",
			s1:   NewTimeOfDay(9, 0), e1: NewTimeOfDay(10, 0),
			s2: NewTimeOfDay(9, 15), e2: NewTimeOfDay(9, 30),
			want: true,
		},
		{
			name: "back to back",
			s1:   NewTimeOfDay(9, 0), e1: NewTimeOfDay(9, 30),
			s2: NewTimeOfDay(9, 30), e2: NewTimeOfDay(10, 0),
			want: false,
		},
		{
			name: "disjoint",
			s1:   NewTimeOfDay(9, 0), e1: NewTimeOfDay(9, 30),
			s2: NewTimeOfDay(11, 0), e2: NewTimeOfDay(11, 30),
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, intervalsOverlap(tc.s1, tc.e1, tc.s2, tc.e2))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, intervalsOverlap(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}

func TestHasOverlap(t *testing.T) {
	existing := []Appointment{
		{StartTime: NewTimeOfDay(9, 0), EndTime: NewTimeOfDay(9, 30)},
		{StartTime: NewTimeOfDay(11, 0), EndTime: NewTimeOfDay(12, 0)},
	}

	assert.True(t, HasOverlap(existing, NewTimeOfDay(9, 15), NewTimeOfDay(9, 45)))
	assert.True(t, HasOverlap(existing, NewTimeOfDay(11, 30), NewTimeOfDay(11, 45)))
	assert.False(t, HasOverlap(existing, NewTimeOfDay(9, 30), NewTimeOfDay(10, 0)))
	assert.False(t, HasOverlap(existing, NewTimeOfDay(10, 0), NewTimeOfDay(11, 0)))
	assert.False(t, HasOverlap(nil, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30)))
}
