package clinic

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 9*60 + 30},
		{in: "23:59", want: 23*60 + 59},
		{in: "24:00", wantErr: true},
		{in: "9:30", wantErr: true},
		{in: "09:3", wantErr: true},
		{in: "009:30", wantErr: true},
		{in: "nine", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "09:05", NewTimeOfDay(9, 5).String())
	assert.Equal(t, "00:00", TimeOfDay(0).String())
	assert.Equal(t, "23:59", NewTimeOfDay(23, 59).String())
}

func TestTimeOfDayValid(t *testing.T) {
	assert.True(t, TimeOfDay(0).Valid())
	assert.True(t, TimeOfDay(MinutesPerDay-1).Valid())
	assert.False(t, TimeOfDay(MinutesPerDay).Valid())
	assert.False(t, TimeOfDay(-1).Valid())
}

func TestTimeOfDayAddMinutes(t *testing.T) {
	start := NewTimeOfDay(11, 45)
	assert.Equal(t, NewTimeOfDay(12, 15), start.AddMinutes(30))

	// Past midnight is representable but invalid.
	late := NewTimeOfDay(23, 30).AddMinutes(60)
	assert.False(t, late.Valid())
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(NewTimeOfDay(14, 30))
	require.NoError(t, err)
	assert.Equal(t, `"14:30"`, string(data))

	var parsed TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"08:00"`), &parsed))
	assert.Equal(t, NewTimeOfDay(8, 0), parsed)

	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &parsed))
	assert.Error(t, json.Unmarshal([]byte(`42`), &parsed))
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("monday")
	require.True(t, ok)
	assert.Equal(t, time.Monday, d)

	d, ok = ParseWeekday("SATURDAY")
	require.True(t, ok)
	assert.Equal(t, time.Saturday, d)

	_, ok = ParseWeekday("someday")
	assert.False(t, ok)
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2026, time.March, 9, 17, 45, 12, 999, loc)
	got := DateOnly(in)
	assert.Equal(t, date(2026, time.March, 9), got)
	assert.Equal(t, time.UTC, got.Location())
}
