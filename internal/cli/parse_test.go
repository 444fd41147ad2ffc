package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/errors"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

func TestParseSlot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    timeslot.Key
		wantErr bool
	}{
		{in: "morning", want: timeslot.Morning},
		{in: " Evening ", want: timeslot.Evening},
		{in: "unscheduled", want: timeslot.None},
		{in: "none", want: timeslot.None},
		{in: "12:00-16:00", want: timeslot.Afternoon},
		{in: "0:00-8:00", want: timeslot.Night},
		{in: "", wantErr: true},
		{in: "lunch", wantErr: true},
		{in: "8:00-13:00", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := parseSlot(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, errors.ErrInvalidSlot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseIndex(t *testing.T) {
	t.Parallel()

	n, err := parseIndex("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"-1", "x", ""} {
		_, err := parseIndex(bad)
		require.ErrorIs(t, err, errors.ErrInvalidArgument, bad)
	}
}

func TestStopOnOrAfter(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 5, 12, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		hhmm string
		want time.Time
	}{
		{"same day", "23:45", time.Date(2026, 5, 12, 23, 45, 0, 0, time.UTC)},
		{"after midnight", "00:15", time.Date(2026, 5, 13, 0, 15, 0, 0, time.UTC)},
		{"equal to start", "23:30", start},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := stopOnOrAfter(start, tc.hhmm)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}

	_, err := stopOnOrAfter(start, "25:00")
	require.ErrorIs(t, err, errors.ErrInvalidClock)
}

func TestClockOnDate(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	got, err := clockOnDate("2026-05-12", "9:05", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 12, 9, 5, 0, 0, loc), got)

	_, err = clockOnDate("2026-13-01", "09:00", loc)
	require.ErrorIs(t, err, errors.ErrInvalidDate)
}

func TestParseWeekdays(t *testing.T) {
	t.Parallel()

	got, err := parseWeekdays([]string{"mon", "Wednesday", "5", "monday", " "})
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, got)

	_, err = parseWeekdays([]string{"funday"})
	require.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = parseWeekdays([]string{"7"})
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestParseRoutineType(t *testing.T) {
	t.Parallel()

	got, err := parseRoutineType("Weekly")
	require.NoError(t, err)
	assert.Equal(t, domain.RoutineWeekly, got)

	for _, bad := range []string{"", "hourly"} {
		_, err := parseRoutineType(bad)
		require.ErrorIs(t, err, errors.ErrInvalidArgument, bad)
	}
}

func TestParseOptionalDate(t *testing.T) {
	t.Parallel()

	got, err := parseOptionalDate("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = parseOptionalDate(" 2026-12-31 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-12-31", got)

	_, err = parseOptionalDate("31.12.2026")
	require.ErrorIs(t, err, errors.ErrInvalidDate)
}
