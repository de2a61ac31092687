package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

func TestHasCrossedDay(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		last time.Time
		want bool
	}{
		{
			name: "unset last lesson date always crosses",
			now:  date(2025, time.March, 10, 12, 0),
			last: time.Time{},
			want: true,
		},
		{
			name: "same calendar day does not cross",
			now:  date(2025, time.March, 10, 23, 59),
			last: date(2025, time.March, 10, 0, 1),
			want: false,
		},
		{
			name: "two minutes across local midnight crosses",
			now:  date(2025, time.March, 10, 0, 1),
			last: date(2025, time.March, 9, 23, 59),
			want: true,
		},
		{
			name: "now before last does not cross",
			now:  date(2025, time.March, 9, 12, 0),
			last: date(2025, time.March, 10, 12, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasCrossedDay(tt.now, tt.last))
		})
	}
}

func TestDaysElapsed(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		last time.Time
		want int
	}{
		{"zero last", date(2025, time.March, 10, 12, 0), time.Time{}, 0},
		{"same day", date(2025, time.March, 10, 23, 0), date(2025, time.March, 10, 1, 0), 0},
		{"adjacent days short wall time", date(2025, time.March, 10, 0, 1), date(2025, time.March, 9, 23, 59), 1},
		{"three day gap", date(2025, time.March, 12, 8, 0), date(2025, time.March, 9, 22, 0), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysElapsed(tt.now, tt.last))
		})
	}
}

func TestNextLessonTime(t *testing.T) {
	now := date(2025, time.March, 10, 21, 30)

	next := NextLessonTime(now)

	assert.Equal(t, 2, next.Hours)
	assert.Equal(t, 30, next.Minutes)
	assert.Equal(t, date(2025, time.March, 11, 0, 0), next.NextAvailable)
}

func TestNextLessonTimeJustBeforeMidnight(t *testing.T) {
	now := date(2025, time.March, 10, 23, 59)

	next := NextLessonTime(now)

	assert.Equal(t, 0, next.Hours)
	assert.Equal(t, 1, next.Minutes)
}
