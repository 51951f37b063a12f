package zakat

import (
	"testing"
	"time"
)

func TestClockMonotonic(t *testing.T) {
	c := NewClock()
	var last Timestamp
	for i := 0; i < 1000; i++ {
		now := c.Now()
		if now <= last {
			t.Fatalf("tick %d: got %d, want > %d", i, now, last)
		}
		last = now
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	// The encoding reads the wall calendar, so round trips hold in the
	// decoder's own location.
	tests := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.Local),
		time.Date(2022, 6, 15, 12, 30, 45, 123456789, time.Local),
		time.Date(1969, 12, 31, 23, 59, 59, 999999999, time.Local),
		time.Date(1900, 2, 28, 6, 0, 0, 0, time.Local),
		time.Date(2000, 2, 29, 18, 0, 0, 0, time.Local),
		time.Date(2100, 12, 31, 0, 0, 0, 1, time.Local),
	}
	for _, want := range tests {
		got := FromTime(want).Time()
		if !got.Equal(want) {
			t.Errorf("round trip of %v: got %v", want, got)
		}
	}
}

func TestCivilConversion(t *testing.T) {
	tests := []struct {
		y, m, d int
		days    int64
	}{
		{1970, 1, 1, 0},
		{1970, 1, 2, 1},
		{1969, 12, 31, -1},
		{2000, 3, 1, 11017},
		{2022, 1, 1, 18993},
	}
	for _, tc := range tests {
		if got := daysFromCivil(tc.y, tc.m, tc.d); got != tc.days {
			t.Errorf("daysFromCivil(%d, %d, %d) = %d, want %d", tc.y, tc.m, tc.d, got, tc.days)
		}
		y, m, d := civilFromDays(tc.days)
		if y != tc.y || m != tc.m || d != tc.d {
			t.Errorf("civilFromDays(%d) = %d-%d-%d, want %d-%d-%d", tc.days, y, m, d, tc.y, tc.m, tc.d)
		}
	}
}
