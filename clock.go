package zakat

import (
	"sync"
	"time"
)

// Timestamp is a positive integer number of nanoseconds since the Unix
// epoch, computed from the calendar (ordinal day times nanoseconds per day,
// plus the nanoseconds elapsed within that day). It is the primary key for
// boxes, logs, exchange entries, lock sessions and history entries, and by
// convention the value space for account ids.
type Timestamp int64

const nsPerDay = 86_400_000_000_000

// Time converts the timestamp back to a calendar time, exactly inverting
// the encoding performed by FromTime.
func (t Timestamp) Time() time.Time {
	days := int64(t) / nsPerDay
	ns := int64(t) % nsPerDay
	if ns < 0 {
		days--
		ns += nsPerDay
	}
	y, m, d := civilFromDays(days)
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local).
		Add(time.Duration(ns))
}

// FromTime encodes a calendar time as a Timestamp.
func FromTime(now time.Time) Timestamp {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	days := daysFromCivil(y, int(m), d)
	return Timestamp(days*nsPerDay + now.Sub(midnight).Nanoseconds())
}

// daysFromCivil returns the number of calendar days between the given date
// and 1970-01-01 (negative before the epoch).
func daysFromCivil(y, m, d int) int64 {
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := int64(y - era*400) // [0, 399]
	mp := int64((m + 9) % 12)
	doy := (153*mp+2)/5 + int64(d) - 1      // [0, 365]
	doe := yoe*365 + yoe/4 - yoe/100 + doy  // [0, 146096]
	return int64(era)*146097 + doe - 719468 // shift to the 1970 epoch
}

// civilFromDays inverts daysFromCivil.
func civilFromDays(days int64) (y, m, d int) {
	z := days + 719468
	era := z / 146097
	if z < 0 && z%146097 != 0 {
		era--
	}
	doe := z - era*146097                                    // [0, 146096]
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365   // [0, 399]
	doy := doe - (365*yoe + yoe/4 - yoe/100)                 // [0, 365]
	mp := (5*doy + 2) / 153                                  // [0, 11]
	d = int(doy - (153*mp+2)/5 + 1)                          // [1, 31]
	m = int((mp+2)%12 + 1)                                   // [1, 12]
	y = int(era*400 + yoe)
	if m <= 2 {
		y++
	}
	return y, m, d
}

// Clock produces strictly increasing, collision free timestamps for the
// whole process. It is the universal identifier source: two consecutive
// calls never return the same value, even on coarse platform clocks, by
// sleeping for the measured minimum clock resolution and retrying.
type Clock struct {
	mu   sync.Mutex
	last Timestamp
	res  time.Duration
}

// NewClock measures the platform's minimum observable time resolution and
// returns a ready to use clock.
func NewClock() *Clock {
	return &Clock{res: measureResolution()}
}

// measureResolution samples the wall clock until it advances and returns
// the smallest observed step.
func measureResolution() time.Duration {
	start := time.Now()
	for {
		if d := time.Since(start); d > 0 {
			return d
		}
	}
}

// Now returns a Timestamp strictly greater than every value previously
// returned by this clock.
func (c *Clock) Now() Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		t := FromTime(time.Now())
		if t > c.last {
			c.last = t
			return t
		}
		time.Sleep(c.res)
	}
}
