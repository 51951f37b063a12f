package zakat

import (
	"iter"
	"maps"
	"slices"
)

// TimelineRow is one log entry flattened with its owning account, for
// cross-account reporting.
type TimelineRow struct {
	Time    Timestamp
	Account AccountID
	Value   int64
	Desc    string
	Ref     Timestamp
}

// Timeline yields every log entry of every account, newest first.
func (v *Vault) Timeline() iter.Seq[TimelineRow] {
	var rows []TimelineRow
	for id, acc := range v.accounts {
		for t, lg := range acc.Log {
			rows = append(rows, TimelineRow{
				Time:    t,
				Account: id,
				Value:   lg.Value,
				Desc:    lg.Desc,
				Ref:     lg.Ref,
			})
		}
	}
	slices.SortFunc(rows, func(a, b TimelineRow) int {
		switch {
		case a.Time > b.Time:
			return -1
		case a.Time < b.Time:
			return 1
		default:
			return 0
		}
	})
	return slices.Values(rows)
}

// DaySummary aggregates one civil day of activity: everything deposited,
// everything withdrawn, and the rows behind the numbers (newest first).
type DaySummary struct {
	Year  int
	Month int
	Day   int
	In    int64
	Out   int64
	Rows  []TimelineRow
}

// Total is the day's net movement.
func (d DaySummary) Total() int64 { return d.In + d.Out }

// DailyLogs groups the whole timeline by civil day, most recent day
// first.
func (v *Vault) DailyLogs() []DaySummary {
	byDay := make(map[int64]*DaySummary)
	for row := range v.Timeline() {
		ordinal := int64(row.Time) / nsPerDay
		day, ok := byDay[ordinal]
		if !ok {
			y, m, d := civilFromDays(ordinal)
			day = &DaySummary{Year: y, Month: m, Day: d}
			byDay[ordinal] = day
		}
		if row.Value >= 0 {
			day.In += row.Value
		} else {
			day.Out += row.Value
		}
		day.Rows = append(day.Rows, row)
	}
	ordinals := slices.Collect(maps.Keys(byDay))
	slices.Sort(ordinals)
	slices.Reverse(ordinals)
	out := make([]DaySummary, 0, len(ordinals))
	for _, ordinal := range ordinals {
		out = append(out, *byDay[ordinal])
	}
	return out
}
