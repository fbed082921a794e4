package analytics

import (
	"slices"
	"time"
)

// civilDay is a calendar date without a time zone.
type civilDay struct {
	y int
	m time.Month
	d int
}

func dayOf(t time.Time) civilDay {
	y, m, d := t.Date()
	return civilDay{y, m, d}
}

// ordinal counts days since the epoch; UTC arithmetic avoids DST gaps.
func (c civilDay) ordinal() int {
	return int(time.Date(c.y, c.m, c.d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// streaks returns the current and longest runs of consecutive study days.
func streaks(days []civilDay, today civilDay) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	ords := make([]int, 0, len(days))
	for _, d := range days {
		ords = append(ords, d.ordinal())
	}
	slices.Sort(ords)
	ords = slices.Compact(ords)

	run := 1
	longest = 1
	for i := 1; i < len(ords); i++ {
		if ords[i] == ords[i-1]+1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	// run now holds the length of the streak ending on the last study day.
	last := ords[len(ords)-1]
	if t := today.ordinal(); last == t || last == t-1 {
		current = run
	}
	return current, longest
}
