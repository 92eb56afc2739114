// Package stats derives streaks, period counts and completion percentages
// from a habit's completion history. Everything here is pure: callers fetch
// the history once and pass it in together with the reference date.
package stats

import (
	"slices"
	"time"

	"github.com/templui/habitkit/internal/model"
)

const day = 24 * time.Hour

// Window returns the first day of the reporting window that ends at now.
// MONTH steps back one calendar month and clamps the day of month, so
// March 31 maps to the last day of February.
func Window(period model.Frequency, now time.Time) (time.Time, error) {
	now = model.Date(now)

	switch period {
	case model.FrequencyDay:
		return now.AddDate(0, 0, -1), nil
	case model.FrequencyWeek:
		return now.AddDate(0, 0, -7), nil
	case model.FrequencyMonth:
		return previousMonth(now), nil
	}

	return time.Time{}, model.ErrInvalidPeriod
}

// CompletedByPeriod counts completions with start <= date <= now.
func CompletedByPeriod(history []time.Time, period model.Frequency, now time.Time) (int, error) {
	start, err := Window(period, now)
	if err != nil {
		return 0, err
	}
	return countBetween(history, start, model.Date(now)), nil
}

// CurrentStreak walks back from the latest completion while entries are one
// day apart. A streak whose latest entry is older than yesterday is broken
// and reported as 0, however long the run behind it.
func CurrentStreak(history []time.Time, now time.Time) int {
	if len(history) == 0 {
		return 0
	}

	days := normalize(history)

	streak := 1
	for i := len(days) - 1; i > 0; i-- {
		gap := daysBetween(days[i-1], days[i])
		if gap == 0 {
			continue
		}
		if gap != 1 {
			break
		}
		streak++
	}

	if daysBetween(days[len(days)-1], now) > 1 {
		return 0
	}

	return streak
}

// CompletionPercentage is the share of days in the window with a completion,
// in [0, 100].
func CompletionPercentage(history []time.Time, period model.Frequency, now time.Time) (float64, error) {
	start, err := Window(period, now)
	if err != nil {
		return 0, err
	}

	count := countBetween(history, start, model.Date(now))
	return percentage(count, daysBetween(start, now)), nil
}

// percentage returns 0 for an empty window. The window is inclusive at both
// ends, so count may exceed totalDays by one; the result is capped at 100.
func percentage(count, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	return min(float64(count)/float64(totalDays)*100, 100)
}

func countBetween(history []time.Time, start, end time.Time) int {
	count := 0
	for _, t := range history {
		d := model.Date(t)
		if !d.Before(start) && !d.After(end) {
			count++
		}
	}
	return count
}

func normalize(history []time.Time) []time.Time {
	days := make([]time.Time, len(history))
	for i, t := range history {
		days[i] = model.Date(t)
	}
	slices.SortFunc(days, func(a, b time.Time) int {
		return a.Compare(b)
	})
	return days
}

func daysBetween(from, to time.Time) int {
	return int(model.Date(to).Sub(model.Date(from)) / day)
}

func previousMonth(t time.Time) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
