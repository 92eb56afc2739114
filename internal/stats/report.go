package stats

import (
	"time"

	"github.com/templui/habitkit/internal/model"
)

// GenerateReport computes every figure from the same history slice so a
// report never mixes two snapshots of the store.
func GenerateReport(habitID string, history []time.Time, period model.Frequency, now time.Time) (*model.HabitReport, error) {
	count, err := CompletedByPeriod(history, period, now)
	if err != nil {
		return nil, err
	}

	pct, err := CompletionPercentage(history, period, now)
	if err != nil {
		return nil, err
	}

	return &model.HabitReport{
		HabitID:              habitID,
		Streak:               CurrentStreak(history, now),
		CompletionPercentage: pct,
		CompletionCount:      count,
		Period:               period,
	}, nil
}
