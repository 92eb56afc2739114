package model

import (
	"time"
)

// CompletionEvent records that a habit was done on a calendar day.
type CompletionEvent struct {
	ID             string `db:"id" json:"id"`
	HabitID        string `db:"habit_id" json:"habit_id"`
	OwnerID        string `db:"owner_id" json:"owner_id"`
	CompletionDate string `db:"completion_date" json:"completion_date"`
}

// Date truncates t to its calendar day in t's location and returns it as a
// UTC midnight value, so two dates compare by day only.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return Date(t).Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
