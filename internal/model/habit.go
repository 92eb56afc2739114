package model

import (
	"errors"
	"strings"
)

var ErrInvalidPeriod = errors.New("invalid period: must be day, week or month")

// Frequency is how often a habit is meant to be done. It doubles as the
// reporting period for statistics.
type Frequency string

const (
	FrequencyDay   Frequency = "DAY"
	FrequencyWeek  Frequency = "WEEK"
	FrequencyMonth Frequency = "MONTH"
)

// DateLayout is the storage and wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseFrequency accepts day/week/month in any case.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToUpper(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", ErrInvalidPeriod
	}
	return f, nil
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDay, FrequencyWeek, FrequencyMonth:
		return true
	}
	return false
}

type Habit struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Frequency   Frequency `db:"frequency" json:"frequency"`
	CreatedDate string    `db:"created_date" json:"created_date"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
}
