package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/habitkit/internal/db"
	"github.com/templui/habitkit/internal/model"
)

var (
	ErrDuplicateCompletion = errors.New("completion already recorded for this date")
)

// CompletionRepository is the append-only completion history of habits.
type CompletionRepository interface {
	Append(event *model.CompletionEvent) error
	History(habitID string) ([]time.Time, error)
	Latest(habitID string) (*time.Time, error)
}

type completionRepository struct {
	db *sqlx.DB
}

func NewCompletionRepository(db *sqlx.DB) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) Append(event *model.CompletionEvent) error {
	query := `INSERT INTO habit_completion_history (id, habit_id, owner_id, completion_date)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, event.ID, event.HabitID, event.OwnerID, event.CompletionDate)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateCompletion
	}

	return err
}

// History returns the completion dates of a habit in ascending order.
func (r *completionRepository) History(habitID string) ([]time.Time, error) {
	var dates []string
	query := `SELECT completion_date FROM habit_completion_history
	          WHERE habit_id = $1 ORDER BY completion_date ASC`

	err := r.db.Select(&dates, query, habitID)
	if err != nil {
		return nil, err
	}

	history := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		d, err := model.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("invalid completion date %q: %w", s, err)
		}
		history = append(history, d)
	}

	return history, nil
}

// Latest returns the most recent completion date, or nil if there is none.
func (r *completionRepository) Latest(habitID string) (*time.Time, error) {
	var s string
	query := `SELECT completion_date FROM habit_completion_history
	          WHERE habit_id = $1 ORDER BY completion_date DESC LIMIT 1`

	err := r.db.Get(&s, query, habitID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	d, err := model.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid completion date %q: %w", s, err)
	}

	return &d, nil
}
