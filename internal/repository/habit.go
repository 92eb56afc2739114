package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/habitkit/internal/model"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
)

// HabitRepository stores habit records. It does not check ownership; callers
// authorize against the loaded habit.
type HabitRepository interface {
	Create(habit *model.Habit) error
	ByID(id string) (*model.Habit, error)
	ByOwner(ownerID string) ([]*model.Habit, error)
	All() ([]*model.Habit, error)
	Update(habit *model.Habit) error
	Delete(id string) error
}

type habitRepository struct {
	db *sqlx.DB
}

func NewHabitRepository(db *sqlx.DB) HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(habit *model.Habit) error {
	query := `INSERT INTO habits (id, name, description, frequency, created_date, owner_id)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		habit.ID,
		habit.Name,
		habit.Description,
		habit.Frequency,
		habit.CreatedDate,
		habit.OwnerID,
	)

	return err
}

func (r *habitRepository) ByID(id string) (*model.Habit, error) {
	habit := &model.Habit{}
	query := `SELECT * FROM habits WHERE id = $1`

	err := r.db.Get(habit, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}

	return habit, nil
}

func (r *habitRepository) ByOwner(ownerID string) ([]*model.Habit, error) {
	habits := []*model.Habit{}
	query := `SELECT * FROM habits WHERE owner_id = $1 ORDER BY created_date ASC, LOWER(name) ASC`

	err := r.db.Select(&habits, query, ownerID)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

func (r *habitRepository) All() ([]*model.Habit, error) {
	habits := []*model.Habit{}
	query := `SELECT * FROM habits ORDER BY owner_id ASC, created_date ASC, LOWER(name) ASC`

	err := r.db.Select(&habits, query)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

// Update writes the mutable fields. Owner and creation date never change.
func (r *habitRepository) Update(habit *model.Habit) error {
	query := `UPDATE habits
	          SET name = $1, description = $2, frequency = $3
	          WHERE id = $4`

	result, err := r.db.Exec(query,
		habit.Name,
		habit.Description,
		habit.Frequency,
		habit.ID,
	)
	if err != nil {
		return err
	}

	return expectRows(result, ErrHabitNotFound)
}

// Delete removes the habit and its completion history.
func (r *habitRepository) Delete(id string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM habit_completion_history WHERE habit_id = $1`, id)
	if err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return err
	}

	err = expectRows(result, ErrHabitNotFound)
	if err != nil {
		return err
	}

	return tx.Commit()
}
