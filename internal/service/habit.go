package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/habitkit/internal/metrics"
	"github.com/templui/habitkit/internal/model"
	"github.com/templui/habitkit/internal/repository"
	"github.com/templui/habitkit/internal/stats"
	"github.com/templui/habitkit/internal/validation"
)

var (
	ErrAlreadyCompleted = errors.New("habit already completed today")
	ErrInvalidHabit     = errors.New("invalid habit")
)

// HabitService owns habit CRUD, completion recording and reporting. Every
// operation takes the acting identity explicitly and runs the ownership
// guard before touching the habit.
type HabitService struct {
	repo           repository.HabitRepository
	completionRepo repository.CompletionRepository
	metrics        *metrics.Metrics
	now            func() time.Time
}

func NewHabitService(
	repo repository.HabitRepository,
	completionRepo repository.CompletionRepository,
	metrics *metrics.Metrics,
	loc *time.Location,
) *HabitService {
	return &HabitService{
		repo:           repo,
		completionRepo: completionRepo,
		metrics:        metrics,
		now: func() time.Time {
			return time.Now().In(loc)
		},
	}
}

func (s *HabitService) Create(identity *model.Identity, name, description, period string) (*model.Habit, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}

	name, description, frequency, err := normalizeHabit(name, description, period)
	if err != nil {
		return nil, err
	}

	habit := &model.Habit{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Frequency:   frequency,
		CreatedDate: model.FormatDate(s.now()),
		OwnerID:     identity.ID,
	}

	err = s.repo.Create(habit)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	s.metrics.IncrementHabitsCreated()
	return habit, nil
}

func (s *HabitService) ByID(identity *model.Identity, habitID string) (*model.Habit, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}

	habit, err := s.repo.ByID(habitID)
	if err != nil {
		return nil, err
	}

	err = Authorize(identity, habit, false)
	if err != nil {
		return nil, err
	}

	return habit, nil
}

// Habits lists the identity's own habits, also for administrators.
func (s *HabitService) Habits(identity *model.Identity) ([]*model.Habit, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	return s.repo.ByOwner(identity.ID)
}

func (s *HabitService) AllHabits(identity *model.Identity) ([]*model.Habit, error) {
	err := Authorize(identity, nil, true)
	if err != nil {
		return nil, err
	}
	return s.repo.All()
}

func (s *HabitService) Update(identity *model.Identity, habitID, name, description, period string) error {
	habit, err := s.ByID(identity, habitID)
	if err != nil {
		return err
	}

	name, description, frequency, err := normalizeHabit(name, description, period)
	if err != nil {
		return err
	}

	habit.Name = name
	habit.Description = description
	habit.Frequency = frequency

	return s.repo.Update(habit)
}

func (s *HabitService) Delete(identity *model.Identity, habitID string) error {
	habit, err := s.ByID(identity, habitID)
	if err != nil {
		return err
	}

	return s.repo.Delete(habit.ID)
}

// MarkCompleted records one completion of the habit for today. Only the
// latest recorded date is compared; the unique (habit, date) index catches
// an older same-day row and concurrent submits.
func (s *HabitService) MarkCompleted(identity *model.Identity, habitID string, today time.Time) error {
	habit, err := s.ByID(identity, habitID)
	if err != nil {
		return err
	}

	day := model.Date(today)

	latest, err := s.completionRepo.Latest(habit.ID)
	if err != nil {
		return fmt.Errorf("failed to read latest completion: %w", err)
	}

	if latest != nil && latest.Equal(day) {
		s.metrics.IncrementDuplicateCompletions()
		return ErrAlreadyCompleted
	}

	err = s.completionRepo.Append(&model.CompletionEvent{
		ID:             uuid.New().String(),
		HabitID:        habit.ID,
		OwnerID:        habit.OwnerID,
		CompletionDate: day.Format(model.DateLayout),
	})
	if errors.Is(err, repository.ErrDuplicateCompletion) {
		s.metrics.IncrementDuplicateCompletions()
		return ErrAlreadyCompleted
	}
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}

	s.metrics.IncrementCompletionsRecorded()
	return nil
}

// History returns the habit's completion dates, oldest first.
func (s *HabitService) History(identity *model.Identity, habitID string) ([]string, error) {
	habit, err := s.ByID(identity, habitID)
	if err != nil {
		return nil, err
	}

	history, err := s.completionRepo.History(habit.ID)
	if err != nil {
		return nil, err
	}

	dates := make([]string, len(history))
	for i, d := range history {
		dates[i] = d.Format(model.DateLayout)
	}
	return dates, nil
}

// Report builds the progress report for period, or for the habit's own
// frequency when period is empty. History is read once per report.
func (s *HabitService) Report(identity *model.Identity, habitID, period string, now time.Time) (*model.HabitReport, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}

	var frequency model.Frequency
	if strings.TrimSpace(period) != "" {
		f, err := model.ParseFrequency(period)
		if err != nil {
			return nil, err
		}
		frequency = f
	}

	habit, err := s.ByID(identity, habitID)
	if err != nil {
		return nil, err
	}

	if frequency == "" {
		frequency = habit.Frequency
	}

	history, err := s.completionRepo.History(habit.ID)
	if err != nil {
		return nil, err
	}

	report, err := stats.GenerateReport(habit.ID, history, frequency, now)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementReportsGenerated(string(frequency))
	return report, nil
}

func normalizeHabit(name, description, period string) (string, string, model.Frequency, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	err := validation.ValidateHabitName(name)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrInvalidHabit, err)
	}

	err = validation.ValidateDescription(description)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrInvalidHabit, err)
	}

	frequency, err := model.ParseFrequency(period)
	if err != nil {
		return "", "", "", err
	}

	return name, description, frequency, nil
}
