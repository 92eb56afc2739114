package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/habitkit/internal/model"
	"github.com/templui/habitkit/internal/storage"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrStorageNotConfigured = errors.New("export storage is not configured")

type HabitExport struct {
	UserID     string          `json:"user_id"`
	ExportedAt time.Time       `json:"exported_at"`
	Habits     []ExportedHabit `json:"habits"`
}

type ExportedHabit struct {
	*model.Habit
	FrequencyLabel string   `json:"frequency_label"`
	Completions    []string `json:"completions"`
}

// ExportService bundles a user's habits with their completion history,
// either for direct download or as an archive in object storage.
type ExportService struct {
	habitService *HabitService
	storage      storage.Storage
	urlExpiry    time.Duration
}

// NewExportService accepts a nil storage; Archive then fails with
// ErrStorageNotConfigured.
func NewExportService(habitService *HabitService, storage storage.Storage, urlExpiry time.Duration) *ExportService {
	return &ExportService{
		habitService: habitService,
		storage:      storage,
		urlExpiry:    urlExpiry,
	}
}

func (s *ExportService) Export(identity *model.Identity) (*HabitExport, error) {
	habits, err := s.habitService.Habits(identity)
	if err != nil {
		return nil, err
	}

	title := cases.Title(language.English)
	export := &HabitExport{
		UserID:     identity.ID,
		ExportedAt: time.Now().UTC(),
		Habits:     make([]ExportedHabit, 0, len(habits)),
	}

	for _, habit := range habits {
		completions, err := s.habitService.History(identity, habit.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load history for habit %s: %w", habit.ID, err)
		}

		export.Habits = append(export.Habits, ExportedHabit{
			Habit:          habit,
			FrequencyLabel: title.String(strings.ToLower(string(habit.Frequency))),
			Completions:    completions,
		})
	}

	return export, nil
}

// Archive uploads the export and returns a presigned download URL.
func (s *ExportService) Archive(identity *model.Identity) (string, error) {
	if identity == nil {
		return "", ErrUnauthenticated
	}

	if s.storage == nil {
		return "", ErrStorageNotConfigured
	}

	export, err := s.Export(identity)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(export)
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	path := fmt.Sprintf("exports/%s/%s.json", identity.ID, export.ExportedAt.Format("20060102T150405Z"))

	err = s.storage.Save(path, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	url, err := s.storage.PresignedURL(path, s.urlExpiry)
	if err != nil {
		// An archive nobody can download is removed again
		deleteErr := s.storage.Delete(path)
		if deleteErr != nil {
			slog.Error("failed to remove unsigned export archive", "error", deleteErr, "path", path)
		}
		return "", fmt.Errorf("failed to presign export archive: %w", err)
	}

	return url, nil
}
