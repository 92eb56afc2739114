package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/habitkit/internal/ctxkeys"
	"github.com/templui/habitkit/internal/model"
	"github.com/templui/habitkit/internal/service"
)

type HabitHandler struct {
	habitService  *service.HabitService
	exportService *service.ExportService
	now           func() time.Time
}

// NewHabitHandler takes the calendar zone that decides which day "today" is.
func NewHabitHandler(habitService *service.HabitService, exportService *service.ExportService, loc *time.Location) *HabitHandler {
	return &HabitHandler{
		habitService:  habitService,
		exportService: exportService,
		now: func() time.Time {
			return time.Now().In(loc)
		},
	}
}

type habitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
}

type habitsResponse struct {
	Habits []*model.Habit `json:"habits"`
}

type completionResponse struct {
	HabitID        string `json:"habit_id"`
	CompletionDate string `json:"completion_date"`
}

type historyResponse struct {
	HabitID     string   `json:"habit_id"`
	Completions []string `json:"completions"`
}

type archiveResponse struct {
	URL string `json:"url"`
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	habits, err := h.habitService.Habits(ctxkeys.Identity(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, habitsResponse{Habits: habits})
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var req habitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	habit, err := h.habitService.Create(identity, req.Name, req.Description, req.Frequency)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, habit)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	habit, err := h.habitService.ByID(ctxkeys.Identity(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())
	habitID := r.PathValue("id")

	var req habitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := h.habitService.Update(identity, habitID, req.Name, req.Description, req.Frequency)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.habitService.Delete(ctxkeys.Identity(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HabitHandler) Complete(w http.ResponseWriter, r *http.Request) {
	habitID := r.PathValue("id")
	today := h.now()

	err := h.habitService.MarkCompleted(ctxkeys.Identity(r.Context()), habitID, today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, completionResponse{
		HabitID:        habitID,
		CompletionDate: model.FormatDate(today),
	})
}

func (h *HabitHandler) History(w http.ResponseWriter, r *http.Request) {
	habitID := r.PathValue("id")

	completions, err := h.habitService.History(ctxkeys.Identity(r.Context()), habitID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{HabitID: habitID, Completions: completions})
}

// Report accepts ?period=day|week|month and defaults to the habit's frequency
func (h *HabitHandler) Report(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())
	period := r.URL.Query().Get("period")

	report, err := h.habitService.Report(identity, r.PathValue("id"), period, h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *HabitHandler) Export(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	export, err := h.exportService.Export(identity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=habits-export.json")
	writeJSON(w, http.StatusOK, export)
}

func (h *HabitHandler) Archive(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	url, err := h.exportService.Archive(identity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("habit export archived", "user_id", identity.ID)
	writeJSON(w, http.StatusCreated, archiveResponse{URL: url})
}
