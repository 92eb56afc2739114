package handler

import (
	"net/http"

	"github.com/templui/habitkit/internal/ctxkeys"
	"github.com/templui/habitkit/internal/model"
	"github.com/templui/habitkit/internal/service"
)

type AdminHandler struct {
	habitService *service.HabitService
	userService  *service.UserService
}

func NewAdminHandler(habitService *service.HabitService, userService *service.UserService) *AdminHandler {
	return &AdminHandler{
		habitService: habitService,
		userService:  userService,
	}
}

type usersResponse struct {
	Users []*model.User `json:"users"`
}

func (h *AdminHandler) Habits(w http.ResponseWriter, r *http.Request) {
	habits, err := h.habitService.AllHabits(ctxkeys.Identity(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, habitsResponse{Habits: habits})
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.Users(ctxkeys.Identity(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, usersResponse{Users: users})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.userService.Delete(ctxkeys.Identity(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
