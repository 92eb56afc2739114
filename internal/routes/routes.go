package routes

import (
	"context"
	"net/http"

	"github.com/templui/habitkit/internal/app"
	"github.com/templui/habitkit/internal/handler"
	"github.com/templui/habitkit/internal/middleware"
)

// SetupRoutes builds the API handler. Background work started here ends
// with ctx.
func SetupRoutes(ctx context.Context, app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	habit := handler.NewHabitHandler(app.HabitService, app.ExportService, app.Cfg.Location)
	admin := handler.NewAdminHandler(app.HabitService, app.UserService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	mux.Handle("GET /metrics", app.Metrics.Handler())

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth(ctx, app.Cfg.RateLimitAuthPerMinute)

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	mux.HandleFunc("GET /api/me", middleware.RequireAuth(auth.Me))

	// Habits
	mux.HandleFunc("GET /api/habits", middleware.RequireAuth(habit.List))
	mux.HandleFunc("POST /api/habits", middleware.RequireAuth(habit.Create))
	mux.HandleFunc("GET /api/habits/export", middleware.RequireAuth(habit.Export))
	mux.HandleFunc("POST /api/habits/export/archive", middleware.RequireAuth(habit.Archive))
	mux.HandleFunc("GET /api/habits/{id}", middleware.RequireAuth(habit.Get))
	mux.HandleFunc("PUT /api/habits/{id}", middleware.RequireAuth(habit.Update))
	mux.HandleFunc("DELETE /api/habits/{id}", middleware.RequireAuth(habit.Delete))
	mux.HandleFunc("POST /api/habits/{id}/complete", middleware.RequireAuth(habit.Complete))
	mux.HandleFunc("GET /api/habits/{id}/history", middleware.RequireAuth(habit.History))
	mux.HandleFunc("GET /api/habits/{id}/report", middleware.RequireAuth(habit.Report))

	// Admin (role checked by the services)
	mux.HandleFunc("GET /api/admin/habits", middleware.RequireAuth(admin.Habits))
	mux.HandleFunc("GET /api/admin/users", middleware.RequireAuth(admin.Users))
	mux.HandleFunc("DELETE /api/admin/users/{id}", middleware.RequireAuth(admin.DeleteUser))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.SecurityHeaders,
		middleware.RequestLogging(app.Metrics),
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)

	return handler
}
