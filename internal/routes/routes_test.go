package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/templui/habitkit/internal/app"
	"github.com/templui/habitkit/internal/config"
	"github.com/templui/habitkit/internal/metrics"
	"github.com/templui/habitkit/internal/model"
	"github.com/templui/habitkit/internal/repository"
	"github.com/templui/habitkit/internal/service"
	"github.com/templui/habitkit/internal/testutil"
)

type RoutesSuite struct {
	suite.Suite
	handler http.Handler
	users   *service.UserService
}

func (s *RoutesSuite) SetupTest() {
	database := testutil.NewDB(s.T())

	cfg := &config.Config{
		AppName:                "Habitkit",
		AppEnv:                 "development",
		AppURL:                 "http://localhost:8090",
		Location:               time.UTC,
		DBDriver:               "sqlite",
		JWTSecret:              "test-secret",
		JWTExpiry:              time.Hour,
		RateLimitAuthPerMinute: 100,
		S3PresignExpiry:        time.Minute,
	}

	userRepository := repository.NewUserRepository(database)
	emailService := service.NewEmailService("", "noreply@example.com", cfg.AppURL, cfg.AppName, true)
	m := metrics.New()
	habitService := service.NewHabitService(
		repository.NewHabitRepository(database),
		repository.NewCompletionRepository(database),
		m,
		cfg.Location,
	)

	s.users = service.NewUserService(userRepository, emailService)
	s.handler = SetupRoutes(s.T().Context(), &app.App{
		Cfg:           cfg,
		DB:            database,
		Metrics:       m,
		AuthService:   service.NewAuthService(userRepository, emailService, cfg.JWTSecret, cfg.JWTExpiry),
		UserService:   s.users,
		EmailService:  emailService,
		HabitService:  habitService,
		ExportService: service.NewExportService(habitService, nil, cfg.S3PresignExpiry),
	})
}

func TestRoutesSuite(t *testing.T) {
	suite.Run(t, new(RoutesSuite))
}

func (s *RoutesSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:4321"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *RoutesSuite) register(email string) string {
	rec := s.do(http.MethodPost, "/api/auth/register", "", `{"email":"`+email+`","password":"correct-horse-1"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

func (s *RoutesSuite) createHabit(token, frequency string) *model.Habit {
	rec := s.do(http.MethodPost, "/api/habits", token, `{"name":"Stretch","description":"ten minutes","frequency":"`+frequency+`"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var habit model.Habit
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &habit))
	return &habit
}

func (s *RoutesSuite) TestHealthAndMetrics() {
	rec := s.do(http.MethodGet, "/healthz", "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/metrics", "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "habitkit_habits_created_total")
}

func (s *RoutesSuite) TestLoginAndMe() {
	s.register("ada@example.com")

	rec := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com","password":"wrong-horse-12"}`)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com","password":"correct-horse-1"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.NotContains(rec.Body.String(), "password")

	rec = s.do(http.MethodGet, "/api/me", resp.Token, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "ada@example.com")

	rec = s.do(http.MethodPost, "/api/auth/register", "", `{"email":"ada@example.com","password":"correct-horse-1"}`)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *RoutesSuite) TestUnauthenticated() {
	rec := s.do(http.MethodGet, "/api/habits", "", "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = s.do(http.MethodGet, "/api/habits", "not-a-token", "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RoutesSuite) TestHabitLifecycle() {
	token := s.register("owner@example.com")
	habit := s.createHabit(token, "day")
	s.Equal(model.FrequencyDay, habit.Frequency)

	rec := s.do(http.MethodGet, "/api/habits", token, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), habit.ID)

	rec = s.do(http.MethodPost, "/api/habits/"+habit.ID+"/complete", token, "")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/habits/"+habit.ID+"/complete", token, "")
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/habits/"+habit.ID+"/history", token, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var history struct {
		Completions []string `json:"completions"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &history))
	s.Len(history.Completions, 1)

	rec = s.do(http.MethodGet, "/api/habits/"+habit.ID+"/report?period=week", token, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var report model.HabitReport
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &report))
	s.Equal(1, report.Streak)
	s.Equal(1, report.CompletionCount)
	s.Equal(model.FrequencyWeek, report.Period)

	rec = s.do(http.MethodGet, "/api/habits/"+habit.ID+"/report?period=year", token, "")
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/api/habits/"+habit.ID, token, `{"name":"Stretch more","frequency":"MONTH"}`)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/habits/export", token, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), "attachment")
	s.Contains(rec.Body.String(), "Stretch more")

	rec = s.do(http.MethodPost, "/api/habits/export/archive", token, "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)

	rec = s.do(http.MethodDelete, "/api/habits/"+habit.ID, token, "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/habits/"+habit.ID, token, "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RoutesSuite) TestCreateValidation() {
	token := s.register("owner@example.com")

	rec := s.do(http.MethodPost, "/api/habits", token, `{"name":"Stretch","frequency":"hourly"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/habits", token, `{"name":"","frequency":"DAY"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/habits", token, `{not json`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RoutesSuite) TestOwnershipAndAdmin() {
	ownerToken := s.register("owner@example.com")
	strangerToken := s.register("stranger@example.com")
	adminToken := s.register("admin@example.com")

	_, err := s.users.SetAdmin("admin@example.com", true)
	s.Require().NoError(err)

	habit := s.createHabit(ownerToken, "DAY")

	rec := s.do(http.MethodPost, "/api/habits/"+habit.ID+"/complete", strangerToken, "")
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/habits/"+habit.ID+"/report", strangerToken, "")
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/admin/habits", strangerToken, "")
	s.Equal(http.StatusForbidden, rec.Code)

	// Promotion takes effect without a new token
	rec = s.do(http.MethodGet, "/api/admin/habits", adminToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), habit.ID)

	rec = s.do(http.MethodGet, "/api/habits/"+habit.ID+"/report", adminToken, "")
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/admin/users", adminToken, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var users struct {
		Users []*model.User `json:"users"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &users))
	s.Len(users.Users, 3)

	owner := findUser(users.Users, "owner@example.com")
	s.Require().NotNil(owner)

	rec = s.do(http.MethodDelete, "/api/admin/users/"+owner.ID, adminToken, "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/habits", ownerToken, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RoutesSuite) TestSecurityHeadersAndRequestID() {
	rec := s.do(http.MethodGet, "/api/habits", "", "")
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/habits", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal("req-123", rec.Header().Get("X-Request-ID"))
}

func findUser(users []*model.User, email string) *model.User {
	for _, u := range users {
		if u.Email == email {
			return u
		}
	}
	return nil
}
