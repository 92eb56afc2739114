package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/habitkit/internal/ctxkeys"
	"github.com/templui/habitkit/internal/metrics"
	"github.com/templui/habitkit/internal/model"
	"github.com/templui/habitkit/internal/repository"
	"github.com/templui/habitkit/internal/service"
)

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(3)
	rl.Allow("10.0.0.1")

	rl.cleanup(time.Now())
	assert.Len(t, rl.visitors, 1)

	rl.cleanup(time.Now().Add(time.Hour))
	assert.Empty(t, rl.visitors)
}

func TestRateLimiterCleanupLoopStops(t *testing.T) {
	rl := NewRateLimiter(3)
	rl.idle = 0
	rl.Allow("10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.cleanupLoop(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		return len(rl.visitors) == 0
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop kept running after cancel")
	}
}

func TestRateLimitAuthReturns429(t *testing.T) {
	handler := RateLimitAuth(t.Context(), 1)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(req))
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "bearer abc.def")
	assert.Equal(t, "abc.def", bearerToken(req))
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(ctxkeys.WithIdentity(req.Context(), &model.Identity{ID: "u1"}))
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestChainOrderAndRequestID(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, ctxkeys.RequestID(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	h := Chain(final, mark("first"), SecurityHeaders, RequestLogging(metrics.New()), mark("last"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/habits", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"first", "last"}, order)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

type stubUsers struct {
	repository.UserRepository
	user *model.User
	err  error
}

func (s *stubUsers) ByID(id string) (*model.User, error) {
	return s.user, s.err
}

func TestAuthMiddlewareUserLookup(t *testing.T) {
	authService := service.NewAuthService(nil, nil, "test-secret", time.Hour)
	token, _, err := authService.GenerateJWT(&model.User{ID: "u1", Email: "ada@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name         string
		users        *stubUsers
		wantStatus   int
		wantIdentity *model.Identity
	}{
		{
			name:         "known user",
			users:        &stubUsers{user: &model.User{ID: "u1", IsAdmin: true}},
			wantStatus:   http.StatusOK,
			wantIdentity: &model.Identity{ID: "u1", IsAdmin: true},
		},
		{
			name:       "deleted user continues anonymously",
			users:      &stubUsers{err: repository.ErrUserNotFound},
			wantStatus: http.StatusOK,
		},
		{
			name:       "store failure is a server error",
			users:      &stubUsers{err: errors.New("database is locked")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reached bool
			var identity *model.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				identity = ctxkeys.Identity(r.Context())
			})

			h := AuthMiddleware(authService, service.NewUserService(tt.users, nil))(next)

			req := httptest.NewRequest(http.MethodGet, "/api/habits", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, reached)
			assert.Equal(t, tt.wantIdentity, identity)
		})
	}
}
