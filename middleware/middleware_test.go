package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthenticator struct {
	users map[string]*models.User
	fail  error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, header string) (*models.User, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if u, ok := f.users[header]; ok {
		return u, nil
	}
	return nil, &services.Error{Kind: services.KindUnauthorized, Message: "Not authenticated", Err: services.ErrInvalidToken}
}

func (f *fakeAuthenticator) RequireRole(p *models.User, role models.Role) error {
	if p == nil || !p.Role.Satisfies(role) {
		return services.ErrForbidden
	}
	return nil
}

func newAuthRouter(a *Auth) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", a.AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": Principal(c).ID})
	})
	r.GET("/admin", a.AuthRequired(), a.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doRequest(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	fake := &fakeAuthenticator{users: map[string]*models.User{
		"Bearer user":  {ID: "u1", Role: models.RoleUser},
		"Bearer admin": {ID: "a1", Role: models.RoleAdmin},
	}}
	r := newAuthRouter(NewAuth(fake, logger.Discard()))

	w := doRequest(r, http.MethodGet, "/me", "Bearer user")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1"}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Not authenticated"}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/admin", "Bearer user")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Access denied. Admin only."}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/admin", "Bearer admin")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthRequiredStoreFailure(t *testing.T) {
	fake := &fakeAuthenticator{fail: errors.New("db down")}
	r := newAuthRouter(NewAuth(fake, logger.Discard()))

	w := doRequest(r, http.MethodGet, "/me", "Bearer user")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	w := doRequest(r, http.MethodGet, "/", "")
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

type fakeCounter struct {
	counts    map[string]int64
	ttls      map[string]time.Duration
	err       error
	expireErr error
	expires   int
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires++
	if f.expireErr != nil {
		return redis.NewBoolResult(false, f.expireErr)
	}
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

// TTL answers -1 like redis does for a key that exists without an expiry
func (f *fakeCounter) TTL(_ context.Context, key string) *redis.DurationCmd {
	if ttl, ok := f.ttls[key]; ok {
		return redis.NewDurationResult(ttl, nil)
	}
	return redis.NewDurationResult(-1, nil)
}

func TestRateLimiterRejectsOverBudget(t *testing.T) {
	counter := newFakeCounter()
	r := gin.New()
	r.POST("/login", RateLimiter(counter, 2, time.Minute, logger.Discard()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := doRequest(r, http.MethodPost, "/login", "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := doRequest(r, http.MethodPost, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, 1, counter.expires)
}

func TestRateLimiterRetriesMissingExpiry(t *testing.T) {
	counter := newFakeCounter()
	counter.expireErr = errors.New("i/o timeout")
	r := gin.New()
	r.POST("/login", RateLimiter(counter, 2, time.Minute, logger.Discard()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		doRequest(r, http.MethodPost, "/login", "")
	}
	assert.Equal(t, 3, counter.expires, "every request on a key without expiry retries EXPIRE")

	counter.expireErr = nil
	w := doRequest(r, http.MethodPost, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 4, counter.expires)
	require.Len(t, counter.ttls, 1)
	for _, ttl := range counter.ttls {
		assert.Equal(t, time.Minute, ttl)
	}

	doRequest(r, http.MethodPost, "/login", "")
	assert.Equal(t, 4, counter.expires, "once the window is set it is left alone")
}

func TestRateLimiterFailsOpen(t *testing.T) {
	counter := &fakeCounter{err: errors.New("connection refused")}
	r := gin.New()
	r.GET("/", RateLimiter(counter, 1, time.Minute, logger.Discard()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/", "").Code)
	}
}
