package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	staffID := uuid.New()

	router := gin.New()
	router.Use(AuthMiddleware(jwtManager))
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"staff_id": c.MustGet(StaffIDKey)})
	})
	router.GET("/admin", RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cashierToken, err := jwtManager.GenerateAccessToken(staffID, "till@example.com", []string{entity.RoleCashier})
	require.NoError(t, err)
	adminToken, err := jwtManager.GenerateAccessToken(uuid.New(), "boss@example.com", []string{entity.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "missing header", path: "/me", want: http.StatusUnauthorized},
		{name: "not bearer", path: "/me", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "bad token", path: "/me", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid token", path: "/me", header: "Bearer " + cashierToken, want: http.StatusOK},
		{name: "cashier on admin route", path: "/admin", header: "Bearer " + cashierToken, want: http.StatusForbidden},
		{name: "admin on admin route", path: "/admin", header: "Bearer " + adminToken, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterConfigFrom(t *testing.T) {
	cfg := RateLimiterConfigFrom(120, 60)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)

	cfg = RateLimiterConfigFrom(0, 0)
	assert.Equal(t, 100, cfg.BurstSize)
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func scopeKey(s entity.IdempotencyScope) string {
	return s.StaffID.String() + "|" + s.Endpoint + "|" + s.Key
}

func (r *memoryIdempotencyRepo) Find(_ context.Context, scope entity.IdempotencyScope) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[scopeKey(scope)], nil
}

func (r *memoryIdempotencyRepo) Save(_ context.Context, k *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.keys[scopeKey(k.Scope())]; ok && !old.IsExpired() {
		return nil
	}
	r.keys[scopeKey(k.Scope())] = k
	return nil
}

func (r *memoryIdempotencyRepo) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, v := range r.keys {
		if v.ExpiresAt.Before(before) {
			delete(r.keys, k)
			n++
		}
	}
	return n, nil
}

func TestIdempotency(t *testing.T) {
	repo := &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
	staffID := uuid.New()
	calls := 0
	status := http.StatusCreated

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(StaffIDKey, staffID) })
	router.POST("/orders", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(status, gin.H{"call": calls})
	})

	post := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{}"))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := post("k1")
	assert.Equal(t, http.StatusCreated, first.Code)

	replay := post("k1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, calls)

	post("")
	assert.Equal(t, 2, calls)

	// failures are not stored
	status = http.StatusBadRequest
	assert.Equal(t, http.StatusBadRequest, post("k2").Code)
	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, post("k2").Code)
	assert.Equal(t, 4, calls)
}

func TestIdempotency_ScopedPerEndpointAndBody(t *testing.T) {
	repo := &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
	staffID := uuid.New()
	calls := map[string]int{}

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(StaffIDKey, staffID) })
	mw := Idempotency(IdempotencyConfig{Repo: repo})
	router.POST("/orders", mw, func(c *gin.Context) {
		calls["orders"]++
		c.JSON(http.StatusCreated, gin.H{"orders": calls["orders"]})
	})
	router.POST("/printer/receipt", mw, func(c *gin.Context) {
		calls["print"]++
		c.JSON(http.StatusOK, gin.H{"print": calls["print"]})
	})

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set(IdempotencyKeyHeader, "till-7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, post("/orders", `{"id":1}`).Code)
	assert.Equal(t, http.StatusOK, post("/printer/receipt", `{"id":1}`).Code, "same key on another endpoint is a new request")
	assert.Equal(t, 1, calls["orders"])
	assert.Equal(t, 1, calls["print"])

	reused := post("/orders", `{"id":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, reused.Code)
	assert.Contains(t, reused.Body.String(), "IDEMPOTENCY_KEY_REUSED")
	assert.Equal(t, 1, calls["orders"])

	replay := post("/orders", `{"id":1}`)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 1, calls["orders"])
}

func TestIdempotency_ExpiredKeyIsReplaced(t *testing.T) {
	repo := &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
	staffID := uuid.New()
	stale := &entity.IdempotencyKey{
		StaffID:      staffID,
		Endpoint:     "POST /orders",
		Key:          "till-7",
		RequestHash:  "old",
		ResponseCode: http.StatusCreated,
		ResponseBody: `{"stale":true}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Save(context.Background(), stale))

	calls := 0
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(StaffIDKey, staffID) })
	router.POST("/orders", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"id":1}`))
	req.Header.Set(IdempotencyKeyHeader, "till-7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 1, calls)

	stored, err := repo.Find(context.Background(), stale.Scope())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsExpired())

	n, err := repo.PurgeExpired(context.Background(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
