package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaniki/salepoint-api/internal/domain/entity"
)

type fakeIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *fakeIdempotencyRepo) Create(ctx context.Context, key *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[key.Key+"/"+key.UserID.String()] = key
	return nil
}

func (r *fakeIdempotencyRepo) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[key+"/"+userID.String()]
	if !ok {
		return nil, nil
	}
	return k, nil
}

func (r *fakeIdempotencyRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range r.keys {
		if v.IsExpired() {
			delete(r.keys, k)
		}
	}
	return nil
}

// checkoutStub fails on the first call and succeeds afterwards when
// failFirst is set, counting every invocation.
type checkoutStub struct {
	calls     int
	failFirst bool
}

func (s *checkoutStub) handle(c *gin.Context) {
	s.calls++
	if s.failFirst && s.calls == 1 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Add at least one item before checkout"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"receipt_no": "SL1300826", "attempt": s.calls}})
}

func newCheckoutRouter(userID uuid.UUID, repo *fakeIdempotencyRepo, stub *checkoutStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/checkout",
		func(c *gin.Context) { c.Set("user_id", userID) },
		IdempotencyRequired(IdempotencyConfig{Repo: repo}),
		stub.handle,
	)
	return router
}

func postCheckout(router *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotencyRequiredMissingKey(t *testing.T) {
	stub := &checkoutStub{}
	router := newCheckoutRouter(uuid.New(), newFakeIdempotencyRepo(), stub)

	w := postCheckout(router, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Idempotency-Key header is required")
	assert.Equal(t, 0, stub.calls, "the handler must not run without a key")
}

func TestIdempotencyRequiredUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &checkoutStub{}
	router := gin.New()
	router.POST("/checkout", IdempotencyRequired(IdempotencyConfig{Repo: newFakeIdempotencyRepo()}), stub.handle)

	w := postCheckout(router, "key-1")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, stub.calls)
}

func TestIdempotencyRequiredReplaysDoubleSubmit(t *testing.T) {
	stub := &checkoutStub{}
	router := newCheckoutRouter(uuid.New(), newFakeIdempotencyRepo(), stub)

	first := postCheckout(router, "key-1")
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, 1, stub.calls)

	second := postCheckout(router, "key-1")

	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String(), "the cached response is returned verbatim")
	assert.Equal(t, 1, stub.calls, "a double submit must not run checkout twice")
}

func TestIdempotencyRequiredKeysAreScopedPerUser(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	stubA := &checkoutStub{}
	stubB := &checkoutStub{}
	routerA := newCheckoutRouter(uuid.New(), repo, stubA)
	routerB := newCheckoutRouter(uuid.New(), repo, stubB)

	require.Equal(t, http.StatusCreated, postCheckout(routerA, "key-1").Code)
	w := postCheckout(routerB, "key-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 1, stubB.calls, "another user's key must not replay someone else's receipt")
}

func TestIdempotencyRequiredFailuresAreRetryable(t *testing.T) {
	stub := &checkoutStub{failFirst: true}
	router := newCheckoutRouter(uuid.New(), newFakeIdempotencyRepo(), stub)

	first := postCheckout(router, "key-1")
	require.Equal(t, http.StatusUnprocessableEntity, first.Code)

	// The failure was not cached, so the same key reaches the handler again.
	second := postCheckout(router, "key-1")

	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Empty(t, second.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 2, stub.calls)

	// The success is now cached for any further retries.
	third := postCheckout(router, "key-1")
	assert.Equal(t, "true", third.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 2, stub.calls)
}

func TestIdempotencyRequiredExpiredKeyIsReplaced(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	userID := uuid.New()
	stub := &checkoutStub{}
	router := newCheckoutRouter(userID, repo, stub)

	require.NoError(t, repo.Create(context.Background(), &entity.IdempotencyKey{
		Key:          "key-1",
		UserID:       userID,
		Endpoint:     "POST /checkout",
		ResponseCode: http.StatusCreated,
		ResponseBody: `{"success":true}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	w := postCheckout(router, "key-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 1, stub.calls, "an expired key behaves like a fresh one")
}

func TestIdempotencyOptionalPassesThroughWithoutKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &checkoutStub{}
	router := gin.New()
	router.POST("/items",
		func(c *gin.Context) { c.Set("user_id", uuid.New()) },
		Idempotency(IdempotencyConfig{Repo: newFakeIdempotencyRepo()}),
		stub.handle,
	)

	req := httptest.NewRequest(http.MethodPost, "/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, stub.calls)
}

func TestIdempotencyOptionalReplaysWithKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &checkoutStub{}
	userID := uuid.New()
	router := gin.New()
	router.POST("/items",
		func(c *gin.Context) { c.Set("user_id", userID) },
		Idempotency(IdempotencyConfig{Repo: newFakeIdempotencyRepo()}),
		stub.handle,
	)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/items", nil)
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code)

	second := post()
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, stub.calls)
}
