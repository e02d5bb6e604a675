package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qf-devops/do-doks-saas/internal/handler"
	"github.com/qf-devops/do-doks-saas/internal/repository"
	"github.com/qf-devops/do-doks-saas/internal/service"
)

func newServer(t *testing.T, client *redis.Client, mw ...echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	counter := service.NewHitCounter(repository.NewRedisCounterRepo(client), zap.NewNop().Sugar(),
		service.WithRetryPolicy(service.DefaultRetries, 0))
	e := echo.New()
	RegisterRoutes(e, handler.NewHitHandler(counter), mw...)
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes_CountsVisits(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	e := newServer(t, client)

	rec := get(e, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello from DOKS! I have been seen 1 times.\n", rec.Body.String())

	require.NoError(t, mr.Set("hits", "41"))
	rec = get(e, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello from DOKS! I have been seen 42 times.\n", rec.Body.String())
}

func TestRoutes_StoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	e := newServer(t, client)
	mr.Close()

	assert.Equal(t, http.StatusInternalServerError, get(e, "/").Code)

	rec := get(e, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRoutes_MiddlewareOnlyWrapsGreeting(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	blocked := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error { return c.NoContent(http.StatusTooManyRequests) }
	}
	e := newServer(t, client, blocked)

	assert.Equal(t, http.StatusTooManyRequests, get(e, "/").Code)
	assert.Equal(t, http.StatusOK, get(e, "/healthz").Code)

	_, err := client.Get(context.Background(), "hits").Result()
	assert.ErrorIs(t, err, redis.Nil)
}
