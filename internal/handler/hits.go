package handler

import (
	"context"  // context carries the request scope into the counter
	"fmt"      // fmt renders the greeting
	"net/http" // net/http provides status codes

	"github.com/labstack/echo/v4" // echo defines request context types
)

// Hitter increments the visit counter and returns its new value.
type Hitter interface {
	Hit(ctx context.Context) (int64, error)
}

// HitHandler serves the greeting on the root route.
type HitHandler struct {
	Counter Hitter // Counter is usually a *service.HitCounter
}

// NewHitHandler constructs a HitHandler and panics if counter is nil.
func NewHitHandler(counter Hitter) *HitHandler {
	if counter == nil { // a handler without a counter can only ever fail
		panic("nil counter passed to NewHitHandler")
	}
	return &HitHandler{Counter: counter}
}

// Hello counts the visit and greets the caller with the running total.  If
// the store stays unreachable the error is handed back to echo, whose error
// handler answers 500.
func (h *HitHandler) Hello(c echo.Context) error {
	n, err := h.Counter.Hit(c.Request().Context()) // increment with bounded retry
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, fmt.Sprintf("Hello from DOKS! I have been seen %d times.\n", n))
}
