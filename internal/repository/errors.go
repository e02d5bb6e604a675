// Package repository holds the counter stores and the error values shared by
// them.  Higher layers only need to tell a store that could not be reached
// apart from a store that answered with an error: the former is worth
// retrying, the latter is not.
package repository

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// ErrUnavailable is returned (wrapped) when the counter store could not be
// reached: refused or reset connections, timeouts, closed clients.  Use
// errors.Is to test for it.
var ErrUnavailable = errors.New("counter store unavailable")

// unavailable tags err as a connection-level failure while keeping the cause
// reachable through errors.Is/As.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// isNetworkError reports whether err came from the transport rather than
// from the store's reply.
func isNetworkError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
