package repository

import "context"

// CounterRepo increments named integer counters held by an external store.
// Incr creates a missing counter at 0 before incrementing it, so the first
// call returns 1.  Implementations must be safe for concurrent use.
type CounterRepo interface {
	Incr(ctx context.Context, name string) (int64, error)
}

var (
	_ CounterRepo = (*RedisCounterRepo)(nil)
	_ CounterRepo = (*MySQLCounterRepo)(nil)
)
