package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCounterRepo keeps counters as plain Redis integers and relies on INCR
// for atomicity across every instance of the service.
type RedisCounterRepo struct{ Client redis.UniversalClient }

func NewRedisCounterRepo(client redis.UniversalClient) *RedisCounterRepo {
	return &RedisCounterRepo{Client: client}
}

// Incr runs INCR on name and returns the new value.
func (r *RedisCounterRepo) Incr(ctx context.Context, name string) (int64, error) {
	n, err := r.Client.Incr(ctx, name).Result()
	if err != nil {
		err = fmt.Errorf("redis incr %s: %w", name, err)
		if isRedisConnError(err) {
			return 0, unavailable(err)
		}
		return 0, err
	}
	return n, nil
}

// isRedisConnError separates transport failures from error replies such as
// WRONGTYPE or "value is not an integer".
func isRedisConnError(err error) bool {
	var reply redis.Error
	if errors.As(err, &reply) {
		return false
	}
	return errors.Is(err, redis.ErrClosed) || isNetworkError(err)
}
