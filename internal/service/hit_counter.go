// Package service holds the business logic sitting between the HTTP handlers
// and the counter stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/qf-devops/do-doks-saas/internal/queue"
	"github.com/qf-devops/do-doks-saas/internal/repository"
)

const (
	// HitsCounter is the name of the counter incremented on every visit.
	HitsCounter = "hits"

	DefaultRetries    = 5
	DefaultRetryDelay = 500 * time.Millisecond

	notifyTimeout = 2 * time.Second
)

// HitNotifier is told about every successful increment.
type HitNotifier interface {
	PublishHit(ctx context.Context, ev queue.HitEvent) error
}

// HitCounter increments the hits counter, retrying while the store is
// unreachable.
type HitCounter struct {
	repo     repository.CounterRepo
	logger   *zap.SugaredLogger
	notifier HitNotifier
	retries  int
	delay    time.Duration
	sleep    func(time.Duration)
	now      func() time.Time
}

type Option func(*HitCounter)

// WithNotifier publishes a queue.HitEvent after each successful increment.
func WithNotifier(n HitNotifier) Option {
	return func(h *HitCounter) { h.notifier = n }
}

// WithRetryPolicy overrides the number of retries and the fixed delay
// between them.
func WithRetryPolicy(retries int, delay time.Duration) Option {
	return func(h *HitCounter) {
		h.retries = retries
		h.delay = delay
	}
}

func NewHitCounter(repo repository.CounterRepo, logger *zap.SugaredLogger, opts ...Option) *HitCounter {
	h := &HitCounter{
		repo:    repo,
		logger:  logger,
		retries: DefaultRetries,
		delay:   DefaultRetryDelay,
		sleep:   time.Sleep,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hit increments the hits counter and returns its new value.
//
// A connection-level failure (repository.ErrUnavailable) is retried up to
// h.retries more times with a fixed delay; any other error is returned at
// once.  The loop is detached from ctx cancellation and always runs to
// success or exhaustion.  An attempt whose reply was lost may still have
// incremented the counter, so a retry can count one visit twice.
func (h *HitCounter) Hit(ctx context.Context) (int64, error) {
	ctx = context.WithoutCancel(ctx)

	retries := h.retries
	for attempt := 1; ; attempt++ {
		n, err := h.repo.Incr(ctx, HitsCounter)
		if err == nil {
			h.notify(ctx, n)
			return n, nil
		}
		if !errors.Is(err, repository.ErrUnavailable) {
			return 0, err
		}
		if retries == 0 {
			return 0, fmt.Errorf("increment %s: giving up after %d attempts: %w", HitsCounter, attempt, err)
		}
		retries--
		h.logger.Warnw("counter store unavailable, retrying",
			"attempt", attempt, "retries_left", retries, "delay", h.delay, "error", err)
		h.sleep(h.delay)
	}
}

func (h *HitCounter) notify(ctx context.Context, n int64) {
	if h.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	// Failures are logged by the notifier and never fail the visit.
	_ = h.notifier.PublishHit(ctx, queue.HitEvent{
		Counter:    HitsCounter,
		Count:      n,
		RecordedAt: h.now().UTC().Format(time.RFC3339),
	})
}
