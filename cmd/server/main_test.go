package main

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qf-devops/do-doks-saas/internal/config"
	"github.com/qf-devops/do-doks-saas/internal/repository"
)

func TestNewCounterRepo_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	repo, closeRepo, err := newCounterRepo(config.Config{CounterStore: "redis"}, rdb)
	require.NoError(t, err)
	defer closeRepo()
	assert.IsType(t, &repository.RedisCounterRepo{}, repo)
}

func TestNewCounterRepo_Unknown(t *testing.T) {
	_, _, err := newCounterRepo(config.Config{CounterStore: "etcd"}, nil)
	assert.ErrorContains(t, err, `invalid counter store "etcd"`)
}
