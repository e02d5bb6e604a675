package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/qf-devops/do-doks-saas/internal/config"
	"github.com/qf-devops/do-doks-saas/internal/database"
	"github.com/qf-devops/do-doks-saas/internal/handler"
	"github.com/qf-devops/do-doks-saas/internal/logger"
	"github.com/qf-devops/do-doks-saas/internal/middleware"
	"github.com/qf-devops/do-doks-saas/internal/queue"
	"github.com/qf-devops/do-doks-saas/internal/repository"
	"github.com/qf-devops/do-doks-saas/internal/router"
	"github.com/qf-devops/do-doks-saas/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load() // optional .env next to the binary
	cfg := config.Load()
	redisCfg := config.LoadRedisConfig()
	rlCfg := config.LoadRateLimitConfig()

	zl := logger.Must(logger.New(logger.WithLevel(cfg.LogLevel)))
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar().With(zap.String("app", "counter"))

	// One Redis client for the whole process, shared by every request.
	var rdb *redis.Client
	if cfg.CounterStore == "redis" || rlCfg.Enabled {
		rdb = config.NewRedisClient(redisCfg)
		defer func() { _ = rdb.Close() }()
	}

	repo, closeRepo, err := newCounterRepo(cfg, rdb)
	if err != nil {
		log.Fatalw("counter store setup failed", "store", cfg.CounterStore, "error", err)
	}
	defer closeRepo()

	var opts []service.Option
	if cfg.AMQPURL != "" {
		pub := queue.NewPublisher(cfg.AMQPURL, log)
		defer func() { _ = pub.Close() }()
		opts = append(opts, service.WithNotifier(pub))
	}
	counter := service.NewHitCounter(repo, log, opts...)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover(), middleware.RequestLogger(log))

	var routeMW []echo.MiddlewareFunc
	if rdb != nil {
		routeMW = append(routeMW, middleware.NewTokenBucket(rlCfg, rdb, log))
	}
	router.RegisterRoutes(e, handler.NewHitHandler(counter), routeMW...)

	addr := ":" + cfg.Port
	log.Infow("listening", "addr", addr, "env", cfg.Env, "store", cfg.CounterStore, "redis", redisCfg.Addr())
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}

// newCounterRepo picks the store selected by COUNTER_STORE.  The returned
// func releases whatever the store opened.
func newCounterRepo(cfg config.Config, rdb *redis.Client) (repository.CounterRepo, func(), error) {
	switch cfg.CounterStore {
	case "redis":
		return repository.NewRedisCounterRepo(rdb), func() {}, nil

	case "mysql":
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repository.NewMySQLCounterRepo(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("invalid counter store %q", cfg.CounterStore)
	}
}
