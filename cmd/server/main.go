package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/ets-hub/internal/config"
	"github.com/hongminglow/ets-hub/internal/logging"
	"github.com/hongminglow/ets-hub/internal/observability"
	"github.com/hongminglow/ets-hub/internal/server"
	"github.com/hongminglow/ets-hub/internal/storage"
	"github.com/hongminglow/ets-hub/internal/storage/file"
	"github.com/hongminglow/ets-hub/internal/storage/memory"
	"github.com/hongminglow/ets-hub/internal/storage/postgres"
	redisstore "github.com/hongminglow/ets-hub/internal/storage/redis"
	"github.com/hongminglow/ets-hub/internal/view"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("init storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer closeStorage()

	engine, err := view.NewEngine()
	if err != nil {
		logger.Fatal("parse templates", zap.Error(err))
	}

	srv := server.New(cfg, server.Deps{
		Storage: kv,
		Metrics: observability.NewMetrics(),
		Views:   engine,
		Logger:  logger,
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("ETS hub listening", zap.String("addr", cfg.HTTPAddress()), zap.String("storage", cfg.StorageDriver))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func openStorage(ctx context.Context, cfg config.Config) (storage.KV, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return memory.New(), func() {}, nil
	case config.DriverFile:
		store, err := file.New(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		store := redisstore.New(client, "", cfg.SessionTTL)
		return store, func() { _ = store.Close() }, nil
	case config.DriverPostgres:
		store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
