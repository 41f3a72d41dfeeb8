package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/ets-hub/cmd/etsctl/cli"
	"github.com/hongminglow/ets-hub/internal/auth"
	"github.com/hongminglow/ets-hub/internal/config"
	"github.com/hongminglow/ets-hub/internal/logging"
	"github.com/hongminglow/ets-hub/internal/session"
	"github.com/hongminglow/ets-hub/internal/storage/file"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "etsctl: %v\n", err)
		return cli.ExitError
	}
	logger, err := logging.NewCLI(cfg.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "etsctl: %v\n", err)
		return cli.ExitError
	}
	defer func() { _ = logger.Sync() }()

	kv, err := file.New(filepath.Join(cfg.Home, "storage"))
	if err != nil {
		logger.Error("open storage", zap.String("home", cfg.Home), zap.Error(err))
		return cli.ExitError
	}

	ctx := context.Background()
	store, release, err := session.NewManager(kv, logger, nil).Open(ctx, "")
	if err != nil {
		logger.Error("load session", zap.Error(err))
		return cli.ExitError
	}
	defer release()

	return cli.New(store, auth.NewAccessGate(cfg.AdminAccessHash)).Run(ctx, os.Args[1:], cli.Options{})
}
