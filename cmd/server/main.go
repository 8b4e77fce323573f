package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paronov/taskmaster/internal/server"
	"github.com/paronov/taskmaster/internal/server/auth"
	"github.com/paronov/taskmaster/internal/server/config"
	"github.com/paronov/taskmaster/internal/server/handlers"
	"github.com/paronov/taskmaster/internal/server/storage/mongodb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	codec := auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.SessionTTL)
	service, err := auth.NewService(logger, store, codec, cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to init auth service: %w", err)
	}

	handler := server.NewRouter(logger, server.Handlers{
		Auth:   handlers.NewAuthHandler(logger, service),
		Users:  handlers.NewUserHandler(logger, service, store),
		Tasks:  handlers.NewTaskHandler(logger, store),
		Health: handlers.NewHealthHandler(logger, store),
	}, service, cfg.RateLimit, cfg.RateWindow)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		logger.Info("server is up",
			slog.String("addr", cfg.Addr),
			slog.String("version", Version))
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}

func printVersion() {
	fmt.Printf("Taskmaster Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
