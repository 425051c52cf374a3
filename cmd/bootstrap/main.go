package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	adapterlogger "disaster-response/internal/adapters/logger"
	"disaster-response/internal/config"
	"disaster-response/internal/platform/app"
	"disaster-response/internal/platform/lambda"
)

const shutdownTimeout = 10 * time.Second

func main() {
	bootLogger := adapterlogger.New(nil)

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Error(context.Background(), "configuration error", "error", err)
		os.Exit(1)
	}
	level, err := adapterlogger.ParseLevel(cfg.LogLevel)
	if err != nil {
		bootLogger.Error(context.Background(), "configuration error", "error", err)
		os.Exit(1)
	}
	logger := adapterlogger.New(level)
	slog.SetDefault(logger.Slog())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to initialize service", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Lambda freezes the process between invocations, so the news snapshot
	// is refreshed on cache miss instead of by the poller.
	if lambda.InLambda() {
		logger.Info(ctx, "starting lambda handler")
		awslambda.Start(lambda.NewLambdaHandler(a.Echo))
		return
	}

	go a.Poller.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "starting http server", "port", cfg.Port)
		if err := a.Echo.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error(ctx, "http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed", "error", err)
	}
}
