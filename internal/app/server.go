package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Start launches every protocol adapter and returns a channel closed on
// shutdown. An adapter that fails to serve takes only itself down; the other
// listeners keep running.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	for _, adapter := range a.adapters {
		a.goroutine.Go(a.ctx, func(ctx context.Context) error {
			slog.InfoContext(ctx, "listener starting", "adapter", adapter.Name())

			if err := adapter.Start(); err != nil {
				slog.ErrorContext(ctx, "listener stopped serving", "adapter", adapter.Name(), "error", err)
			}

			return nil
		})
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		<-sigint

		if a.cancel != nil {
			a.cancel()
		}

		close(terminateChan)

		slog.Info("application gracefully shutdown")
	}()

	return terminateChan
}

// Stop gracefully drains the adapters and closes resources.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	for _, adapter := range a.adapters {
		if err := adapter.Stop(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to stop listener", "adapter", adapter.Name(), "error", err)
		}
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}
	slog.InfoContext(ctx, "all goroutines have finished successfully")

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
}
