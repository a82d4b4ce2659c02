package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/core"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/di"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/adapters/queue"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/scheduler"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/server"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	sched *scheduler.Scheduler,
	worker *queue.Worker,
	srv *server.Server,
	generator core.TextGenerator,
	progress core.ProgressStore,
	rdb *redis.Client,
) error {
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Run(ctx)
	go sched.Run(ctx)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := generator.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close text generator", zap.Error(err))
		}
	}
	if closer, ok := progress.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close progress store", zap.Error(err))
		}
	}
	if err := rdb.Close(); err != nil {
		logger.Error("Failed to close redis client", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}
