package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipflow_server/config"
	"shipflow_server/internal/bootstrap"
	"shipflow_server/pkg/logger"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file if exists (for local development)
	dotenvErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	logger.Init(logger.Config{
		Level:   cfg.LogLevel,
		Service: "shipflow",
		Pretty:  cfg.LogPretty,
	})
	if dotenvErr != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	runWorker(cfg)
}

func runWorker(cfg *config.Config) {
	worker, cleanup, err := bootstrap.NewWorker(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize worker: %v", err)
	}
	defer cleanup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down worker (timeout: %v)...", shutdownTimeout)

		done := make(chan struct{})
		go func() {
			worker.Stop()
			close(done)
		}()

		select {
		case <-done:
			logger.Info("Worker shut down gracefully")
		case <-time.After(shutdownTimeout):
			logger.Warn("Worker shutdown timed out, forcing exit")
			os.Exit(1)
		}
	}()

	logger.Info("Starting ingest worker...")
	worker.Start()
}
