package bootstrap

import (
	"context"
	"time"

	"shipflow_server/adapter/in/worker"
	"shipflow_server/adapter/out/messaging"
	"shipflow_server/config"
	"shipflow_server/pkg/logger"
)

// Worker is the stream-driven ingest process: it consumes queued emails,
// classifies them, and advances shipment workflows.
type Worker struct {
	consumer *messaging.Consumer
	deps     *Dependencies
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWorker builds the ingest worker and its dependency graph.
func NewWorker(cfg *config.Config) (*Worker, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		return nil, nil, err
	}

	processor := worker.NewIngestProcessor(deps.IngestService, deps.MessageProducer, nil)

	consumer := messaging.NewConsumer(deps.Redis, &messaging.ConsumerConfig{
		Group:                cfg.ConsumerGroup,
		Consumer:             cfg.WorkerID,
		Streams:              []string{messaging.StreamEmailIngest},
		Handler:              processor,
		Logger:               logger.Default(),
		PendingCheckInterval: time.Duration(cfg.ConsumerPendingCheckSec) * time.Second,
		PendingIdleTime:      time.Duration(cfg.ConsumerPendingIdleSec) * time.Second,
		MaxRetries:           cfg.ConsumerMaxRetries,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		consumer: consumer,
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
	}, cleanup, nil
}

// Start runs the consumer until Stop is called.
func (w *Worker) Start() {
	if err := w.consumer.Run(w.ctx); err != nil && err != context.Canceled {
		logger.Error("consumer stopped: %v", err)
	}
}

// Stop cancels the consume loop.
func (w *Worker) Stop() {
	w.cancel()
}
