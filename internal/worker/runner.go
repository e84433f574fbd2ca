// Package worker hosts the batch processor: scheduled runs on a fixed
// interval, plus immediate runs whenever an enqueue notification arrives.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/upskillhq/skillmatch/internal/engine"
	"github.com/upskillhq/skillmatch/shared/rabbitmq"
)

// Config holds runner configuration
type Config struct {
	Logger       *slog.Logger
	Engine       *engine.Engine
	RabbitClient *rabbitmq.Client
	Interval     time.Duration
	BatchLimit   int
}

// Runner drives the engine's batch processor.
type Runner struct {
	logger     *slog.Logger
	engine     *engine.Engine
	rabbit     *rabbitmq.Client
	interval   time.Duration
	batchLimit int
	runnerID   string
}

// NewRunner creates a new Runner instance
func NewRunner(cfg *Config) *Runner {
	return &Runner{
		logger:     cfg.Logger,
		engine:     cfg.Engine,
		rabbit:     cfg.RabbitClient,
		interval:   cfg.Interval,
		batchLimit: cfg.BatchLimit,
		runnerID:   fmt.Sprintf("runner-%s", uuid.New().String()[:8]),
	}
}

// Run processes batches until the context is canceled. Each trigger runs
// batches back-to-back until a batch comes in under the limit, so a burst of
// notifications while a run is in progress is absorbed by that run.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Runner started",
		slog.String("runner_id", r.runnerID),
		slog.Duration("interval", r.interval),
		slog.Int("batch_limit", r.batchLimit),
	)

	deliveries, err := r.rabbit.Consume(r.runnerID)
	if err != nil {
		return fmt.Errorf("failed to start notification consumer: %w", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Drain whatever accumulated while the service was down
	r.drainQueue(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Runner stopping - context canceled",
				slog.String("runner_id", r.runnerID),
			)
			return nil

		case <-ticker.C:
			r.drainQueue(ctx)

		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("notification channel closed")
			}

			if err := delivery.Ack(false); err != nil {
				r.logger.Warn("Failed to ACK notification",
					slog.String("error", err.Error()),
				)
			}

			r.drainQueue(ctx)
		}
	}
}

// drainQueue runs batches until one comes in under the limit. A failing task
// shrinks the processed count below the limit, so a queue full of
// permanently failing tasks does not spin this loop.
func (r *Runner) drainQueue(ctx context.Context) {
	for {
		processed, err := r.engine.ProcessBatch(ctx, r.batchLimit)
		if err != nil {
			r.logger.Error("Batch processing failed",
				slog.String("runner_id", r.runnerID),
				slog.String("error", err.Error()),
			)
			return
		}

		if processed > 0 {
			r.logger.Info("Batch complete",
				slog.String("runner_id", r.runnerID),
				slog.Int("processed", processed),
			)
		}

		if processed < r.batchLimit {
			return
		}
	}
}
