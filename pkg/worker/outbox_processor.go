package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	"github.com/pitstop/pitstop-api/pkg/logger"
	"github.com/pitstop/pitstop-api/pkg/messaging"
	"github.com/pitstop/pitstop-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	// Retention is how long processed rows are kept before pruning.
	Retention time.Duration
}

// OutboxProcessor drains pending outbox rows and publishes them to the
// broker. Rows are locked with FOR UPDATE SKIP LOCKED so multiple
// processors can run side by side.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 5 * time.Second
	}
	if config.Retention <= 0 {
		config.Retention = 24 * time.Hour
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox events")
			}
			p.pruneProcessed(ctx)
		}
	}
}

// processEvents drains one batch inside a single transaction so the
// FOR UPDATE SKIP LOCKED locks hold until the status writes commit.
func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	tx, err := p.repo.BeginTx(ctx)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("begin_tx", "error").Inc()
		return fmt.Errorf("failed to begin outbox transaction: %w", err)
	}
	defer tx.Rollback()

	events, err := p.repo.GetPendingEventsWithLock(ctx, tx, p.config.BatchSize)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "error").Inc()
		return fmt.Errorf("failed to get pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "success").Inc()

	for _, event := range events {
		if err := p.processEvent(ctx, tx, event); err != nil {
			p.logger.Error(err, "failed to process event",
				"event_id", event.ID.String(),
				"event_type", event.EventType)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit outbox batch: %w", err)
	}
	return nil
}

// pruneProcessed drops processed rows older than the retention window.
// Pruning is housekeeping; failures are logged and retried next tick.
func (p *OutboxProcessor) pruneProcessed(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.Retention)
	pruned, err := p.repo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("prune_processed", "error").Inc()
		p.logger.Error(err, "failed to prune processed outbox events")
		return
	}
	p.metrics.DatabaseOperations.WithLabelValues("prune_processed", "success").Inc()
	if pruned > 0 {
		p.logger.Info("pruned processed outbox events", "count", pruned)
	}
}

func (p *OutboxProcessor) processEvent(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error {
	var publishErr error
	for attempt := 0; attempt < p.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()
			time.Sleep(time.Duration(attempt) * p.config.RetryDelay)
		}

		publishErr = p.broker.Publish(ctx, event.EventType, &messaging.Message{
			Type:    event.EventType,
			Payload: event.Payload,
		})
		if publishErr == nil {
			break
		}

		p.logger.Warn("retrying event publish",
			"event_id", event.ID.String(),
			"attempt", attempt+1)
	}

	if publishErr != nil {
		p.metrics.OutboxEventsFailed.Inc()
		errMsg := publishErr.Error()
		retryAt := time.Now().Add(p.config.RetryDelay * time.Duration(p.config.RetryAttempts))
		if updateErr := p.repo.UpdateStatus(ctx, tx, event.ID, model.OutboxStatusRetry, &errMsg, &retryAt); updateErr != nil {
			p.logger.Error(updateErr, "failed to mark event for retry", "event_id", event.ID.String())
		}
		return publishErr
	}

	if err := p.repo.UpdateStatus(ctx, tx, event.ID, model.OutboxStatusProcessed, nil, nil); err != nil {
		p.logger.Error(err, "failed to mark event as processed", "event_id", event.ID.String())
		return err
	}

	p.metrics.OutboxEventsProcessed.Inc()
	return nil
}
