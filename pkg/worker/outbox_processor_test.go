package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/pkg/logger"
	"github.com/pitstop/pitstop-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test", "outbox_worker")

type fakeOutboxRepo struct {
	statuses     map[uuid.UUID]model.OutboxStatus
	retryAts     map[uuid.UUID]*time.Time
	pruneCutoffs []time.Time
	pruned       int64
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{
		statuses: make(map[uuid.UUID]model.OutboxStatus),
		retryAts: make(map[uuid.UUID]*time.Time),
	}
}

func (f *fakeOutboxRepo) Create(_ context.Context, _ *model.OutboxEvent) error { return nil }

func (f *fakeOutboxRepo) BeginTx(_ context.Context) (*sqlx.Tx, error) {
	return nil, errors.New("no database")
}

func (f *fakeOutboxRepo) GetPendingEventsWithLock(_ context.Context, _ *sqlx.Tx, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, _ *sqlx.Tx, id uuid.UUID, status model.OutboxStatus, _ *string, retryAt *time.Time) error {
	f.statuses[id] = status
	f.retryAts[id] = retryAt
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, before time.Time) (int64, error) {
	f.pruneCutoffs = append(f.pruneCutoffs, before)
	return f.pruned, nil
}

type fakeBroker struct {
	calls    int
	err      error
	channels []string
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	f.calls++
	f.channels = append(f.channels, channel)
	return f.err
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func newTestProcessor(repo *fakeOutboxRepo, broker *fakeBroker, cfg OutboxProcessorConfig) *OutboxProcessor {
	l := logger.NewLogger(&logger.Config{Output: io.Discard})
	return NewOutboxProcessor(repo, broker, cfg, l, testMetrics)
}

func newEvent(eventType string) *model.OutboxEvent {
	e := &model.OutboxEvent{
		EventType: eventType,
		Payload:   []byte(`{}`),
		Status:    model.OutboxStatusPending,
	}
	e.ID = uuid.New()
	return e
}

func TestProcessEvent_PublishedEventMarkedProcessed(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &fakeBroker{}
	p := newTestProcessor(repo, broker, OutboxProcessorConfig{})
	e := newEvent("booking.created")

	require.NoError(t, p.processEvent(context.Background(), nil, e))

	assert.Equal(t, 1, broker.calls)
	assert.Equal(t, []string{"booking.created"}, broker.channels)
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[e.ID])
}

func TestProcessEvent_PublishFailureSchedulesRetry(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &fakeBroker{err: errors.New("broker down")}
	p := newTestProcessor(repo, broker, OutboxProcessorConfig{
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	})
	e := newEvent("booking.cancelled")

	err := p.processEvent(context.Background(), nil, e)
	require.Error(t, err)

	assert.Equal(t, 2, broker.calls)
	assert.Equal(t, model.OutboxStatusRetry, repo.statuses[e.ID])
	require.NotNil(t, repo.retryAts[e.ID])
	assert.True(t, repo.retryAts[e.ID].After(time.Now()))
}

func TestPruneProcessed_UsesRetentionCutoff(t *testing.T) {
	repo := newFakeOutboxRepo()
	repo.pruned = 3
	p := newTestProcessor(repo, &fakeBroker{}, OutboxProcessorConfig{
		Retention: time.Hour,
	})

	p.pruneProcessed(context.Background())

	require.Len(t, repo.pruneCutoffs, 1)
	assert.WithinDuration(t, time.Now().Add(-time.Hour), repo.pruneCutoffs[0], time.Minute)
}

func TestNewOutboxProcessor_Defaults(t *testing.T) {
	p := newTestProcessor(newFakeOutboxRepo(), &fakeBroker{}, OutboxProcessorConfig{})

	assert.Equal(t, 100, p.config.BatchSize)
	assert.Equal(t, 5*time.Second, p.config.PollInterval)
	assert.Equal(t, 3, p.config.RetryAttempts)
	assert.Equal(t, 5*time.Second, p.config.RetryDelay)
	assert.Equal(t, 24*time.Hour, p.config.Retention)
}
