package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type fakePaymentRepo struct {
	payments      map[uuid.UUID]*model.Payment
	refundAmounts map[uuid.UUID]int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments:      make(map[uuid.UUID]*model.Payment),
		refundAmounts: make(map[uuid.UUID]int64),
	}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *model.Payment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentRepo) Get(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, apperrors.NotFound("payment")
	}
	return p, nil
}

func (f *fakePaymentRepo) GetByGatewayRef(_ context.Context, ref string) (*model.Payment, error) {
	for _, p := range f.payments {
		if p.GatewayRef == ref {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("payment")
}

func (f *fakePaymentRepo) List(_ context.Context, customerID uuid.UUID) ([]*model.Payment, error) {
	var out []*model.Payment
	for _, p := range f.payments {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) MarkCompleted(_ context.Context, id uuid.UUID, ref string) error {
	p, ok := f.payments[id]
	if !ok {
		return apperrors.NotFound("payment")
	}
	p.Status = model.PaymentStatusCompleted
	p.GatewayRef = ref
	return nil
}

func (f *fakePaymentRepo) MarkFailed(_ context.Context, id uuid.UUID, ref string) error {
	p, ok := f.payments[id]
	if !ok {
		return apperrors.NotFound("payment")
	}
	p.Status = model.PaymentStatusFailed
	p.GatewayRef = ref
	return nil
}

func (f *fakePaymentRepo) MarkRefunded(_ context.Context, id uuid.UUID, ref string, amount int64) error {
	p, ok := f.payments[id]
	if !ok {
		return apperrors.NotFound("payment")
	}
	p.Status = model.PaymentStatusRefunded
	p.GatewayRef = ref
	f.refundAmounts[id] = amount
	return nil
}

func newTestService(repo *fakePaymentRepo) *Service {
	zl := zerolog.Nop()
	return NewService(repo, &zl)
}

func seedPayment(repo *fakePaymentRepo, status model.PaymentStatus, amount int64) *model.Payment {
	p := &model.Payment{
		CustomerID: uuid.New(),
		Amount:     amount,
		Currency:   "EUR",
		Status:     status,
	}
	p.ID = uuid.New()
	repo.payments[p.ID] = p
	return p
}

func TestProcessWebhookEvent_CompletedFromPending(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestService(repo)
	p := seedPayment(repo, model.PaymentStatusPending, 5000)

	err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
		Type:       model.WebhookPaymentCompleted,
		PaymentID:  p.ID,
		GatewayRef: "gw-1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, p.Status)
	assert.Equal(t, "gw-1", p.GatewayRef)
}

func TestProcessWebhookEvent_CompletedTwiceConflicts(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestService(repo)
	p := seedPayment(repo, model.PaymentStatusCompleted, 5000)

	err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
		Type:      model.WebhookPaymentCompleted,
		PaymentID: p.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestProcessWebhookEvent_FailedFromPending(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestService(repo)
	p := seedPayment(repo, model.PaymentStatusPending, 5000)

	err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
		Type:      model.WebhookPaymentFailed,
		PaymentID: p.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, p.Status)
}

func TestProcessWebhookEvent_FailedAfterCompletionConflicts(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestService(repo)
	p := seedPayment(repo, model.PaymentStatusCompleted, 5000)

	err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
		Type:      model.WebhookPaymentFailed,
		PaymentID: p.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	assert.Equal(t, model.PaymentStatusCompleted, p.Status)
}

func TestProcessWebhookEvent_RefundedFromCompleted(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestService(repo)
	p := seedPayment(repo, model.PaymentStatusCompleted, 5000)

	err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
		Type:      model.WebhookPaymentRefunded,
		PaymentID: p.ID,
		Amount:    2000,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, p.Status)
	assert.Equal(t, int64(2000), repo.refundAmounts[p.ID])
}

func TestProcessWebhookEvent_RefundAmountDefaultsToFull(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestService(repo)

	for _, amount := range []int64{0, -100, 9999} {
		p := seedPayment(repo, model.PaymentStatusCompleted, 5000)
		err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
			Type:      model.WebhookPaymentRefunded,
			PaymentID: p.ID,
			Amount:    amount,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5000), repo.refundAmounts[p.ID], "amount %d should clamp to the payment total", amount)
	}
}

func TestProcessWebhookEvent_RefundRequiresCompletion(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestService(repo)

	for _, status := range []model.PaymentStatus{
		model.PaymentStatusPending,
		model.PaymentStatusFailed,
		model.PaymentStatusRefunded,
	} {
		p := seedPayment(repo, status, 5000)
		err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
			Type:      model.WebhookPaymentRefunded,
			PaymentID: p.ID,
		})
		require.Error(t, err, "status %s", status)
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	}
}

func TestProcessWebhookEvent_UnknownType(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestService(repo)
	p := seedPayment(repo, model.PaymentStatusPending, 5000)

	err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
		Type:      "payment.exploded",
		PaymentID: p.ID,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))
}

func TestProcessWebhookEvent_ResolvesByGatewayRef(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestService(repo)
	p := seedPayment(repo, model.PaymentStatusCompleted, 5000)
	p.GatewayRef = "gw-9"

	err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
		Type:       model.WebhookPaymentRefunded,
		GatewayRef: "gw-9",
		Amount:     1000,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, p.Status)
	assert.Equal(t, int64(1000), repo.refundAmounts[p.ID])
}

func TestProcessWebhookEvent_MissingPaymentID(t *testing.T) {
	svc := newTestService(newFakePaymentRepo())

	err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
		Type: model.WebhookPaymentCompleted,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))
}

func TestProcessWebhookEvent_UnknownPayment(t *testing.T) {
	svc := newTestService(newFakePaymentRepo())

	err := svc.ProcessWebhookEvent(context.Background(), &model.WebhookEvent{
		Type:      model.WebhookPaymentCompleted,
		PaymentID: uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
