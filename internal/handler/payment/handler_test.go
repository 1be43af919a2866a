package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitstop/pitstop-api/internal/model"
	paymentService "github.com/pitstop/pitstop-api/internal/service/payment"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
	"github.com/pitstop/pitstop-api/pkg/metrics"
	"github.com/pitstop/pitstop-api/pkg/security"
)

const testSecret = "webhook-test-secret"

// Shared so repeated handler construction does not re-register collectors.
var testMetrics = metrics.NewMetrics("test", "payment_handler")

type fakePaymentRepo struct {
	payments map[uuid.UUID]*model.Payment
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

func (f *fakePaymentRepo) GetByGatewayRef(_ context.Context, _ string) (*model.Payment, error) {
	return nil, apperrors.NotFound("payment")
}

func (f *fakePaymentRepo) List(_ context.Context, _ uuid.UUID) ([]*model.Payment, error) {
	return nil, nil
}

func (f *fakePaymentRepo) MarkCompleted(_ context.Context, id uuid.UUID, ref string) error {
	f.payments[id].Status = model.PaymentStatusCompleted
	f.payments[id].GatewayRef = ref
	return nil
}

func (f *fakePaymentRepo) MarkFailed(_ context.Context, id uuid.UUID, ref string) error {
	f.payments[id].Status = model.PaymentStatusFailed
	return nil
}

func (f *fakePaymentRepo) MarkRefunded(_ context.Context, id uuid.UUID, _ string, _ int64) error {
	f.payments[id].Status = model.PaymentStatusRefunded
	return nil
}

func setupWebhookRouter(t *testing.T) (*gin.Engine, *fakePaymentRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &fakePaymentRepo{payments: make(map[uuid.UUID]*model.Payment)}
	zl := zerolog.Nop()
	svc := paymentService.NewService(repo, &zl)
	h := NewHandler(svc, testSecret, testMetrics)

	r := gin.New()
	h.RegisterWebhookRoutes(r.Group(""))
	return r, repo
}

func postWebhook(r *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhook_ValidSignatureProcessesEvent(t *testing.T) {
	r, repo := setupWebhookRouter(t)

	p := &model.Payment{Status: model.PaymentStatusPending, Amount: 5000}
	p.ID = uuid.New()
	repo.payments[p.ID] = p

	body, err := json.Marshal(model.WebhookEvent{
		Type:       model.WebhookPaymentCompleted,
		PaymentID:  p.ID,
		GatewayRef: "gw-42",
	})
	require.NoError(t, err)

	w := postWebhook(r, body, security.SignPayload(testSecret, body))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["received"])
	assert.Equal(t, model.PaymentStatusCompleted, p.Status)
}

func TestWebhook_MissingSignatureRejected(t *testing.T) {
	r, _ := setupWebhookRouter(t)

	w := postWebhook(r, []byte(`{}`), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_BadSignatureRejected(t *testing.T) {
	r, repo := setupWebhookRouter(t)

	p := &model.Payment{Status: model.PaymentStatusPending, Amount: 5000}
	p.ID = uuid.New()
	repo.payments[p.ID] = p

	body, err := json.Marshal(model.WebhookEvent{
		Type:      model.WebhookPaymentCompleted,
		PaymentID: p.ID,
	})
	require.NoError(t, err)

	w := postWebhook(r, body, security.SignPayload("wrong-secret", body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.PaymentStatusPending, p.Status)
}

func TestWebhook_TamperedBodyRejected(t *testing.T) {
	r, _ := setupWebhookRouter(t)

	body := []byte(`{"type":"payment.completed"}`)
	signature := security.SignPayload(testSecret, body)
	tampered := []byte(`{"type":"payment.refunded"}`)

	w := postWebhook(r, tampered, signature)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_MalformedBodyRejected(t *testing.T) {
	r, _ := setupWebhookRouter(t)

	body := []byte(`not json at all`)
	w := postWebhook(r, body, security.SignPayload(testSecret, body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_InvalidTransitionConflicts(t *testing.T) {
	r, repo := setupWebhookRouter(t)

	p := &model.Payment{Status: model.PaymentStatusPending, Amount: 5000}
	p.ID = uuid.New()
	repo.payments[p.ID] = p

	body, err := json.Marshal(model.WebhookEvent{
		Type:      model.WebhookPaymentRefunded,
		PaymentID: p.ID,
	})
	require.NoError(t, err)

	w := postWebhook(r, body, security.SignPayload(testSecret, body))
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}
