package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

type Service struct {
	repo   repository.PaymentRepository
	logger *zerolog.Logger
}

func NewService(repo repository.PaymentRepository, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, customerID uuid.UUID) ([]*model.Payment, error) {
	return s.repo.List(ctx, customerID)
}

// ProcessWebhookEvent applies one of the three fixed gateway
// transitions. The signature is verified by the caller before the body
// is parsed.
func (s *Service) ProcessWebhookEvent(ctx context.Context, event *model.WebhookEvent) error {
	payment, err := s.resolvePayment(ctx, event)
	if err != nil {
		return err
	}

	switch event.Type {
	case model.WebhookPaymentCompleted:
		if payment.Status != model.PaymentStatusPending {
			return apperrors.Conflict(fmt.Sprintf("payment is already %s", payment.Status))
		}
		if err := s.repo.MarkCompleted(ctx, payment.ID, event.GatewayRef); err != nil {
			return err
		}

	case model.WebhookPaymentFailed:
		if payment.Status != model.PaymentStatusPending {
			return apperrors.Conflict(fmt.Sprintf("payment is already %s", payment.Status))
		}
		if err := s.repo.MarkFailed(ctx, payment.ID, event.GatewayRef); err != nil {
			return err
		}

	case model.WebhookPaymentRefunded:
		if payment.Status != model.PaymentStatusCompleted {
			return apperrors.Conflict("only completed payments can be refunded")
		}
		amount := event.Amount
		if amount <= 0 || amount > payment.Amount {
			amount = payment.Amount
		}
		if err := s.repo.MarkRefunded(ctx, payment.ID, event.GatewayRef, amount); err != nil {
			return err
		}

	default:
		return apperrors.InvalidArgument(fmt.Sprintf("unknown event type %q", event.Type))
	}

	s.logger.Info().
		Str("payment_id", payment.ID.String()).
		Str("event", string(event.Type)).
		Msg("webhook event processed")
	return nil
}

// resolvePayment locates the payment by id, falling back to the
// gateway reference when the gateway retries an event it already
// settled and only echoes its own reference.
func (s *Service) resolvePayment(ctx context.Context, event *model.WebhookEvent) (*model.Payment, error) {
	if event.PaymentID != uuid.Nil {
		return s.repo.Get(ctx, event.PaymentID)
	}
	if event.GatewayRef != "" {
		return s.repo.GetByGatewayRef(ctx, event.GatewayRef)
	}
	return nil, apperrors.InvalidArgument("payment_id or gateway_ref is required")
}
