package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// StripeWebhookService verifies and processes Stripe webhook events.
// Payment confirmations funnel into OrderService.ConfirmPayment, whose
// guarded status transition makes redeliveries harmless.
type StripeWebhookService struct {
	webhookSecret string
	orderService  *OrderService
	logger        *zap.Logger
}

// NewStripeWebhookService creates a new StripeWebhookService
func NewStripeWebhookService(webhookSecret string, orderService *OrderService, logger *zap.Logger) *StripeWebhookService {
	return &StripeWebhookService{
		webhookSecret: webhookSecret,
		orderService:  orderService,
		logger:        logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies the event signature and dispatches by event type
func (s *StripeWebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		s.logger.Error("webhook signature verification failed", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	s.logger.Info("processing stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "payment_intent.succeeded":
		err = s.handlePaymentIntentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		err = s.handlePaymentIntentFailed(ctx, event)
	case "payment_intent.canceled":
		err = s.handlePaymentIntentCanceled(ctx, event)
	default:
		s.logger.Debug("unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

func (s *StripeWebhookService) handlePaymentIntentSucceeded(ctx context.Context, event stripe.Event) error {
	intent, err := unmarshalIntent(event)
	if err != nil {
		return err
	}

	result, err := s.orderService.ConfirmPayment(ctx, intent.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Intents created outside this service (or before the order
			// row landed) are acknowledged so Stripe stops retrying.
			s.logger.Warn("no order for payment intent",
				zap.String("payment_intent_id", intent.ID))
			return nil
		}
		return err
	}

	if result.Status == ConfirmPaymentStatusAlreadyConfirmed {
		s.logger.Info("payment confirmation replayed, order already confirmed",
			zap.String("payment_intent_id", intent.ID))
	}
	return nil
}

func (s *StripeWebhookService) handlePaymentIntentFailed(ctx context.Context, event stripe.Event) error {
	intent, err := unmarshalIntent(event)
	if err != nil {
		return err
	}

	order, err := s.orderService.orders.FindByPaymentIntentID(ctx, intent.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	s.logger.Warn("payment failed for order",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_intent_id", intent.ID))
	return s.orderService.CancelOrder(ctx, order.ID, "payment failed")
}

func (s *StripeWebhookService) handlePaymentIntentCanceled(ctx context.Context, event stripe.Event) error {
	intent, err := unmarshalIntent(event)
	if err != nil {
		return err
	}

	order, err := s.orderService.orders.FindByPaymentIntentID(ctx, intent.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if order.Status != marketplace.OrderStatusPendingPayment {
		// Cancellation of an already-settled intent changes nothing here
		return nil
	}
	return s.orderService.CancelOrder(ctx, order.ID, "payment intent canceled")
}

func unmarshalIntent(event stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}
	return &intent, nil
}
