package payment

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"go.uber.org/zap"

	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
)

// StripeAdapter implements the marketplace payment gateway on Stripe
// payment intents.
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// CreatePaymentIntent authorizes a charge for the given amount. Stripe
// amounts are in the smallest currency unit, so dollars become cents.
func (a *StripeAdapter) CreatePaymentIntent(ctx context.Context, amount valueobject.Money, metadata map[string]string) (*marketplace.PaymentIntent, error) {
	a.logger.Debug("creating Stripe payment intent",
		zap.String("amount", amount.String()))

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount.Amount())),
		Currency: stripe.String(strings.ToLower(string(amount.Currency()))),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if len(metadata) > 0 {
		params.Metadata = metadata
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		a.logger.Error("failed to create Stripe payment intent", zap.Error(err))
		return nil, marketplace.NewPaymentGatewayError("create_intent", err)
	}

	a.logger.Info("created Stripe payment intent",
		zap.String("intent_id", intent.ID),
		zap.Int64("amount", intent.Amount))

	return toGatewayIntent(intent), nil
}

// RetrievePaymentIntent fetches the current intent state from Stripe.
func (a *StripeAdapter) RetrievePaymentIntent(ctx context.Context, intentID string) (*marketplace.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := paymentintent.Get(intentID, params)
	if err != nil {
		a.logger.Error("failed to retrieve Stripe payment intent",
			zap.String("intent_id", intentID),
			zap.Error(err))
		return nil, marketplace.NewPaymentGatewayError("retrieve_intent", err)
	}

	return toGatewayIntent(intent), nil
}

// CancelPaymentIntent voids an intent so no charge authorization is left
// behind when the order it belonged to could not be persisted.
func (a *StripeAdapter) CancelPaymentIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	_, err := paymentintent.Cancel(intentID, params)
	if err != nil {
		a.logger.Error("failed to cancel Stripe payment intent",
			zap.String("intent_id", intentID),
			zap.Error(err))
		return marketplace.NewPaymentGatewayError("cancel_intent", err)
	}

	a.logger.Info("cancelled Stripe payment intent", zap.String("intent_id", intentID))
	return nil
}

func toGatewayIntent(intent *stripe.PaymentIntent) *marketplace.PaymentIntent {
	return &marketplace.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       toGatewayStatus(intent.Status),
		Amount:       fromMinorUnits(intent.Amount),
		Currency:     valueobject.Currency(strings.ToUpper(string(intent.Currency))),
	}
}

func toGatewayStatus(status stripe.PaymentIntentStatus) marketplace.PaymentIntentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return marketplace.PaymentIntentStatusSucceeded
	case stripe.PaymentIntentStatusProcessing:
		return marketplace.PaymentIntentStatusProcessing
	case stripe.PaymentIntentStatusCanceled:
		return marketplace.PaymentIntentStatusCanceled
	default:
		return marketplace.PaymentIntentStatusRequiresPayment
	}
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100))
}

var _ marketplace.PaymentGateway = (*StripeAdapter)(nil)
