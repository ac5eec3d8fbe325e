package marketplace

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gigverse/backend/internal/domain/shared/valueobject"
)

// PaymentIntentStatus mirrors the gateway's intent lifecycle. The gateway is
// the source of truth for success and failure; this core only reacts to it.
type PaymentIntentStatus string

const (
	PaymentIntentStatusRequiresPayment PaymentIntentStatus = "requires_payment_method"
	PaymentIntentStatusProcessing      PaymentIntentStatus = "processing"
	PaymentIntentStatusSucceeded       PaymentIntentStatus = "succeeded"
	PaymentIntentStatusCanceled        PaymentIntentStatus = "canceled"
)

// PaymentIntent is the narrow slice of the gateway's intent object this
// core depends on
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       PaymentIntentStatus
	Amount       decimal.Decimal
	Currency     valueobject.Currency
}

// PaymentGateway is the contract consumed from the external payment
// provider. Implementations live in the infrastructure layer.
type PaymentGateway interface {
	// CreatePaymentIntent authorizes a charge for the given amount and
	// returns the intent with its client secret
	CreatePaymentIntent(ctx context.Context, amount valueobject.Money, metadata map[string]string) (*PaymentIntent, error)

	// RetrievePaymentIntent fetches the current intent status
	RetrievePaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error)

	// CancelPaymentIntent voids an intent so no orphaned charge
	// authorization remains; used as the compensating action when order
	// persistence fails after the intent was created
	CancelPaymentIntent(ctx context.Context, intentID string) error
}

// PaymentGatewayError wraps a failure from the payment gateway. Order
// creation compensates (cancels any created intent) before surfacing it.
type PaymentGatewayError struct {
	Op  string // gateway operation that failed
	Err error
}

// Error implements the error interface
func (e *PaymentGatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying gateway error
func (e *PaymentGatewayError) Unwrap() error {
	return e.Err
}

// NewPaymentGatewayError creates a new PaymentGatewayError
func NewPaymentGatewayError(op string, err error) *PaymentGatewayError {
	return &PaymentGatewayError{Op: op, Err: err}
}
