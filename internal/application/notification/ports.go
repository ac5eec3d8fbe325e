package notification

import (
	"context"

	"github.com/google/uuid"
)

// ApplicationNotifier delivers gig application notifications to owners and
// applicants. Implementations must be safe for concurrent use; the event bus
// dispatches handlers concurrently.
type ApplicationNotifier interface {
	NotifyOwnerOfApplication(ctx context.Context, ownerID, gigID, applicantID uuid.UUID, gigTitle string) error
	NotifyApplicantShortlisted(ctx context.Context, applicantID, gigID uuid.UUID, gigTitle string) error
}

// BookingNotifier delivers order lifecycle notifications to both parties
type BookingNotifier interface {
	NotifyOrderConfirmed(ctx context.Context, ownerID, counterpartyID, orderID uuid.UUID) error
	NotifyOrderCancelled(ctx context.Context, ownerID, counterpartyID, orderID uuid.UUID, reason string) error
}

// ShowcaseNotifier announces newly published showcases to followers
type ShowcaseNotifier interface {
	NotifyShowcasePublished(ctx context.Context, ownerID, showcaseID uuid.UUID, title string) error
}

// WelcomeMailer sends the onboarding mail after registration
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, userID uuid.UUID, email, displayName string) error
}

// NopNotifier discards every notification. Used in tests and in deployments
// without a delivery channel configured.
type NopNotifier struct{}

func (NopNotifier) NotifyOwnerOfApplication(ctx context.Context, ownerID, gigID, applicantID uuid.UUID, gigTitle string) error {
	return nil
}

func (NopNotifier) NotifyApplicantShortlisted(ctx context.Context, applicantID, gigID uuid.UUID, gigTitle string) error {
	return nil
}

func (NopNotifier) NotifyOrderConfirmed(ctx context.Context, ownerID, counterpartyID, orderID uuid.UUID) error {
	return nil
}

func (NopNotifier) NotifyOrderCancelled(ctx context.Context, ownerID, counterpartyID, orderID uuid.UUID, reason string) error {
	return nil
}

func (NopNotifier) NotifyShowcasePublished(ctx context.Context, ownerID, showcaseID uuid.UUID, title string) error {
	return nil
}

func (NopNotifier) SendWelcome(ctx context.Context, userID uuid.UUID, email, displayName string) error {
	return nil
}
