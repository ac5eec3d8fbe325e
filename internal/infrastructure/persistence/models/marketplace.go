package models

import (
	"time"

	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingModel is the persistence model for marketplace listings
type ListingModel struct {
	AggregateModel
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind      string          `gorm:"type:varchar(10);not null"`
	Title     string          `gorm:"type:varchar(200);not null"`
	DailyRate decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SalePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Currency  string          `gorm:"type:varchar(3);not null"`
	Status    string          `gorm:"type:varchar(20);not null;index"`
}

// TableName specifies the table name
func (ListingModel) TableName() string {
	return "listings"
}

// ToDomain converts the model to a domain listing
func (m *ListingModel) ToDomain() *marketplace.Listing {
	listing := &marketplace.Listing{
		OwnerID:   m.OwnerID,
		Kind:      marketplace.ListingKind(m.Kind),
		Title:     m.Title,
		DailyRate: m.DailyRate,
		SalePrice: m.SalePrice,
		Currency:  valueobject.Currency(m.Currency),
		Status:    marketplace.ListingStatus(m.Status),
	}
	m.PopulateAggregateRoot(&listing.BaseAggregateRoot)
	return listing
}

// ListingModelFromDomain converts a domain listing to the model
func ListingModelFromDomain(listing *marketplace.Listing) *ListingModel {
	m := &ListingModel{
		OwnerID:   listing.OwnerID,
		Kind:      listing.Kind.String(),
		Title:     listing.Title,
		DailyRate: listing.DailyRate,
		SalePrice: listing.SalePrice,
		Currency:  string(listing.Currency),
		Status:    listing.Status.String(),
	}
	m.FromDomainAggregateRoot(listing.BaseAggregateRoot)
	return m
}

// OrderModel is the persistence model for marketplace orders
type OrderModel struct {
	AggregateModel
	Kind            string          `gorm:"type:varchar(10);not null"`
	ListingID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CounterpartyID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency        string          `gorm:"type:varchar(3);not null"`
	PaymentIntentID string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status          string          `gorm:"type:varchar(20);not null;index"`
	StartDate       *time.Time      `gorm:"type:date"`
	EndDate         *time.Time      `gorm:"type:date"`
	ConfirmedAt     *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName specifies the table name
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain order
func (m *OrderModel) ToDomain() *marketplace.Order {
	order := &marketplace.Order{
		Kind:            marketplace.OrderKind(m.Kind),
		ListingID:       m.ListingID,
		OwnerID:         m.OwnerID,
		CounterpartyID:  m.CounterpartyID,
		Amount:          m.Amount,
		Currency:        valueobject.Currency(m.Currency),
		PaymentIntentID: m.PaymentIntentID,
		Status:          marketplace.OrderStatus(m.Status),
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		ConfirmedAt:     m.ConfirmedAt,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		CancelledAt:     m.CancelledAt,
		CancelReason:    m.CancelReason,
	}
	m.PopulateAggregateRoot(&order.BaseAggregateRoot)
	return order
}

// OrderModelFromDomain converts a domain order to the model
func OrderModelFromDomain(order *marketplace.Order) *OrderModel {
	m := &OrderModel{
		Kind:            order.Kind.String(),
		ListingID:       order.ListingID,
		OwnerID:         order.OwnerID,
		CounterpartyID:  order.CounterpartyID,
		Amount:          order.Amount,
		Currency:        string(order.Currency),
		PaymentIntentID: order.PaymentIntentID,
		Status:          order.Status.String(),
		StartDate:       order.StartDate,
		EndDate:         order.EndDate,
		ConfirmedAt:     order.ConfirmedAt,
		StartedAt:       order.StartedAt,
		CompletedAt:     order.CompletedAt,
		CancelledAt:     order.CancelledAt,
		CancelReason:    order.CancelReason,
	}
	m.FromDomainAggregateRoot(order.BaseAggregateRoot)
	return m
}

// AvailabilityBlockModel is the persistence model for availability blocks
type AvailabilityBlockModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Reason    string    `gorm:"type:varchar(500)"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (AvailabilityBlockModel) TableName() string {
	return "availability_blocks"
}

// ToDomain converts the model to a domain block
func (m *AvailabilityBlockModel) ToDomain() *marketplace.AvailabilityBlock {
	return &marketplace.AvailabilityBlock{
		ID:        m.ID,
		ListingID: m.ListingID,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
	}
}

// AvailabilityBlockModelFromDomain converts a domain block to the model
func AvailabilityBlockModelFromDomain(block *marketplace.AvailabilityBlock) *AvailabilityBlockModel {
	return &AvailabilityBlockModel{
		ID:        block.ID,
		ListingID: block.ListingID,
		StartDate: block.StartDate,
		EndDate:   block.EndDate,
		Reason:    block.Reason,
		CreatedAt: block.CreatedAt,
	}
}
