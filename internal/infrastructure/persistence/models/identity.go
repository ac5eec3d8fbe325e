package models

import (
	"github.com/gigverse/backend/internal/domain/identity"
	"github.com/gigverse/backend/internal/domain/subscription"
	"github.com/google/uuid"
)

// UserModel is the persistence model for users
type UserModel struct {
	AggregateModel
	Email       string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName string     `gorm:"type:varchar(100);not null"`
	Tier        string     `gorm:"type:varchar(20);not null;default:'FREE'"`
	ReferredBy  *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the table name
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Tier:        subscription.Tier(m.Tier),
		ReferredBy:  m.ReferredBy,
	}
	m.PopulateAggregateRoot(&u.BaseAggregateRoot)
	return u
}

// UserModelFromDomain converts a domain user to the model
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Tier:        string(u.Tier),
		ReferredBy:  u.ReferredBy,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
