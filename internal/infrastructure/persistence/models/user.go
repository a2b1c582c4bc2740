package models

import (
	"database/sql/driver"
	"time"

	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/cart"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
// The user's cart snapshot lives on the same row.
type UserModel struct {
	AggregateModel
	Name          string    `gorm:"type:varchar(100);not null"`
	Email         string    `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	CartData      CartItems `gorm:"type:jsonb;not null;default:'{}'"`
	CartVersion   int64     `gorm:"not null;default:0"`
	CartUpdatedAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.root(),
		Name:              m.Name,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
	}
}

// FromDomain populates the persistence model from a domain User entity
func (m *UserModel) FromDomain(u *identity.User) {
	m.AggregateModel = aggregateColumns(u.BaseAggregateRoot)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	if m.CartData == nil {
		m.CartData = CartItems{}
	}
}

// UserModelFromDomain creates a new persistence model from a domain User entity
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// CartFromUserModel extracts the stored cart snapshot of a user row
func CartFromUserModel(m *UserModel) *cart.Cart {
	var updated time.Time
	if m.CartUpdatedAt != nil {
		updated = *m.CartUpdatedAt
	}
	return cart.FromItems(m.ID, cart.Items(m.CartData), m.CartVersion, updated)
}

// CartItems is a cart snapshot stored as a JSON object column
type CartItems cart.Items

// Value implements driver.Valuer
func (c CartItems) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	return jsonValue(cart.Items(c))
}

// Scan implements sql.Scanner
func (c *CartItems) Scan(value any) error {
	items := cart.Items{}
	if err := scanJSON(value, &items); err != nil {
		return err
	}
	*c = CartItems(items)
	return nil
}
