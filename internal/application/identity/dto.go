package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/identity"
)

// RegisterInput contains the input for customer registration
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput contains the input for customer and admin login
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult contains an issued token and, for customers, the account
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	TokenType string
	User      *UserInfo
}

// UserInfo is the public view of an account, without the password hash
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserInfo converts a domain user to its public view
func ToUserInfo(u *identity.User) *UserInfo {
	return &UserInfo{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
