package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = bcrypt.DefaultCost

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a storefront customer account.
// The cart snapshot lives beside the user record but is owned by the cart context.
type User struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	PasswordHash string
}

// NewUser validates registration input and hashes the password
func NewUser(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		PasswordHash:      string(hash),
	}
	user.Record(NewUserRegisteredEvent(user))
	return user, nil
}

// VerifyPassword checks a plain-text password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Rename changes the display name
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	u.Name = name
	u.Touch()
	return nil
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address shape
func ValidateEmail(email string) error {
	if email == "" || len(email) > 254 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_INPUT", "Name cannot exceed 100 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewDomainError("WEAK_PASSWORD", "Enter a strong password of at least 8 characters")
	}
	// bcrypt ignores everything after 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("WEAK_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

// UserID parses a string identifier
func UserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.NewDomainError("INVALID_INPUT", "Invalid user ID")
	}
	return id, nil
}
