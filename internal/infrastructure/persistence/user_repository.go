package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/identity"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ErrUserExists is returned when the email is already registered
var ErrUserExists = shared.NewDomainError("USER_EXISTS", "User already exists")

// GormUserRepository stores accounts in the users table. Emails are kept
// lower-cased so the unique index is case-insensitive.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	row := models.UserModelFromDomain(user)
	row.Email = normalizeEmail(row.Email)
	return userWriteErr(dbFor(ctx, r.db).Create(row).Error)
}

// Update writes the profile columns only; the stored cart has its own
// compare-and-swap path.
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	res := dbFor(ctx, r.db).Model(&models.UserModel{}).Where("id = ?", user.ID).Updates(map[string]any{
		"name":          user.Name,
		"email":         normalizeEmail(user.Email),
		"password_hash": user.PasswordHash,
		"updated_at":    user.UpdatedAt,
	})
	if err := userWriteErr(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	if email == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, "email = ?", normalizeEmail(email))
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := dbFor(ctx, r.db).Model(&models.UserModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&n).Error
	return n > 0, err
}

func (r *GormUserRepository) findOne(ctx context.Context, cond string, arg any) (*identity.User, error) {
	var row models.UserModel
	err := dbFor(ctx, r.db).Where(cond, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(email)
}

func userWriteErr(err error) error {
	if err != nil && isDuplicateKey(err) {
		return ErrUserExists
	}
	return err
}

// isDuplicateKey also matches raw driver messages for connections opened
// without TranslateError
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
