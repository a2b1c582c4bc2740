package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/cart"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCartRepository stores each user's cart in the cart columns of the
// users row, guarded by cart_version.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Get returns the stored cart of a user
func (r *GormCartRepository) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var model models.UserModel
	if err := dbFor(ctx, r.db).
		Select("id", "cart_data", "cart_version", "cart_updated_at").
		First(&model, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return models.CartFromUserModel(&model), nil
}

// Save writes the cart when cart_version still equals expectedVersion
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart, expectedVersion int64) error {
	now := time.Now()
	result := dbFor(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ? AND cart_version = ?", c.UserID, expectedVersion).
		Updates(map[string]any{
			"cart_data":       models.CartItems(c.Snapshot()),
			"cart_version":    expectedVersion + 1,
			"cart_updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := dbFor(ctx, r.db).Model(&models.UserModel{}).Where("id = ?", c.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return cart.ErrConflict
	}
	c.Version = expectedVersion + 1
	c.UpdatedAt = now
	return nil
}

// Ensure GormCartRepository implements cart.Repository
var _ cart.Repository = (*GormCartRepository)(nil)
