package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/trade"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByCheckoutSession finds the order a hosted checkout session belongs to
func (r *GormOrderRepository) FindByCheckoutSession(ctx context.Context, sessionID string) (*trade.Order, error) {
	if sessionID == "" {
		return nil, shared.ErrNotFound
	}
	return r.first(ctx, "checkout_session_id = ?", sessionID)
}

// FindByUser lists a user's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]trade.Order, error) {
	var rows []models.OrderModel
	if err := dbFor(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// FindAll lists every order, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context) ([]trade.Order, error) {
	var rows []models.OrderModel
	if err := dbFor(ctx, r.db).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// Create inserts a new order
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	return dbFor(ctx, r.db).Create(model).Error
}

// SaveWithLock saves with optimistic locking. The stored version must equal
// the order's version; on success both are bumped.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	model.Version = order.Version + 1
	result := dbFor(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	order.BumpVersion()
	return nil
}

// Delete removes an order permanently
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).Delete(&models.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) first(ctx context.Context, query string, args ...any) (*trade.Order, error) {
	var model models.OrderModel
	if err := dbFor(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func toOrders(rows []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
