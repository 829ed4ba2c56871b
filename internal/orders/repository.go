package order

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ani07-05/brickdash/pkg/db/models"
	"github.com/Ani07-05/brickdash/pkg/enums"
)

// Repository wires together order persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads an order with its product.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var ord models.Order
	if err := r.db.WithContext(ctx).Preload("Product").First(&ord, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ord, nil
}

// FindByNumber loads an order by its public number.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	var ord models.Order
	if err := r.db.WithContext(ctx).Preload("Product").First(&ord, "order_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &ord, nil
}

// List returns orders newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Preload("Product").Order("id DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Create inserts the order.
func (r *Repository) Create(ctx context.Context, ord *models.Order) error {
	return r.db.WithContext(ctx).Create(ord).Error
}

// Update persists all order columns.
func (r *Repository) Update(ctx context.Context, ord *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ord).Error
}

// Delete removes the order row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, id).Error
}

// CountByStatus reports how many orders carry the given status.
func (r *Repository) CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
