package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

// Service exposes product catalog management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, id uint, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*ProductDTO, error)
	List(ctx context.Context) ([]ProductDTO, error)
}

// CreateInput holds the validated payload to create a product.
type CreateInput struct {
	Name          string
	Category      string
	Unit          string
	PricePerUnit  decimal.Decimal
	StockQuantity int
	Description   string
}

// UpdateInput holds optional mutation values for a product.
type UpdateInput struct {
	Name         *string
	Category     *string
	Unit         *string
	PricePerUnit *decimal.Decimal
	Description  *string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// Create inserts a new product line.
func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	if input.PricePerUnit.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_per_unit cannot be negative")
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
	}
	if input.Unit == "" {
		input.Unit = "piece"
	}

	product := &models.Product{
		Name:          input.Name,
		Category:      input.Category,
		Unit:          input.Unit,
		PricePerUnit:  input.PricePerUnit,
		StockQuantity: input.StockQuantity,
		Description:   input.Description,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "uq_products_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return toDTO(product), nil
}

// Update patches the provided fields on a product.
func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.PricePerUnit != nil {
		if input.PricePerUnit.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_per_unit cannot be negative")
		}
		product.PricePerUnit = *input.PricePerUnit
	}
	if input.Description != nil {
		product.Description = *input.Description
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "uq_products_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return toDTO(product), nil
}

// Delete removes a product when no orders reference it.
func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "product not found")
	}

	referencing, err := s.repo.CountReferencingOrders(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders")
	}
	if referencing > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product has orders and cannot be deleted").
			WithDetails(map[string]any{"order_count": referencing})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// Get loads one product.
func (s *service) Get(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product not found")
	}
	return toDTO(product), nil
}

// List returns the whole catalog, newest first.
func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	result := make([]ProductDTO, 0, len(products))
	for i := range products {
		result = append(result, *toDTO(&products[i]))
	}
	return result, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
}
